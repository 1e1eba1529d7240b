// Package bot implements the Telegram forwarder: a long-lived process that
// receives /start events and registers their senders with the API.
//
// An API failure is logged and never shown to the chat user; the greeting
// is always sent.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the slice of the Telegram API the message handlers use.
// *tgbotapi.BotAPI satisfies it; tests substitute a recording fake.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// registrar posts a Telegram user to the registration API.
type registrar interface {
	Register(ctx context.Context, payload RegistrationPayload) error
}

var _ registrar = (*Client)(nil)

// Bot wraps the Telegram bot API and the registration client.
type Bot struct {
	api    *tgbotapi.BotAPI
	sender sender
	client registrar
	logger *slog.Logger
}

// New authenticates against the Telegram API and returns a Bot.
func New(token string, client *Client, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("bot: creating bot API: %w", err)
	}

	logger.Info("authorized on Telegram", slog.String("account", api.Self.UserName))

	return &Bot{api: api, sender: api, client: client, logger: logger}, nil
}

// Start runs the long-polling loop until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot started with long polling")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("stopping bot")
			b.api.StopReceivingUpdates()
			return nil
		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic in update handler", slog.Any("panic", r))
		}
	}()

	msg := update.Message
	if msg == nil || !msg.IsCommand() || msg.Command() != "start" {
		return
	}

	b.handleStart(ctx, msg)
}

// handleStart registers the sender with the API and greets them. The POST
// is best-effort: its failure is logged and the greeting is sent anyway.
func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	user := msg.From
	if user == nil {
		return
	}

	if err := b.client.Register(ctx, payloadFromUser(user)); err != nil {
		b.logger.Error("failed to register telegram user",
			slog.Int64("telegramID", user.ID),
			slog.String("error", err.Error()),
		)
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("Hi, welcome! %s", user.UserName))
	if _, err := b.sender.Send(reply); err != nil {
		b.logger.Error("failed to send greeting",
			slog.Int64("chatID", msg.Chat.ID),
			slog.String("error", err.Error()),
		)
	}
}
