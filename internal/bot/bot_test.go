package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// fakeSender records every message instead of calling Telegram.
type fakeSender struct {
	sent []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

// fakeRegistrar records registration payloads and can simulate API failure.
type fakeRegistrar struct {
	payloads []RegistrationPayload
	err      error
}

func (f *fakeRegistrar) Register(ctx context.Context, payload RegistrationPayload) error {
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

func newTestBot(s sender, r registrar) *Bot {
	return &Bot{
		sender: s,
		client: r,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func startMessage() *tgbotapi.Message {
	return &tgbotapi.Message{
		Text: "/start",
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: 6},
		},
		From: &tgbotapi.User{
			ID:        123456789,
			UserName:  "testuser",
			FirstName: "Test",
		},
		Chat: &tgbotapi.Chat{ID: 42},
	}
}

func TestHandleStart_RegistersAndGreets(t *testing.T) {
	snd := &fakeSender{}
	reg := &fakeRegistrar{}
	b := newTestBot(snd, reg)

	b.handleStart(context.Background(), startMessage())

	if len(reg.payloads) != 1 {
		t.Fatalf("registered %d users, want 1", len(reg.payloads))
	}
	if p := reg.payloads[0]; p.TelegramID != 123456789 || p.Username != "testuser" {
		t.Errorf("payload = %+v", p)
	}

	if len(snd.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(snd.sent))
	}
	reply, ok := snd.sent[0].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("sent message type = %T", snd.sent[0])
	}
	if reply.Text != "Hi, welcome! testuser" {
		t.Errorf("reply text = %q", reply.Text)
	}
	if reply.ChatID != 42 {
		t.Errorf("reply chat = %d, want 42", reply.ChatID)
	}
}

func TestHandleStart_GreetsEvenWhenRegistrationFails(t *testing.T) {
	snd := &fakeSender{}
	reg := &fakeRegistrar{err: errors.New("api unreachable")}
	b := newTestBot(snd, reg)

	b.handleStart(context.Background(), startMessage())

	if len(snd.sent) != 1 {
		t.Fatalf("sent %d messages, want 1 despite the failed registration", len(snd.sent))
	}
	reply, ok := snd.sent[0].(tgbotapi.MessageConfig)
	if !ok || reply.Text != "Hi, welcome! testuser" {
		t.Errorf("reply = %+v", snd.sent[0])
	}
}

func TestHandleUpdate_IgnoresNonStartMessages(t *testing.T) {
	snd := &fakeSender{}
	reg := &fakeRegistrar{}
	b := newTestBot(snd, reg)

	plain := startMessage()
	plain.Text = "hello"
	plain.Entities = nil

	b.handleUpdate(context.Background(), tgbotapi.Update{Message: plain})
	b.handleUpdate(context.Background(), tgbotapi.Update{Message: nil})

	if len(snd.sent) != 0 || len(reg.payloads) != 0 {
		t.Errorf("sent = %d, registered = %d, want 0 each", len(snd.sent), len(reg.payloads))
	}
}
