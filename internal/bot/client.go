package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// RegistrationPayload is the JSON body posted to the telegram-register
// endpoint. Optional fields are omitted when Telegram did not supply them.
type RegistrationPayload struct {
	TelegramID   int64  `json:"telegram_id"`
	Username     string `json:"username,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// payloadFromUser builds the registration payload from a Telegram user.
func payloadFromUser(u *tgbotapi.User) RegistrationPayload {
	return RegistrationPayload{
		TelegramID:   u.ID,
		Username:     u.UserName,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		LanguageCode: u.LanguageCode,
	}
}

// Client posts Telegram users to the API's telegram-register endpoint.
type Client struct {
	apiURL string
	http   *http.Client
}

// NewClient creates a Client for the given endpoint URL.
func NewClient(apiURL string) *Client {
	return &Client{
		apiURL: apiURL,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Register posts the payload. Any non-2xx status is an error; the caller
// decides whether to care (the forwarder only logs it).
func (c *Client) Register(ctx context.Context, payload RegistrationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("bot: serializing payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("bot: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("bot: posting registration for %d: %w", payload.TelegramID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("bot: registration for %d returned status %d", payload.TelegramID, resp.StatusCode)
	}

	return nil
}
