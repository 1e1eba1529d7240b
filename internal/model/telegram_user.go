package model

import "time"

// TelegramUser represents a Telegram bot user, independent of User.
//
// TelegramID is the natural key: exactly one record exists per Telegram
// account, and repeated registrations for the same TelegramID overwrite the
// remaining fields in place. All fields other than TelegramID are optional;
// Telegram itself does not guarantee a username or last name.
type TelegramUser struct {
	TelegramID   int64     `json:"telegram_id"   db:"telegram_id"`
	Username     string    `json:"username"      db:"username"`
	FirstName    string    `json:"first_name"    db:"first_name"`
	LastName     string    `json:"last_name"     db:"last_name"`
	LanguageCode string    `json:"language_code" db:"language_code"`
	CreatedAt    time.Time `json:"created_at"    db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"    db:"updated_at"`
}
