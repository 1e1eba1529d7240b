// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered platform account.
//
// The internal ID is a generated xid string; username and email are each
// unique across all accounts. PasswordHash holds the bcrypt hash of the
// user's password and is excluded from every JSON representation; API
// responses only ever contain the sanitized fields.
type User struct {
	ID           string    `json:"id"         db:"id"`
	Username     string    `json:"username"   db:"username"`
	Email        string    `json:"email"      db:"email"`
	PasswordHash string    `json:"-"          db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name"  db:"last_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
