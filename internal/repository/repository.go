// Package repository declares the persistence interfaces consumed by the
// service layer. Concrete implementations live in subpackages (sqlite).
package repository

import (
	"context"

	"github.com/jitendra-ky/klb-assignment/internal/model"
)

// UserRepository persists platform accounts. The store enforces uniqueness
// on username and email; Create surfaces a violation as an
// apperror.ErrConflict keyed to the offending field.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// TelegramUserRepository persists Telegram users keyed by their Telegram ID.
// Lookup-then-branch lives in the service layer: GetByTelegramID returns
// apperror.ErrNotFound for an unseen ID, and the caller decides between
// Create and Update.
type TelegramUserRepository interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.TelegramUser, error)
	Create(ctx context.Context, user *model.TelegramUser) error
	Update(ctx context.Context, user *model.TelegramUser) error
}
