package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jitendra-ky/klb-assignment/internal/apperror"
	"github.com/jitendra-ky/klb-assignment/internal/model"
	"github.com/jitendra-ky/klb-assignment/internal/repository"
)

// TelegramUsers exposes the Telegram user repository backed by this DB.
func (db *DB) TelegramUsers() *TelegramUserDB {
	return &TelegramUserDB{conn: db.conn}
}

// TelegramUserDB implements repository.TelegramUserRepository.
type TelegramUserDB struct {
	conn *sql.DB
}

var _ repository.TelegramUserRepository = (*TelegramUserDB)(nil)

// GetByTelegramID retrieves a Telegram user by natural key.
// Returns apperror.ErrNotFound on first sighting of an ID.
func (t *TelegramUserDB) GetByTelegramID(ctx context.Context, telegramID int64) (*model.TelegramUser, error) {
	var u model.TelegramUser

	err := t.conn.QueryRowContext(ctx,
		`SELECT telegram_id, username, first_name, last_name, language_code, created_at, updated_at
		 FROM telegram_users WHERE telegram_id = ?`,
		telegramID,
	).Scan(
		&u.TelegramID,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.LanguageCode,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("telegram user", fmt.Sprint(telegramID))
		}
		return nil, fmt.Errorf("sqlite: getting telegram user %d: %w", telegramID, err)
	}

	return &u, nil
}

// Create inserts a new Telegram user for a previously unseen telegram_id.
func (t *TelegramUserDB) Create(ctx context.Context, user *model.TelegramUser) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := t.conn.ExecContext(ctx,
		`INSERT INTO telegram_users (telegram_id, username, first_name, last_name, language_code, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.TelegramID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.LanguageCode,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return apperror.Conflict("telegram_id", "telegram user with this telegram_id already exists.")
		}
		return fmt.Errorf("sqlite: inserting telegram user %d: %w", user.TelegramID, err)
	}

	return nil
}

// Update overwrites the mutable fields of an existing Telegram user.
func (t *TelegramUserDB) Update(ctx context.Context, user *model.TelegramUser) error {
	user.UpdatedAt = time.Now().UTC()

	res, err := t.conn.ExecContext(ctx,
		`UPDATE telegram_users
		 SET username = ?, first_name = ?, last_name = ?, language_code = ?, updated_at = ?
		 WHERE telegram_id = ?`,
		user.Username,
		user.FirstName,
		user.LastName,
		user.LanguageCode,
		user.UpdatedAt,
		user.TelegramID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating telegram user %d: %w", user.TelegramID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating telegram user %d: %w", user.TelegramID, err)
	}
	if affected == 0 {
		return apperror.NotFound("telegram user", fmt.Sprint(user.TelegramID))
	}

	return nil
}
