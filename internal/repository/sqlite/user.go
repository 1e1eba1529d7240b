package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/jitendra-ky/klb-assignment/internal/apperror"
	"github.com/jitendra-ky/klb-assignment/internal/model"
	"github.com/jitendra-ky/klb-assignment/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Uniqueness-conflict messages keyed by field, mirrored by the service
// layer's pre-checks so the client sees one message regardless of whether
// the conflict was found before or during the INSERT.
const (
	MsgUsernameTaken = "A user with that username already exists."
	MsgEmailTaken    = "user with this email address already exists."
)

// Create inserts a new user. The ID and timestamps are assigned here; the
// caller's struct is updated in place.
//
// A UNIQUE violation on username or email is returned as an
// apperror.ErrConflict keyed to the conflicting field. This is the path a
// concurrent-registration race takes when the service-level pre-check
// missed it.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, first_name, last_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if field, ok := uniqueViolation(err); ok {
			switch field {
			case "username":
				return apperror.Conflict("username", MsgUsernameTaken)
			case "email":
				return apperror.Conflict("email", MsgEmailTaken)
			}
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Username, err)
	}

	return nil
}

// GetByID retrieves a user by internal ID.
// Returns apperror.ErrNotFound if no such user exists.
func (db *DB) GetByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = ?`, id)
}

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getUser(ctx, `WHERE username = ?`, username)
}

// GetByEmail retrieves a user by email address.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `WHERE email = ?`, email)
}

func (db *DB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, first_name, last_name, created_at, updated_at
		 FROM users `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user by %v: %w", arg, err)
	}

	return &u, nil
}

// uniqueViolation reports whether err is a SQLite UNIQUE-constraint failure
// and, if so, which column it hit. modernc.org/sqlite exposes the failed
// constraint only through the error text ("UNIQUE constraint failed:
// users.username"), so we match on it.
func uniqueViolation(err error) (field string, ok bool) {
	msg := err.Error()
	idx := strings.Index(msg, "UNIQUE constraint failed: ")
	if idx < 0 {
		return "", false
	}
	qualified := msg[idx+len("UNIQUE constraint failed: "):]
	if dot := strings.IndexByte(qualified, '.'); dot >= 0 {
		qualified = qualified[dot+1:]
	}
	if end := strings.IndexAny(qualified, ", ("); end >= 0 {
		qualified = qualified[:end]
	}
	return strings.TrimSpace(qualified), true
}
