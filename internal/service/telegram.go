package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jitendra-ky/klb-assignment/internal/apperror"
	"github.com/jitendra-ky/klb-assignment/internal/model"
	"github.com/jitendra-ky/klb-assignment/internal/repository"
	"github.com/jitendra-ky/klb-assignment/internal/validate"
)

// MsgTelegramIDRequired is the exact error returned when the natural key is
// missing. It short-circuits before schema validation and is rendered as
// {"error": "..."} rather than a field map.
const MsgTelegramIDRequired = "telegram_id is required."

// telegramSchema: only the natural key is required; Telegram does not
// guarantee any of the profile fields.
var telegramSchema = validate.Schema{
	"telegram_id":   {Kind: validate.Int, Required: true},
	"username":      {Kind: validate.String},
	"first_name":    {Kind: validate.String},
	"last_name":     {Kind: validate.String},
	"language_code": {Kind: validate.String},
}

// TelegramService handles upsert registration of Telegram users.
type TelegramService struct {
	telegramUsers repository.TelegramUserRepository
	logger        *slog.Logger
}

// NewTelegramService creates a TelegramService.
func NewTelegramService(telegramUsers repository.TelegramUserRepository, logger *slog.Logger) *TelegramService {
	return &TelegramService{telegramUsers: telegramUsers, logger: logger}
}

// RegisterOrUpdate upserts a Telegram user from an untrusted field map.
//
// Order of enforcement:
//  1. telegram_id must be present and non-empty, checked before any schema
//     validation, returning the single MsgTelegramIDRequired error.
//  2. Schema validation (type checks; collected field errors).
//  3. Lookup by natural key: found → partial update where absent fields keep
//     their stored values; not found → create.
//
// Nothing is persisted on a validation failure, and the result does not
// reveal whether it was a create or an update.
func (s *TelegramService) RegisterOrUpdate(ctx context.Context, fields map[string]any) (*model.TelegramUser, error) {
	if raw, ok := fields["telegram_id"]; !ok || isBlank(raw) {
		return nil, &apperror.AppError{Err: apperror.ErrValidation, Message: MsgTelegramIDRequired}
	}

	cleaned, errs := telegramSchema.Clean(fields, validate.Partial)
	if errs != nil {
		return nil, apperror.Validation(errs)
	}

	telegramID := validate.IntOr(cleaned, "telegram_id", 0)

	existing, err := s.telegramUsers.GetByTelegramID(ctx, telegramID)
	switch {
	case err == nil:
		existing.Username = validate.StringOr(cleaned, "username", existing.Username)
		existing.FirstName = validate.StringOr(cleaned, "first_name", existing.FirstName)
		existing.LastName = validate.StringOr(cleaned, "last_name", existing.LastName)
		existing.LanguageCode = validate.StringOr(cleaned, "language_code", existing.LanguageCode)

		if err := s.telegramUsers.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("service/telegram: updating user %d: %w", telegramID, err)
		}

		s.logger.Info("telegram user updated", slog.Int64("telegramID", telegramID))
		return existing, nil

	case errors.Is(err, apperror.ErrNotFound):
		user := &model.TelegramUser{
			TelegramID:   telegramID,
			Username:     validate.StringOr(cleaned, "username", ""),
			FirstName:    validate.StringOr(cleaned, "first_name", ""),
			LastName:     validate.StringOr(cleaned, "last_name", ""),
			LanguageCode: validate.StringOr(cleaned, "language_code", ""),
		}

		if err := s.telegramUsers.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("service/telegram: creating user %d: %w", telegramID, err)
		}

		s.logger.Info("telegram user created", slog.Int64("telegramID", telegramID))
		return user, nil

	default:
		return nil, fmt.Errorf("service/telegram: looking up user %d: %w", telegramID, err)
	}
}

// isBlank reports whether the raw natural-key value counts as absent.
// A zero ID is treated as absent; Telegram never assigns ID 0.
func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case float64:
		return t == 0
	case int:
		return t == 0
	case int64:
		return t == 0
	default:
		return false
	}
}
