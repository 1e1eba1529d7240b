// Package service contains the registration and authentication business
// logic, between the HTTP handlers and the repositories:
//
//	handlers (HTTP) → services (rules) → repositories (DB)
//	                ↘ auth (JWT/bcrypt) ↘ queue (async jobs)
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jitendra-ky/klb-assignment/internal/apperror"
	"github.com/jitendra-ky/klb-assignment/internal/auth"
	"github.com/jitendra-ky/klb-assignment/internal/model"
	"github.com/jitendra-ky/klb-assignment/internal/queue"
	"github.com/jitendra-ky/klb-assignment/internal/repository"
	"github.com/jitendra-ky/klb-assignment/internal/validate"
)

// Uniqueness-conflict messages reported against the conflicting field.
// Kept identical to what the sqlite layer reports on a constraint race so
// that the client sees one message either way.
const (
	msgUsernameTaken = "A user with that username already exists."
	msgEmailTaken    = "user with this email address already exists."
)

// Credential-failure messages for the token endpoints.
const (
	msgBadCredentials = "No active account found with the given credentials"
	msgBadRefresh     = "Token is invalid or expired"
)

// userSchema drives validation of registration input. The password is
// write-only: it never appears on model.User and is hashed before the
// record ever reaches a repository.
var userSchema = validate.Schema{
	"username":   {Kind: validate.String, Required: true},
	"email":      {Kind: validate.String, Required: true},
	"password":   {Kind: validate.String, Required: true},
	"first_name": {Kind: validate.String},
	"last_name":  {Kind: validate.String},
}

// UserService handles account registration, token issuance, and profile
// reads.
type UserService struct {
	users      repository.UserRepository
	passwords  *auth.PasswordService
	tokens     *auth.TokenService
	dispatcher queue.Dispatcher
	logger     *slog.Logger
}

// NewUserService creates a UserService with all dependencies injected.
func NewUserService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	tokens *auth.TokenService,
	dispatcher queue.Dispatcher,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:      users,
		passwords:  passwords,
		tokens:     tokens,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Register creates a new account from an untrusted field map. It is
// strictly create-only: an existing username or email is a conflict, never
// an update.
//
// All field violations are collected into one error: a submission missing
// three fields reports all three. The uniqueness pre-checks run alongside
// schema validation so a taken username and a missing password surface
// together; a concurrent-registration race that slips past the pre-check is
// caught by the store's UNIQUE constraint and reported with the same
// field-keyed message.
//
// On success exactly one welcome-email job is enqueued for the new address.
// The enqueue is fire-and-forget: failure is logged and the registration
// still succeeds.
func (s *UserService) Register(ctx context.Context, fields map[string]any) (*model.User, error) {
	cleaned, errs := userSchema.Clean(fields, validate.Create)
	if errs == nil {
		errs = make(map[string][]string)
	}

	username := validate.StringOr(cleaned, "username", "")
	email := validate.StringOr(cleaned, "email", "")

	if username != "" && len(errs["username"]) == 0 {
		if _, err := s.users.GetByUsername(ctx, username); err == nil {
			errs["username"] = append(errs["username"], msgUsernameTaken)
		} else if !errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("service/user: checking username %s: %w", username, err)
		}
	}
	if email != "" && len(errs["email"]) == 0 {
		if _, err := s.users.GetByEmail(ctx, email); err == nil {
			errs["email"] = append(errs["email"], msgEmailTaken)
		} else if !errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("service/user: checking email %s: %w", email, err)
		}
	}

	if len(errs) > 0 {
		return nil, apperror.Validation(errs)
	}

	hash, err := s.passwords.Hash(validate.StringOr(cleaned, "password", ""))
	if err != nil {
		return nil, fmt.Errorf("service/user: hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    validate.StringOr(cleaned, "first_name", ""),
		LastName:     validate.StringOr(cleaned, "last_name", ""),
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A conflict here lost a race with a concurrent registration;
		// it carries the same field-keyed message as the pre-check.
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	if err := s.dispatcher.Enqueue(ctx, queue.JobSendWelcomeEmail, queue.WelcomeEmailPayload{Email: user.Email}); err != nil {
		// Best-effort: the notification never blocks or fails a
		// registration that has already been persisted.
		s.logger.Warn("welcome email enqueue failed",
			slog.String("email", user.Email),
			slog.String("error", err.Error()),
		)
	}

	return user, nil
}

// Profile returns the sanitized account for the given internal ID. Used by
// the profile handler after the middleware has validated the bearer token.
func (s *UserService) Profile(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("service/user: user ID must not be empty")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/user: fetching user %s: %w", userID, err)
	}

	return user, nil
}

// Login verifies the credentials and issues an access/refresh token pair.
// Unknown username and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (auth.TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return auth.TokenPair{}, apperror.Unauthorized(msgBadCredentials)
		}
		return auth.TokenPair{}, fmt.Errorf("service/user: fetching user %s: %w", username, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return auth.TokenPair{}, apperror.Unauthorized(msgBadCredentials)
	}

	pair, err := s.tokens.GeneratePair(user.ID)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("service/user: issuing tokens for %s: %w", user.ID, err)
	}

	return pair, nil
}

// Refresh validates a refresh token and issues a fresh access token.
func (s *UserService) Refresh(refreshToken string) (string, error) {
	userID, err := s.tokens.Validate(refreshToken, auth.TypeRefresh)
	if err != nil {
		return "", apperror.Unauthorized(msgBadRefresh)
	}

	access, err := s.tokens.GenerateAccess(userID)
	if err != nil {
		return "", fmt.Errorf("service/user: issuing access token for %s: %w", userID, err)
	}

	return access, nil
}
