package handler

import (
	"log/slog"
	"net/http"

	"github.com/jitendra-ky/klb-assignment/internal/auth"
	"github.com/jitendra-ky/klb-assignment/internal/service"
)

// UserHandler serves registration and profile reads.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandleRegister registers a new account.
//
// HTTP: POST /api/register
// Success: 201 with the sanitized record (no password field).
// Failure: 400 with a field→messages map covering every violation.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Register(r.Context(), fields)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleProfile returns the authenticated caller's own account.
//
// HTTP: GET /api/profile
// Auth: bearer token (RequireAuth middleware sets userID in context).
func (h *UserHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, kept as a guard.
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
		return
	}

	user, err := h.users.Profile(r.Context(), userID)
	if err != nil {
		h.logger.Error("profile lookup failed", slog.String("userID", userID), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
