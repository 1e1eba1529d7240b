package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jitendra-ky/klb-assignment/internal/service"
)

// TokenHandler serves the token obtain/refresh endpoints.
type TokenHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewTokenHandler creates a TokenHandler.
func NewTokenHandler(users *service.UserService, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{users: users, logger: logger}
}

type obtainRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// HandleObtain exchanges credentials for an access/refresh token pair.
//
// HTTP: POST /api/token
// Success: 200 {"access": "...", "refresh": "..."}
// Failure: 401 {"detail": "..."}; unknown username and wrong password are
// indistinguishable.
func (h *TokenHandler) HandleObtain(w http.ResponseWriter, r *http.Request) {
	var req obtainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body."})
		return
	}

	pair, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

// HandleRefresh exchanges a refresh token for a new access token.
//
// HTTP: POST /api/token/refresh
// Success: 200 {"access": "..."}
// Failure: 401 {"detail": "Token is invalid or expired"}
func (h *TokenHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body."})
		return
	}

	access, err := h.users.Refresh(req.Refresh)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access": access})
}
