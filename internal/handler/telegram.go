package handler

import (
	"log/slog"
	"net/http"

	"github.com/jitendra-ky/klb-assignment/internal/service"
)

// TelegramHandler serves the Telegram user upsert endpoint consumed by the
// bot forwarder.
type TelegramHandler struct {
	telegram *service.TelegramService
	logger   *slog.Logger
}

// NewTelegramHandler creates a TelegramHandler.
func NewTelegramHandler(telegram *service.TelegramService, logger *slog.Logger) *TelegramHandler {
	return &TelegramHandler{telegram: telegram, logger: logger}
}

// HandleRegister registers or updates a Telegram user.
//
// HTTP: POST /api/telegram/register
// Success: 201 {"message": "Telegram user saved."} for create and update
// alike; the caller cannot tell the two apart.
// Failure: 400 {"error": "telegram_id is required."} when the natural key
// is missing, or a field→messages map for other violations.
func (h *TelegramHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if _, err := h.telegram.RegisterOrUpdate(r.Context(), fields); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Telegram user saved."})
}
