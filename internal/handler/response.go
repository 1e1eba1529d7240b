// Package handler implements the HTTP endpoints. Handlers decode the
// request, call a service, and translate the outcome to a status code and
// JSON body; no business rules live here.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jitendra-ky/klb-assignment/internal/apperror"
)

// ErrorResponse is the generic error body for non-validation failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP representation.
//
// Validation and conflict errors render as 400 with the raw field→messages
// map as the body, matching the registration API contract. A validation
// error without a field map (the telegram_id short-circuit) renders as
// {"error": "<message>"}. Unauthorized renders as {"detail": "<message>"},
// the shape token clients expect.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrConflict):
			if appErr.Fields != nil {
				writeJSON(w, http.StatusBadRequest, appErr.Fields)
				return
			}
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": appErr.Message})
			return
		case errors.Is(err, apperror.ErrUnauthorized):
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": appErr.Message})
			return
		case errors.Is(err, apperror.ErrNotFound):
			writeJSON(w, http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: appErr.Message,
			})
			return
		}
	}

	// Unknown error; never leak internals to the client.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// decodeFields decodes a JSON request body into an untyped field map so
// the validation schema sees the raw values. Returns a validation error for
// a malformed body.
func decodeFields(r *http.Request) (map[string]any, error) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return nil, apperror.ValidationField("non_field_errors", "Invalid JSON body.")
	}
	return fields, nil
}
