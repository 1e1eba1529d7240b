// Package apperror defines the application's domain error types.
//
// Services return these errors; HTTP handlers translate them to status codes
// with errors.Is/errors.As. The sentinel values are the stable part of the
// contract; wrap them, don't compare strings.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError carries a human-readable message alongside a sentinel error.
//
// For validation failures, Fields maps each offending field name to its list
// of messages (a single submission can fail on several fields at once). For
// other kinds, Fields is nil and Message alone describes the problem.
type AppError struct {
	Err     error               // sentinel (ErrNotFound, ErrValidation, ...)
	Message string              // human-readable summary
	Fields  map[string][]string // field name → messages, validation only
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound returns an AppError for a missing resource.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// Validation returns an AppError carrying a field→messages error map.
// The map is returned to the client verbatim as the response body.
func Validation(fields map[string][]string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: "validation failed",
		Fields:  fields,
	}
}

// ValidationField returns a Validation error for a single field.
func ValidationField(field, message string) *AppError {
	return Validation(map[string][]string{field: {message}})
}

// Conflict returns an AppError for a uniqueness violation on the given
// field. It unwraps to ErrConflict and carries the field map so handlers
// can fold it into the same 400 response shape as validation errors.
func Conflict(field, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
		Fields:  map[string][]string{field: {message}},
	}
}

// Unauthorized returns an AppError for missing or invalid credentials.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
