package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFound(t *testing.T) {
	err := NotFound("user", "abc123")

	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFound() should unwrap to ErrNotFound")
	}
	if err.Error() != "user not found with id abc123" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestValidation_CarriesFieldMap(t *testing.T) {
	fields := map[string][]string{
		"email":    {"This field is required."},
		"username": {"This field is required."},
	}
	err := Validation(fields)

	if !errors.Is(err, ErrValidation) {
		t.Error("Validation() should unwrap to ErrValidation")
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatal("errors.As failed to extract *AppError")
	}
	if len(appErr.Fields["email"]) != 1 {
		t.Errorf("Fields[email] = %v", appErr.Fields["email"])
	}
}

func TestConflict_IsFieldKeyed(t *testing.T) {
	err := Conflict("username", "A user with that username already exists.")

	if !errors.Is(err, ErrConflict) {
		t.Error("Conflict() should unwrap to ErrConflict")
	}
	if got := err.Fields["username"]; len(got) != 1 || got[0] != "A user with that username already exists." {
		t.Errorf("Fields[username] = %v", got)
	}
}

func TestUnwrapThroughWrapping(t *testing.T) {
	inner := Unauthorized("nope")
	wrapped := fmt.Errorf("handling request: %w", inner)

	if !errors.Is(wrapped, ErrUnauthorized) {
		t.Error("wrapped error should still match ErrUnauthorized")
	}

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As failed through wrapping")
	}
	if appErr.Message != "nope" {
		t.Errorf("Message = %q", appErr.Message)
	}
}
