package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

var errNoToken = errors.New("auth: missing bearer token")

// 401 bodies use the same {"detail": ...} shape as the token endpoints.
const (
	msgNoCredentials = "Authentication credentials were not provided."
	msgBadToken      = "Given token not valid for any token type"
)

// contextKey is unexported so no other package can collide with (or shadow)
// the values this package stores in a request context.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth enforces bearer-token authentication on protected routes.
//
// It reads the "Authorization: Bearer <jwt>" header, validates the access
// token, and stores the userID in the request context. A missing or invalid
// token stops the chain with 401 before any business logic runs.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				detail := msgBadToken
				if errors.Is(err, errNoToken) {
					detail = msgNoCredentials
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": detail})
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) when the request is anonymous.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// extractUserID pulls the bearer token off the request and validates it as
// an access token.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", errNoToken
	}

	return tokens.Validate(strings.TrimSpace(header[len(prefix):]), TypeAccess)
}
