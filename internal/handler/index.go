package handler

import "net/http"

// HandleIndex lists the API surface.
//
// HTTP: GET /
func HandleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"POST /api/register":          "Register a new user (public)",
		"POST /api/token":             "Obtain JWT token pair (public)",
		"POST /api/token/refresh":     "Refresh JWT access token (public)",
		"GET /api/profile":            "Get authenticated user's profile (protected)",
		"POST /api/telegram/register": "Register or update a Telegram user (public)",
	})
}
