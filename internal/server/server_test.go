package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jitendra-ky/klb-assignment/internal/queue"
)

// recordingDispatcher captures enqueued jobs so the tests can assert on the
// registration side effect without a broker.
type recordingDispatcher struct {
	jobs []string
}

func (d *recordingDispatcher) Enqueue(ctx context.Context, job string, payload any) error {
	d.jobs = append(d.jobs, job)
	return nil
}

func newTestServer(t *testing.T) (*Server, *recordingDispatcher) {
	t.Helper()

	dispatcher := &recordingDispatcher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv, err := New(Config{
		Port:      0,
		DBPath:    ":memory:",
		JWTSecret: "test-secret-at-least-16-chars!!",
	}, dispatcher, logger)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	return srv, dispatcher
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body map[string]any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func registration() map[string]any {
	return map[string]any{
		"username":   "testuser",
		"email":      "testuser@example.com",
		"password":   "testpass123",
		"first_name": "Test",
		"last_name":  "User",
	}
}

func TestRegisterEndpoint(t *testing.T) {
	srv, dispatcher := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/register", registration(), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, "testuser", body["username"])
	assert.Equal(t, "testuser@example.com", body["email"])
	assert.NotEmpty(t, body["id"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "password_hash")

	require.Equal(t, []string{queue.JobSendWelcomeEmail}, dispatcher.jobs)
}

func TestRegisterEndpoint_MissingFields(t *testing.T) {
	srv, dispatcher := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/register", map[string]any{
		"first_name": "Test",
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	for _, field := range []string{"username", "email", "password"} {
		messages, ok := body[field].([]any)
		require.True(t, ok, "missing error list for %s: %v", field, body)
		assert.Contains(t, messages, "This field is required.")
	}

	assert.Empty(t, dispatcher.jobs)
}

func TestRegisterEndpoint_DuplicateUsername(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/register", registration(), nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	second := registration()
	second["email"] = "other@example.com"
	rec = doJSON(t, srv.Handler(), http.MethodPost, "/api/register", second, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	messages, ok := body["username"].([]any)
	require.True(t, ok, "body = %v", body)
	assert.Contains(t, messages, "A user with that username already exists.")
}

func TestTokenAndProfileFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/register", registration(), nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	// No token: rejected before any business logic runs.
	rec = doJSON(t, h, http.MethodGet, "/api/profile", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication credentials were not provided.", decodeBody(t, rec)["detail"])

	// Obtain a pair with the registered credentials.
	rec = doJSON(t, h, http.MethodPost, "/api/token", map[string]any{
		"username": "testuser",
		"password": "testpass123",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tokens := decodeBody(t, rec)
	access, _ := tokens["access"].(string)
	refresh, _ := tokens["refresh"].(string)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	// Authenticated profile read returns the caller's own record.
	rec = doJSON(t, h, http.MethodGet, "/api/profile", nil, map[string]string{
		"Authorization": "Bearer " + access,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profile := decodeBody(t, rec)
	assert.Equal(t, "testuser", profile["username"])
	assert.NotContains(t, profile, "password")

	// The refresh token mints a new access token that also works.
	rec = doJSON(t, h, http.MethodPost, "/api/token/refresh", map[string]any{
		"refresh": refresh,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	newAccess, _ := decodeBody(t, rec)["access"].(string)
	require.NotEmpty(t, newAccess)

	rec = doJSON(t, h, http.MethodGet, "/api/profile", nil, map[string]string{
		"Authorization": "Bearer " + newAccess,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProfile_ReturnsOwnRecordOnly(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/register", registration(), nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	other := map[string]any{
		"username": "otheruser",
		"email":    "otheruser@example.com",
		"password": "otherpass123",
	}
	rec = doJSON(t, h, http.MethodPost, "/api/register", other, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/token", map[string]any{
		"username": "testuser",
		"password": "testpass123",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	access, _ := decodeBody(t, rec)["access"].(string)
	require.NotEmpty(t, access)

	rec = doJSON(t, h, http.MethodGet, "/api/profile", nil, map[string]string{
		"Authorization": "Bearer " + access,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	profile := decodeBody(t, rec)
	assert.Equal(t, "testuser", profile["username"])
	assert.Equal(t, "testuser@example.com", profile["email"])
	assert.NotEqual(t, "otheruser", profile["username"])
	assert.NotEqual(t, "otheruser@example.com", profile["email"])
}

func TestTokenEndpoint_BadCredentials(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/register", registration(), nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/token", map[string]any{
		"username": "testuser",
		"password": "wrongpass",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No active account found with the given credentials", decodeBody(t, rec)["detail"])
}

func TestTokenRefresh_InvalidToken(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/token/refresh", map[string]any{
		"refresh": "not-a-token",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token is invalid or expired", decodeBody(t, rec)["detail"])
}

func TestProfile_InvalidToken(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/profile", nil, map[string]string{
		"Authorization": "Bearer garbage",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Given token not valid for any token type", decodeBody(t, rec)["detail"])
}

func TestTelegramRegisterEndpoint_Upsert(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	for _, username := range []string{"oldusername", "newusername"} {
		rec := doJSON(t, h, http.MethodPost, "/api/telegram/register", map[string]any{
			"telegram_id": 123456789,
			"username":    username,
		}, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "Telegram user saved.", decodeBody(t, rec)["message"])
	}
}

func TestTelegramRegisterEndpoint_MissingID(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/telegram/register", map[string]any{
		"username": "nobody",
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "telegram_id is required.", decodeBody(t, rec)["error"])
}

func TestIndexEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
