//go:build integration

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "taskhub/internal/db"
	"taskhub/internal/db/repository"
	"taskhub/internal/domain"
	"taskhub/internal/middleware"
	"taskhub/internal/service"
)

const testSecret = "test-secret-32-bytes-long-xxxxx"

// testServer is the full HTTP stack: router, authenticator, services, and a
// real SQLite store.
type testServer struct {
	srv   *httptest.Server
	users *repository.UserRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, _ := internaldb.OpenTestSQLite(t)
	userRepo := repository.NewUserRepo(db)
	taskRepo := repository.NewTaskRepo(db)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authSvc := service.NewAuthService(userRepo, testSecret, 7*24*time.Hour)
	handler := NewHandler(authSvc, service.NewUserService(userRepo), service.NewTaskService(taskRepo), logger)

	validator := middleware.NewSharedSecretValidator(testSecret)
	authn := middleware.Authenticator(validator, userRepo, logger)

	srv := httptest.NewServer(handler.Routes(authn))
	t.Cleanup(srv.Close)

	return &testServer{srv: srv, users: userRepo}
}

// do sends a JSON request. token may be empty for unauthenticated calls.
func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// register creates an account over the API and returns its id.
func (ts *testServer) register(t *testing.T, email, name, password string) int64 {
	t.Helper()
	resp := ts.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": email, "display_name": name, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return int64(decodeBody[map[string]interface{}](t, resp)["id"].(float64))
}

func (ts *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]interface{}](t, resp)
	require.Equal(t, "bearer", body["token_type"])
	return body["token"].(string)
}

// seedAdmin promotes a registered user to admin directly in the store, then
// logs in. Registration itself can never mint an admin.
func (ts *testServer) seedAdmin(t *testing.T) string {
	t.Helper()
	ts.register(t, "admin@example.com", "Admin", "password123")
	user, err := ts.users.GetByEmail(t.Context(), "admin@example.com")
	require.NoError(t, err)
	on := true
	_, err = ts.users.Update(t.Context(), user.ID, &domain.UpdateUserRequest{IsAdmin: &on}, "")
	require.NoError(t, err)
	return ts.login(t, "admin@example.com", "password123")
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decodeBody[map[string]string](t, resp)["status"])
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)

	id := ts.register(t, "alice@example.com", "Alice", "password123")
	assert.NotZero(t, id)

	// Duplicate registration is a 400 and leaves the store unchanged.
	resp := ts.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "alice@example.com", "display_name": "Imposter", "password": "password456",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Bad credentials are 401.
	resp = ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := ts.login(t, "alice@example.com", "password123")

	// The token works against a protected endpoint.
	resp = ts.do(t, http.MethodGet, fmt.Sprintf("/users/%d", id), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// No token is 401.
	resp = ts.do(t, http.MethodGet, fmt.Sprintf("/users/%d", id), "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// A forged token is 401.
	resp = ts.do(t, http.MethodGet, fmt.Sprintf("/users/%d", id), "forged.token.here", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
