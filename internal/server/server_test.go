package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"bloghub/internal/config"
	"bloghub/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	srv *Server
	app *fiber.App
}

func newTestServer(t *testing.T, rdb *redis.Client, mutate func(cfg *config.Config)) *testServer {
	t.Helper()

	cfg := testutil.Config()
	if mutate != nil {
		mutate(cfg)
	}

	srv, err := NewServerWithDeps(cfg, testutil.NewSQLiteDB(t), rdb)
	require.NoError(t, err)
	t.Cleanup(srv.shutdownFn)

	return &testServer{srv: srv, app: srv.App()}
}

// do sends a request with an optional JSON body and bearer token and decodes the JSON reply.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	}
	return resp.StatusCode, out
}

func (ts *testServer) signup(t *testing.T, username string) {
	t.Helper()
	status, body := ts.do(t, http.MethodPost, "/signup", "", map[string]string{
		"email":    username + "@example.com",
		"username": username,
		"password": "correct-horse1",
	})
	require.Equal(t, http.StatusOK, status, "signup %s: %v", username, body)
}

func (ts *testServer) signin(t *testing.T, username string) string {
	t.Helper()
	status, body := ts.do(t, http.MethodPost, "/signin", "", map[string]string{
		"email":    username + "@example.com",
		"password": "correct-horse1",
	})
	require.Equal(t, http.StatusOK, status, "signin %s: %v", username, body)
	token, ok := body["token"].(string)
	require.True(t, ok)
	return token
}

// account signs up and signs in username, returning its token.
func (ts *testServer) account(t *testing.T, username string) string {
	t.Helper()
	ts.signup(t, username)
	return ts.signin(t, username)
}

// onlyPostID returns the id of the single post in a {blogs:[...]} body.
func onlyPostID(t *testing.T, body map[string]any) string {
	t.Helper()
	blogs, ok := body["blogs"].([]any)
	require.True(t, ok)
	require.Len(t, blogs, 1)
	id, ok := blogs[0].(map[string]any)["id"].(string)
	require.True(t, ok)
	return id
}

func newJSONRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}
