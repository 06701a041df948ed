package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bloghub/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestAuthRequired(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret, 0)
	valid, err := tokens.Issue("acc-123")
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/test", AuthRequired(tokens), func(c *fiber.Ctx) error {
		uid, _ := c.UserContext().Value(UserIDKey).(string)
		return c.JSON(fiber.Map{"userID": c.Locals(LocalUserID), "ctxUserID": uid})
	})

	tests := []struct {
		name            string
		authHeader      string
		expectedStatus  int
		expectedMessage string
		expectedUserID  string
	}{
		{
			name:           "Happy Path",
			authHeader:     "Bearer " + valid,
			expectedStatus: http.StatusOK,
			expectedUserID: "acc-123",
		},
		{
			name:           "Any Scheme Word",
			authHeader:     "Token " + valid,
			expectedStatus: http.StatusOK,
			expectedUserID: "acc-123",
		},
		{
			name:            "Missing Header",
			expectedStatus:  http.StatusForbidden,
			expectedMessage: "No token provided",
		},
		{
			name:            "Scheme Without Token",
			authHeader:      "Bearer",
			expectedStatus:  http.StatusForbidden,
			expectedMessage: "No token provided",
		},
		{
			name:            "Malformed Token",
			authHeader:      "Bearer malformed.token.here",
			expectedStatus:  http.StatusForbidden,
			expectedMessage: "Invalid token",
		},
		{
			name:            "Wrong Secret",
			authHeader:      "Bearer " + signToken(t, "some-other-secret", jwt.MapClaims{"id": "acc-123"}),
			expectedStatus:  http.StatusForbidden,
			expectedMessage: "Invalid token",
		},
		{
			name: "Expired Token",
			authHeader: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
				"id":  "acc-123",
				"exp": time.Now().Add(-time.Hour).Unix(),
			}),
			expectedStatus:  http.StatusForbidden,
			expectedMessage: "Invalid token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedUserID, body["userID"])
				assert.Equal(t, tt.expectedUserID, body["ctxUserID"])
				return
			}
			assert.Equal(t, tt.expectedMessage, body["message"])
			assert.Equal(t, "UNAUTHENTICATED", body["code"])
		})
	}
}

func TestAuthRequired_DoesNotRunHandlerOnFailure(t *testing.T) {
	called := false
	app := fiber.New()
	app.Get("/test", AuthRequired(auth.NewTokenManager(testSecret, 0)), func(c *fiber.Ctx) error {
		called = true
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.False(t, called)
}

func TestWebSocketAuthRequired(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret, 0)
	valid, err := tokens.Issue("acc-1")
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/ws-test", WebSocketAuthRequired(tokens), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		name           string
		tokenParam     string
		authHeader     string
		expectedStatus int
	}{
		{
			name:           "Token via Query Param",
			tokenParam:     valid,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Token via Header",
			authHeader:     "Bearer " + valid,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing Token",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Invalid Token",
			tokenParam:     "invalid-token",
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/ws-test"
			if tt.tokenParam != "" {
				path += "?token=" + tt.tokenParam
			}
			req := httptest.NewRequest(http.MethodGet, path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}
