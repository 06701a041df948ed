package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"Validation", NewValidationError("bad"), fiber.StatusBadRequest},
		{"Conflict", NewConflictError("dup"), fiber.StatusConflict},
		{"NotFound", NewNotFoundError("gone"), fiber.StatusNotFound},
		{"Unauthenticated", NewUnauthenticatedError("who"), fiber.StatusForbidden},
		{"Forbidden", NewForbiddenError("no"), fiber.StatusForbidden},
		{"InvalidCredentials", NewInvalidCredentialsError("no"), fiber.StatusForbidden},
		{"Internal", NewInternalError("boom", errors.New("db")), fiber.StatusInternalServerError},
		{"Wrapped", fmt.Errorf("outer: %w", NewNotFoundError("gone")), fiber.StatusNotFound},
		{"Foreign", errors.New("plain"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternalError("Error signing up", cause)

	assert.Equal(t, "Error signing up: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Not here", NewNotFoundError("Not here").Error())
}

func TestWithDetails_Copies(t *testing.T) {
	base := NewValidationError("Incorrect format")
	detailed := base.WithDetails([]string{"username"})

	assert.Nil(t, base.Details)
	assert.Equal(t, []string{"username"}, detailed.Details)
	assert.Equal(t, base.Code, detailed.Code)
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		err    error
		want   map[string]any
	}{
		{
			name:   "AppError",
			status: fiber.StatusNotFound,
			err:    NewNotFoundError("Blog not found"),
			want:   map[string]any{"message": "Blog not found", "code": CodeNotFound},
		},
		{
			name:   "Details",
			status: fiber.StatusBadRequest,
			err:    NewValidationError("Incorrect format").WithDetails("username too short"),
			want:   map[string]any{"message": "Incorrect format", "code": CodeValidation, "error": "username too short"},
		},
		{
			name:   "Cause",
			status: fiber.StatusInternalServerError,
			err:    NewInternalError("Error fetching blogs", errors.New("timeout")),
			want:   map[string]any{"message": "Error fetching blogs", "code": CodeInternal, "error": "timeout"},
		},
		{
			name:   "Foreign",
			status: fiber.StatusInternalServerError,
			err:    errors.New("raw"),
			want:   map[string]any{"message": "raw", "code": CodeInternal},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return RespondWithError(c, tt.status, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.status, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var got map[string]any
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, tt.want, got)
		})
	}
}
