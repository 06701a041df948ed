// Package middleware provides the Fiber middleware chain: authentication,
// structured logging, tracing and rate limiting.
package middleware

import (
	"log/slog"

	"bloghub/internal/auth"
	"bloghub/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	msgNoToken      = "No token provided"
	msgInvalidToken = "Invalid token"
)

// TokenVerifier resolves a bearer token to the account id it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthRequired rejects requests without a verifiable bearer token with 403.
// On success the account id is stored in c.Locals(LocalUserID) and in the user context.
func AuthRequired(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authenticate(c, verifier, auth.BearerToken(c.Get(fiber.HeaderAuthorization)))
	}
}

// WebSocketAuthRequired behaves like AuthRequired but also accepts the token
// from the "token" query parameter, since browsers cannot set headers on upgrade.
func WebSocketAuthRequired(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = c.Query("token")
		}
		return authenticate(c, verifier, token)
	}
}

func authenticate(c *fiber.Ctx, verifier TokenVerifier, token string) error {
	if token == "" {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthenticatedError(msgNoToken))
	}

	accountID, err := verifier.Verify(token)
	if err != nil {
		Logger.DebugContext(c.UserContext(), "token rejected", slog.String("error", err.Error()))
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthenticatedError(msgInvalidToken))
	}

	c.Locals(LocalUserID, accountID)
	c.SetUserContext(WithUserID(c.UserContext(), accountID))
	return c.Next()
}
