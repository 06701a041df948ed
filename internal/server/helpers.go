package server

import (
	"errors"
	"log/slog"

	"bloghub/internal/middleware"
	"bloghub/internal/models"
	"bloghub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// parseBody decodes the JSON body into dest. On failure it writes a 400 and
// returns false; the caller must return nil.
func parseBody(c *fiber.Ctx, dest any) bool {
	if err := c.BodyParser(dest); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			&models.AppError{Code: models.CodeValidation, Message: service.MsgIncorrectFormat, Err: err})
		return false
	}
	return true
}

// callerID returns the account id placed in locals by AuthRequired.
func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals(middleware.LocalUserID).(string)
	return id
}

// respondError writes err with its default status, logging internal failures.
func respondError(c *fiber.Ctx, err error) error {
	return respondErrorStatus(c, models.StatusFor(err), err)
}

func respondErrorStatus(c *fiber.Ctx, status int, err error) error {
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("path", c.Path()), slog.String("error", err.Error()))
	}
	return models.RespondWithError(c, status, err)
}

// appErrorCode returns the taxonomy code of err, or "" for foreign errors.
func appErrorCode(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// MessageResponse is the success body of mutating endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse is the body of a successful signin.
type TokenResponse struct {
	Token string `json:"token"`
}

// BlogsResponse wraps post listings. Blogs is never null.
type BlogsResponse struct {
	Blogs []models.Post `json:"blogs"`
}
