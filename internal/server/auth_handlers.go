package server

import (
	"bloghub/internal/models"
	"bloghub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /signup
// @Summary Account signup
// @Description Register a new account. No token is returned.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.SignupInput true "Signup request"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req service.SignupInput
	if !parseBody(c, &req) {
		return nil
	}

	if err := s.accountService.Signup(c.UserContext(), req); err != nil {
		status := models.StatusFor(err)
		code := appErrorCode(err)
		if s.config.SignupLegacyStatus && (code == models.CodeValidation || code == models.CodeConflict) {
			status = fiber.StatusOK
		}
		return respondErrorStatus(c, status, err)
	}

	return c.JSON(MessageResponse{Message: service.MsgSignedUp})
}

// Signin handles POST /signin
// @Summary Account signin
// @Description Exchange email and password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.SigninInput true "Signin request"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /signin [post]
func (s *Server) Signin(c *fiber.Ctx) error {
	var req service.SigninInput
	if !parseBody(c, &req) {
		return nil
	}

	token, err := s.accountService.Signin(c.UserContext(), req)
	if err != nil {
		status := models.StatusFor(err)
		// Unknown accounts are refused like bad passwords.
		if appErrorCode(err) == models.CodeNotFound {
			status = fiber.StatusForbidden
		}
		return respondErrorStatus(c, status, err)
	}

	return c.JSON(TokenResponse{Token: token})
}
