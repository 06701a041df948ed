package server

import (
	"log/slog"

	"bloghub/internal/middleware"
	"bloghub/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// requireUpgrade rejects plain HTTP requests to WebSocket endpoints.
func requireUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// requireFeature answers 404 when the flag is configured off for the caller.
// Unconfigured flags stay on.
func (s *Server) requireFeature(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !s.flags.EnabledOr(name, callerID(c), true) {
			return respondErrorStatus(c, fiber.StatusNotFound, models.NewNotFoundError("Not found"))
		}
		return c.Next()
	}
}

// FeedHandler handles GET /ws/feed
// @Summary Live feed of blog events
// @Description WebSocket stream of {type, post_id, user_id, title} events. The token may be sent as ?token=.
// @Tags feed
// @Security BearerAuth
// @Param token query string false "Bearer token for browsers"
// @Success 101 {string} string "Switching Protocols"
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /ws/feed [get]
func (s *Server) FeedHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals(middleware.LocalUserID).(string)

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			middleware.Logger.Warn("feed connection refused",
				slog.String("user_id", userID), slog.String("error", err.Error()))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
			_ = conn.Close()
			return
		}

		// The connection is released when this handler returns, so wait for the writer.
		done := make(chan struct{})
		go func() {
			defer close(done)
			client.WritePump()
		}()
		client.ReadPump()
		<-done
	})
}
