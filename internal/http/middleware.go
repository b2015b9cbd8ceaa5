// FILE: internal/http/middleware.go
package http

import (
	"tilechess/internal/core"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// contentTypeValidator ensures POST and PUT requests have application/json
func contentTypeValidator(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodPost || method == fiber.MethodPut {
		contentType := c.Get("Content-Type")
		if contentType != "application/json" && contentType != "" {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// gameIDRequired rejects routes whose :gameId is not a UUID
func gameIDRequired(c *fiber.Ctx) error {
	if !isValidUUID(c.Params("gameId")) {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid game ID format",
			Code:    core.ErrInvalidRequest,
			Details: "game ID must be a valid UUID",
		})
	}
	return c.Next()
}

// websocketUpgrade only lets genuine upgrade requests reach the stream handler
func websocketUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	c.Locals("wsGameID", c.Params("gameId"))
	return c.Next()
}
