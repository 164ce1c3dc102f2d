package handlers

import "github.com/gofiber/fiber/v2"

type statusResponse struct {
	Message string `json:"message"`
}

// StatusHandler answers with a fixed {"message": ...} payload.
func StatusHandler(message string) fiber.Handler {
	body := statusResponse{Message: message}
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(body)
	}
}
