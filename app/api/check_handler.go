package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type CheckHandler struct{}

func NewCheckHandler() *CheckHandler {
	return &CheckHandler{}
}

func (h CheckHandler) HandleHealthy(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"result":  "ok",
		"service": "rag",
		"time":    time.Now().UTC(),
	})
}
