package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/types"
)

// ConfigHandler exposes the effective runtime settings, handy when
// debugging why a document chunked the way it did.
type ConfigHandler struct {
	cfg types.Config
}

func NewConfigHandler(cfg types.Config) *ConfigHandler {
	return &ConfigHandler{
		cfg: cfg,
	}
}

func (h *ConfigHandler) HandleConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"chunk_size":    h.cfg.ChunkSize,
		"chunk_overlap": h.cfg.ChunkOverlap,
		"top_k_default": h.cfg.TopKDefault,
		"llm_model":     h.cfg.LLMModel,
	})
}
