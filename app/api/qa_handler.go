package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/types"
)

// Servicer is the orchestration surface the handlers depend on.
type Servicer interface {
	Ingest(ctx context.Context, docID uuid.UUID) (*types.IngestResponse, error)
	Answer(ctx context.Context, question string, topK int) (*types.QAResponse, error)
	CheckLLM(ctx context.Context) (string, error)
}

type QAHandler struct {
	svc      Servicer
	llmModel string
}

func NewQAHandler(svc Servicer, llmModel string) *QAHandler {
	return &QAHandler{
		svc:      svc,
		llmModel: llmModel,
	}
}

func (h *QAHandler) HandleAsk(c *fiber.Ctx) error {
	var params types.QARequest
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	resp, err := h.svc.Answer(c.Context(), params.Question, params.TopK)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(resp)
}

func (h *QAHandler) HandleLLMHealthy(c *fiber.Ctx) error {
	if _, err := h.svc.CheckLLM(c.Context()); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(fiber.Map{
		"result": "ok",
		"model":  h.llmModel,
	})
}
