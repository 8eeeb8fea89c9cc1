package api

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/loader"
	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/store"
	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/types"
)

const maxUploadBytes = 5 * 1024 * 1024

type DocumentHandler struct {
	store store.DBStorer
	svc   Servicer
}

func NewDocumentHandler(s store.DBStorer, svc Servicer) *DocumentHandler {
	return &DocumentHandler{
		store: s,
		svc:   svc,
	}
}

// HandleUpload accepts a multipart file, extracts its text, persists the
// document and ingests it in one go.
func (h *DocumentHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return ErrInvalidInput("missing file")
	}
	if fileHeader.Size > maxUploadBytes {
		return ErrInvalidInput("file too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	text, err := loader.ExtractText(fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, loader.ErrUnsupportedFormat) {
			return ErrInvalidInput("only .txt, .md and .pdf files supported")
		}
		return ErrInvalidInput(err.Error())
	}
	if strings.TrimSpace(text) == "" {
		return ErrInvalidInput("file is empty")
	}

	now := time.Now().UTC()
	doc := &types.Document{
		ID:        uuid.New(),
		Name:      fileHeader.Filename,
		MimeType:  fileHeader.Header.Get("Content-Type"),
		SizeBytes: fileHeader.Size,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.SaveDocument(c.Context(), doc); err != nil {
		return err
	}

	ingest, err := h.svc.Ingest(c.Context(), doc.ID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"document": doc.Info(),
		"ingest":   ingest,
	})
}

func (h *DocumentHandler) HandleList(c *fiber.Ctx) error {
	docs, err := h.store.ListDocuments(c.Context())
	if err != nil {
		return err
	}
	if docs == nil {
		docs = []types.Document{}
	}
	return c.JSON(fiber.Map{"documents": docs})
}

func (h *DocumentHandler) HandleGet(c *fiber.Ctx) error {
	docID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return ErrInvalidID()
	}

	doc, err := h.store.GetDocumentByID(c.Context(), docID)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(fiber.Map{"document": doc})
}

func (h *DocumentHandler) HandleDelete(c *fiber.Ctx) error {
	docID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return ErrInvalidID()
	}

	if err := h.store.DeleteDocument(c.Context(), docID); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(fiber.Map{"result": "ok"})
}

// HandleIngest re-chunks and re-embeds an already stored document.
func (h *DocumentHandler) HandleIngest(c *fiber.Ctx) error {
	docID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return ErrInvalidID()
	}

	resp, err := h.svc.Ingest(c.Context(), docID)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(resp)
}
