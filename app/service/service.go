// Package service holds the two orchestrators of the system: ingestion
// (document → chunks → embeddings → store) and question answering
// (question → retrieval → grounded prompt → LLM).
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/app/agent"
	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/model"
	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/store"
	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/types"
)

var (
	// ErrEmptyDocument means the stored document has no usable text.
	ErrEmptyDocument = errors.New("document text is empty")
	// ErrEmptyQuestion means the question was blank after trimming.
	ErrEmptyQuestion = errors.New("question cannot be empty")
)

// citationDisplayLimit caps the chunk text echoed back in citations. The
// full text still goes into the model's context.
const citationDisplayLimit = 1200

const fallbackAnswer = "I don't know based on the provided documents."

type Service struct {
	store    store.DBStorer
	embedder model.EmbedderInterface
	llm      agent.Generator
	cfg      types.Config
	logger   *slog.Logger
}

func New(dbStore store.DBStorer, embedder model.EmbedderInterface, llm agent.Generator, cfg types.Config) *Service {
	return &Service{
		store:    dbStore,
		embedder: embedder,
		llm:      llm,
		cfg:      cfg,
		logger:   slog.Default(),
	}
}

// Ingest rebuilds the chunk set of one document. Re-running it on
// unchanged text produces the same chunks again: the old set is dropped
// and recreated in one store transaction, never appended to.
func (s *Service) Ingest(ctx context.Context, docID uuid.UUID) (*types.IngestResponse, error) {
	doc, err := s.store.GetDocumentByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(doc.Text) == "" {
		return nil, ErrEmptyDocument
	}

	// Chunks reference their document by the canonical string form of the
	// id, so every later join key comparison is string against string.
	docIDStr := doc.ID.String()

	parts := model.ChunkText(doc.Text, s.cfg.ChunkSize, s.cfg.ChunkOverlap)

	now := time.Now().UTC()
	chunks := make([]types.Chunk, 0, len(parts))
	for i, part := range parts {
		embedding, err := s.embedder.Embed(part)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}
		chunks = append(chunks, types.Chunk{
			ID:        uuid.New(),
			DocID:     docIDStr,
			DocName:   doc.Name,
			Index:     i,
			Text:      part,
			Embedding: embedding,
			CreatedAt: now,
		})
	}

	if err := s.store.ReplaceChunks(ctx, docIDStr, chunks); err != nil {
		return nil, fmt.Errorf("failed to store chunks: %w", err)
	}

	s.logger.Info("document ingested", "doc_id", docIDStr, "name", doc.Name, "chunks", len(chunks))

	return &types.IngestResponse{
		DocID:         docIDStr,
		ChunksCreated: len(chunks),
	}, nil
}

// Answer runs the question pipeline: validate, embed, retrieve, compose a
// grounded prompt, generate. Citations come back in rank order and cover
// every chunk handed to the model, quoted in the answer or not.
func (s *Service) Answer(ctx context.Context, question string, topK int) (*types.QAResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	if topK <= 0 {
		topK = s.cfg.TopKDefault
	}

	queryVec, err := s.embedder.Embed(question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	allChunks, err := s.store.AllChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}

	top, err := model.Retrieve(queryVec, allChunks, topK)
	if err != nil {
		return nil, err
	}

	citations := make([]types.Citation, 0, len(top))
	contextBlocks := make([]string, 0, len(top))
	for _, sc := range top {
		c := sc.Chunk
		citations = append(citations, types.Citation{
			DocID:      c.DocID,
			DocName:    c.DocName,
			ChunkID:    c.ID.String(),
			ChunkIndex: c.Index,
			Text:       truncate(c.Text, citationDisplayLimit),
			Score:      sc.Score,
		})
		contextBlocks = append(contextBlocks,
			fmt.Sprintf("[DOC=%s | docId=%s | chunk=%d\n%s]", c.DocName, c.DocID, c.Index, c.Text))
	}

	prompt := buildPrompt(contextBlocks, question)

	answer, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("llm generation failed: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = fallbackAnswer
	}

	s.logger.Info("question answered", "top_k", topK, "citations", len(citations))

	return &types.QAResponse{
		Answer:    answer,
		Citations: citations,
	}, nil
}

// CheckLLM round-trips a trivial prompt to verify the collaborator is
// reachable and responsive.
func (s *Service) CheckLLM(ctx context.Context) (string, error) {
	reply, err := s.llm.Generate(ctx, "Reply with: OK")
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if !strings.Contains(strings.ToLower(reply), "ok") {
		return reply, fmt.Errorf("%w: unexpected reply %q", agent.ErrUnavailable, reply)
	}
	return reply, nil
}

func buildPrompt(contextBlocks []string, question string) string {
	return fmt.Sprintf(`You are a private knowledge base assistant.

Use ONLY the provided context to answer the question.
If the context does not contain the answer, say you don't know.

Return a concise answer.

Context:
%s

Question: %s
`, strings.Join(contextBlocks, "\n\n"), question)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
