package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/app/agent"
	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/model"
	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/store"
	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/types"
)

type stubStore struct {
	docs   map[uuid.UUID]*types.Document
	chunks []types.Chunk

	replaceErr error
}

func newStubStore() *stubStore {
	return &stubStore{docs: make(map[uuid.UUID]*types.Document)}
}

func (s *stubStore) SaveDocument(_ context.Context, doc *types.Document) error {
	s.docs[doc.ID] = doc
	return nil
}

func (s *stubStore) GetDocumentByID(_ context.Context, docID uuid.UUID) (*types.Document, error) {
	doc, ok := s.docs[docID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return doc, nil
}

func (s *stubStore) ListDocuments(_ context.Context) ([]types.Document, error) {
	var docs []types.Document
	for _, doc := range s.docs {
		docs = append(docs, doc.Info())
	}
	return docs, nil
}

func (s *stubStore) DeleteDocument(_ context.Context, docID uuid.UUID) error {
	if _, ok := s.docs[docID]; !ok {
		return store.ErrNotFound
	}
	delete(s.docs, docID)
	return nil
}

func (s *stubStore) ReplaceChunks(_ context.Context, docID string, chunks []types.Chunk) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	kept := s.chunks[:0]
	for _, c := range s.chunks {
		if c.DocID != docID {
			kept = append(kept, c)
		}
	}
	s.chunks = append(kept, chunks...)
	return nil
}

func (s *stubStore) AllChunks(_ context.Context) ([]types.Chunk, error) {
	return s.chunks, nil
}

var _ store.DBStorer = (*stubStore)(nil)

type stubGenerator struct {
	answer     string
	err        error
	lastPrompt string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

var _ agent.Generator = (*stubGenerator)(nil)

func testConfig() types.Config {
	return types.Config{
		ChunkSize:    17,
		ChunkOverlap: 1,
		TopKDefault:  4,
	}
}

func newTestService(st *stubStore, gen *stubGenerator) *Service {
	return New(st, model.NewHashEmbedder(), gen, testConfig())
}

func addDocument(st *stubStore, text string) uuid.UUID {
	now := time.Now().UTC()
	doc := &types.Document{
		ID:        uuid.New(),
		Name:      "notes.txt",
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	st.docs[doc.ID] = doc
	return doc.ID
}

func TestIngestUnknownDocument(t *testing.T) {
	svc := newTestService(newStubStore(), &stubGenerator{})

	_, err := svc.Ingest(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestIngestBlankText(t *testing.T) {
	st := newStubStore()
	docID := addDocument(st, "   ")
	svc := newTestService(st, &stubGenerator{})

	_, err := svc.Ingest(context.Background(), docID)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestIngestCreatesChunks(t *testing.T) {
	st := newStubStore()
	docID := addDocument(st, "The sky is blue. Grass is green.")
	svc := newTestService(st, &stubGenerator{})

	resp, err := svc.Ingest(context.Background(), docID)
	require.NoError(t, err)

	assert.Equal(t, docID.String(), resp.DocID)
	assert.Equal(t, 2, resp.ChunksCreated)

	require.Len(t, st.chunks, 2)
	for i, c := range st.chunks {
		assert.Equal(t, i, c.Index, "chunk indices must be contiguous from 0")
		assert.Equal(t, docID.String(), c.DocID)
		assert.Equal(t, "notes.txt", c.DocName)
		assert.Len(t, c.Embedding, model.EmbeddingDim)
		assert.False(t, c.CreatedAt.IsZero())
	}
}

func TestIngestIdempotent(t *testing.T) {
	st := newStubStore()
	docID := addDocument(st, "The sky is blue. Grass is green.")
	svc := newTestService(st, &stubGenerator{})

	first, err := svc.Ingest(context.Background(), docID)
	require.NoError(t, err)
	firstTexts := chunkTexts(st.chunks)

	second, err := svc.Ingest(context.Background(), docID)
	require.NoError(t, err)

	assert.Equal(t, first.ChunksCreated, second.ChunksCreated)
	assert.Equal(t, firstTexts, chunkTexts(st.chunks), "re-ingestion must replace chunks, not append")
}

func TestIngestStoreFailure(t *testing.T) {
	st := newStubStore()
	docID := addDocument(st, "The sky is blue. Grass is green.")
	st.replaceErr = errors.New("batch rejected")
	svc := newTestService(st, &stubGenerator{})

	_, err := svc.Ingest(context.Background(), docID)
	assert.ErrorContains(t, err, "batch rejected")
}

func TestAnswerBlankQuestion(t *testing.T) {
	svc := newTestService(newStubStore(), &stubGenerator{})

	_, err := svc.Answer(context.Background(), "   ", 0)
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestAnswerEmptyCorpus(t *testing.T) {
	svc := newTestService(newStubStore(), &stubGenerator{})

	_, err := svc.Answer(context.Background(), "anything", 0)
	assert.ErrorIs(t, err, model.ErrEmptyCorpus)
}

func TestAnswerRetrievesRelevantChunk(t *testing.T) {
	st := newStubStore()
	docID := addDocument(st, "The sky is blue. Grass is green.")
	gen := &stubGenerator{answer: "Grass is green."}
	svc := newTestService(st, gen)

	_, err := svc.Ingest(context.Background(), docID)
	require.NoError(t, err)

	resp, err := svc.Answer(context.Background(), "What color is grass?", 0)
	require.NoError(t, err)

	assert.Equal(t, "Grass is green.", resp.Answer)
	require.NotEmpty(t, resp.Citations)

	var found bool
	for _, cit := range resp.Citations {
		if strings.Contains(cit.Text, "Grass is green") {
			found = true
		}
	}
	assert.True(t, found, "citations must include the chunk containing the answer")

	assert.Contains(t, gen.lastPrompt, "Grass is green")
	assert.Contains(t, gen.lastPrompt, "What color is grass?")
	assert.Contains(t, gen.lastPrompt, "Use ONLY the provided context")
}

func TestAnswerCitationOrderMatchesScores(t *testing.T) {
	st := newStubStore()
	docID := addDocument(st, "The sky is blue. Grass is green.")
	svc := newTestService(st, &stubGenerator{answer: "ok"})

	_, err := svc.Ingest(context.Background(), docID)
	require.NoError(t, err)

	resp, err := svc.Answer(context.Background(), "is grass green", 0)
	require.NoError(t, err)

	require.Len(t, resp.Citations, 2)
	assert.Contains(t, resp.Citations[0].Text, "Grass is green")
	assert.GreaterOrEqual(t, resp.Citations[0].Score, resp.Citations[1].Score)
}

func TestAnswerTruncatesCitationText(t *testing.T) {
	st := newStubStore()
	embedder := model.NewHashEmbedder()

	longText := strings.Repeat("word ", 400) // 2000 chars
	embedding, err := embedder.Embed(longText)
	require.NoError(t, err)
	st.chunks = []types.Chunk{{
		ID:        uuid.New(),
		DocID:     uuid.NewString(),
		DocName:   "big.txt",
		Text:      longText,
		Embedding: embedding,
	}}

	svc := New(st, embedder, &stubGenerator{answer: "ok"}, testConfig())

	resp, err := svc.Answer(context.Background(), "word", 0)
	require.NoError(t, err)

	require.Len(t, resp.Citations, 1)
	assert.Len(t, []rune(resp.Citations[0].Text), 1200)
}

func TestAnswerFallbackOnBlankOutput(t *testing.T) {
	st := newStubStore()
	docID := addDocument(st, "The sky is blue. Grass is green.")
	svc := newTestService(st, &stubGenerator{answer: "  \n "})

	_, err := svc.Ingest(context.Background(), docID)
	require.NoError(t, err)

	resp, err := svc.Answer(context.Background(), "What color is grass?", 0)
	require.NoError(t, err)
	assert.Equal(t, "I don't know based on the provided documents.", resp.Answer)
}

func TestAnswerLLMFailure(t *testing.T) {
	st := newStubStore()
	docID := addDocument(st, "The sky is blue. Grass is green.")
	gen := &stubGenerator{err: agent.ErrUnavailable}
	svc := newTestService(st, gen)

	_, err := svc.Ingest(context.Background(), docID)
	require.NoError(t, err)

	_, err = svc.Answer(context.Background(), "What color is grass?", 0)
	assert.ErrorIs(t, err, agent.ErrUnavailable)
}

func TestCheckLLM(t *testing.T) {
	svc := newTestService(newStubStore(), &stubGenerator{answer: "OK"})
	_, err := svc.CheckLLM(context.Background())
	assert.NoError(t, err)

	svc = newTestService(newStubStore(), &stubGenerator{answer: "no idea"})
	_, err = svc.CheckLLM(context.Background())
	assert.ErrorIs(t, err, agent.ErrUnavailable)
}

func chunkTexts(chunks []types.Chunk) []string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return texts
}
