package types

import (
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded source text. It is the unit of ingestion: chunks
// are always derived from exactly one document.
type Document struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Info returns the document without its text payload, for listings.
func (d Document) Info() Document {
	d.Text = ""
	return d
}

// Chunk is one overlapping window of a document's text together with its
// embedding. DocID holds the canonical string form of the owning document's
// id so that chunks and documents never disagree on key representation.
type Chunk struct {
	ID        uuid.UUID
	DocID     string
	DocName   string
	Index     int
	Text      string
	Embedding []float32
	CreatedAt time.Time
}

// ScoredChunk pairs a chunk with its similarity score for one query.
// Never persisted.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// Config carries the runtime settings resolved once at startup and passed
// down explicitly. Handlers and services never read the environment.
type Config struct {
	ListenAddr     string
	AllowedOrigins string

	ChunkSize    int
	ChunkOverlap int
	TopKDefault  int

	LLMURL   string
	LLMModel string
}
