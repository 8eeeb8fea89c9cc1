package model

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strings"
)

// EmbeddingDim is fixed: the chunks table pins its vector column to the
// same width, so changing it requires re-ingesting every document.
const EmbeddingDim = 384

// EmbedderInterface is what the orchestrators depend on for embeddings.
type EmbedderInterface interface {
	Embed(text string) ([]float32, error)
}

// HashEmbedder maps text to a bag-of-words vector with the hashing trick:
// each lowercased whitespace token is hashed with sha256 and the first four
// digest bytes (little-endian) pick a bucket modulo the dimension. sha256 is
// used instead of a seeded hash so the same text produces the same vector
// on every run and platform. Not semantically rich, but free and good
// enough for a small private corpus.
type HashEmbedder struct {
	dim int
}

func NewHashEmbedder() *HashEmbedder {
	return &HashEmbedder{dim: EmbeddingDim}
}

func (e *HashEmbedder) Dim() int {
	return e.dim
}

// Embed returns an L2-normalized vector of e.Dim() floats. The error is
// always nil; it exists to satisfy EmbedderInterface alongside remote
// embedders.
func (e *HashEmbedder) Embed(text string) ([]float32, error) {
	v := make([]float32, e.dim)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		sum := sha256.Sum256([]byte(token))
		idx := binary.LittleEndian.Uint32(sum[:4]) % uint32(e.dim)
		v[idx] += 1.0
	}

	var sq float64
	for _, x := range v {
		sq += float64(x) * float64(x)
	}
	// Epsilon keeps an all-zero vector (no tokens) from dividing by zero.
	norm := math.Sqrt(sq) + normEpsilon

	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v, nil
}
