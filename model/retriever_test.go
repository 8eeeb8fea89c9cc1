package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/types"
)

func chunkWithEmbedding(docID string, index int, embedding []float32) types.Chunk {
	return types.Chunk{
		DocID:     docID,
		Index:     index,
		Embedding: embedding,
	}
}

func TestRetrieveRanksByScore(t *testing.T) {
	query := []float32{1, 0, 0}
	corpus := []types.Chunk{
		chunkWithEmbedding("a", 0, []float32{0, 1, 0}),     // orthogonal
		chunkWithEmbedding("b", 0, []float32{1, 0, 0}),     // identical
		chunkWithEmbedding("c", 0, []float32{0.9, 0.1, 0}), // close
	}

	got, err := Retrieve(query, corpus, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "b", got[0].Chunk.DocID)
	assert.Equal(t, "c", got[1].Chunk.DocID)
	assert.Equal(t, "a", got[2].Chunk.DocID)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func TestRetrieveLimitsToTopK(t *testing.T) {
	query := []float32{1, 0}
	corpus := []types.Chunk{
		chunkWithEmbedding("a", 0, []float32{1, 0}),
		chunkWithEmbedding("b", 0, []float32{0, 1}),
		chunkWithEmbedding("c", 0, []float32{1, 1}),
	}

	got, err := Retrieve(query, corpus, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRetrieveReturnsAllWhenCorpusSmaller(t *testing.T) {
	query := []float32{1, 0}
	corpus := []types.Chunk{
		chunkWithEmbedding("a", 0, []float32{1, 0}),
	}

	got, err := Retrieve(query, corpus, 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRetrieveStableTieBreak(t *testing.T) {
	query := []float32{1, 0, 0}
	// Identical embeddings score identically; scan order must survive.
	same := []float32{0.5, 0.5, 0}
	corpus := []types.Chunk{
		chunkWithEmbedding("first", 0, same),
		chunkWithEmbedding("second", 0, same),
		chunkWithEmbedding("third", 0, same),
	}

	got, err := Retrieve(query, corpus, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Chunk.DocID)
	assert.Equal(t, "second", got[1].Chunk.DocID)
	assert.Equal(t, "third", got[2].Chunk.DocID)
}

func TestRetrieveEmptyCorpus(t *testing.T) {
	_, err := Retrieve([]float32{1, 0}, nil, 4)
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestRetrieveDimensionMismatch(t *testing.T) {
	corpus := []types.Chunk{
		chunkWithEmbedding("a", 0, []float32{1, 0, 0}),
	}
	_, err := Retrieve([]float32{1, 0}, corpus, 1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
