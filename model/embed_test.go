package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func l2norm(v []float32) float64 {
	var sq float64
	for _, x := range v {
		sq += float64(x) * float64(x)
	}
	return math.Sqrt(sq)
}

func TestEmbedDeterministic(t *testing.T) {
	e := NewHashEmbedder()

	a, err := e.Embed("hello world")
	require.NoError(t, err)
	b, err := e.Embed("hello world")
	require.NoError(t, err)

	assert.Equal(t, a, b, "same text must embed bit-identically")
	assert.Len(t, a, EmbeddingDim)
}

func TestEmbedUnitNorm(t *testing.T) {
	e := NewHashEmbedder()

	v, err := e.Embed("the quick brown fox")
	require.NoError(t, err)

	assert.InDelta(t, 1.0, l2norm(v), 1e-5)
}

func TestEmbedDistinguishesTokens(t *testing.T) {
	e := NewHashEmbedder()

	hello, err := e.Embed("hello")
	require.NoError(t, err)
	world, err := e.Embed("world")
	require.NoError(t, err)

	assert.NotEqual(t, hello, world)
}

func TestEmbedCaseInsensitive(t *testing.T) {
	e := NewHashEmbedder()

	lower, err := e.Embed("grass is green")
	require.NoError(t, err)
	upper, err := e.Embed("GRASS IS GREEN")
	require.NoError(t, err)

	assert.Equal(t, lower, upper)
}

func TestEmbedEmptyText(t *testing.T) {
	e := NewHashEmbedder()

	v, err := e.Embed("   ")
	require.NoError(t, err)

	require.Len(t, v, EmbeddingDim)
	for _, x := range v {
		assert.False(t, math.IsNaN(float64(x)))
		assert.Zero(t, x)
	}
}
