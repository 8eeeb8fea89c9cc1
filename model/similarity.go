package model

import (
	"errors"
	"fmt"
	"math"
)

const normEpsilon = 1e-8

// ErrDimensionMismatch means two vectors of different lengths were compared.
// Both sides of every comparison come from the same embedder, so hitting
// this indicates a bug, not bad user input.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Cosine returns the cosine similarity of a and b in roughly [-1, 1].
// The epsilon in the denominator guards against all-zero vectors.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	return dot / (math.Sqrt(na)*math.Sqrt(nb) + normEpsilon), nil
}
