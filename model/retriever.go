package model

import (
	"errors"
	"sort"

	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/types"
)

// ErrEmptyCorpus means retrieval was attempted before any document was
// ingested. Callers surface this distinctly from "no relevant match".
var ErrEmptyCorpus = errors.New("no documents ingested yet")

// Retrieve scores every stored chunk against queryVec and returns the top
// topK by descending similarity. The scan is brute force over the whole
// corpus; at this scale a linear pass beats maintaining an index, and the
// signature stays stable if the scan is ever swapped for one.
//
// The sort is stable, so chunks with equal scores keep their store scan
// order. That tie-break is part of the contract.
func Retrieve(queryVec []float32, chunks []types.Chunk, topK int) ([]types.ScoredChunk, error) {
	if len(chunks) == 0 {
		return nil, ErrEmptyCorpus
	}
	if topK < 0 {
		topK = 0
	}

	scored := make([]types.ScoredChunk, 0, len(chunks))
	for _, c := range chunks {
		score, err := Cosine(queryVec, c.Embedding)
		if err != nil {
			return nil, err
		}
		scored = append(scored, types.ScoredChunk{Chunk: c, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topK > len(scored) {
		topK = len(scored)
	}
	return scored[:topK], nil
}
