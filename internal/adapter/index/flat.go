package index

import (
	"fmt"
	"sort"

	"studyrag/internal/domain"
)

// Flat is an exact inner-product similarity index over a fixed set of chunk
// vectors. It is immutable after Build: queries never observe partial state,
// and a running query keeps its snapshot even if the owner swaps in a
// replacement.
type Flat struct {
	chunks    []domain.Chunk
	vectors   [][]float32
	dimension int
}

// Build validates and snapshots the chunk/vector pairing. The pairing is
// positional: vectors[i] belongs to chunks[i].
func Build(chunks []domain.Chunk, vectors [][]float32) (*Flat, error) {
	if len(chunks) == 0 {
		return nil, domain.ErrEmptyCorpus
	}
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunk/vector count mismatch: %d chunks, %d vectors", len(chunks), len(vectors))
	}

	dimension := len(vectors[0])
	for i, vec := range vectors {
		if len(vec) != dimension {
			return nil, fmt.Errorf("vector %d has dimension %d, expected %d", i, len(vec), dimension)
		}
	}

	idx := &Flat{
		chunks:    make([]domain.Chunk, len(chunks)),
		vectors:   make([][]float32, len(vectors)),
		dimension: dimension,
	}
	copy(idx.chunks, chunks)
	copy(idx.vectors, vectors)

	return idx, nil
}

// Size returns the number of indexed chunks.
func (f *Flat) Size() int {
	return len(f.chunks)
}

// Dimension returns the vector dimension the index was built with.
func (f *Flat) Dimension() int {
	return f.dimension
}

// Search returns the min(k, size) highest inner-product matches in
// descending score order. Ties keep insertion order.
func (f *Flat) Search(query []float32, k int) ([]domain.ScoredChunk, error) {
	if len(query) != f.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", f.dimension, len(query))
	}
	if k <= 0 {
		return nil, nil
	}

	scored := make([]domain.ScoredChunk, len(f.chunks))
	for i, vec := range f.vectors {
		scored[i] = domain.ScoredChunk{
			Chunk: f.chunks[i],
			Score: dot(query, vec),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
