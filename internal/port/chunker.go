package port

import "studyrag/internal/domain"

// Chunker splits normalized text into overlapping windows tagged with their
// source key. Recomputing from the same inputs yields an identical sequence.
type Chunker interface {
	Chunk(source, text string) []domain.Chunk
}
