package chunker

import (
	"fmt"
	"strings"
	"unicode"

	"studyrag/internal/domain"
)

const (
	DefaultChunkSize = 800
	DefaultOverlap   = 150
)

// WindowChunker splits normalized text into fixed-size overlapping windows.
// Windowing is measured in runes so multi-byte text never splits mid-character.
type WindowChunker struct {
	size    int
	overlap int
}

// NewWindowChunker validates the window configuration. An overlap equal to or
// larger than the chunk size would make the window step non-positive, so it
// is rejected here instead of being clamped at chunk time.
func NewWindowChunker(size, overlap int) (*WindowChunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk overlap must not be negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be smaller than chunk size: %d >= %d", overlap, size)
	}
	return &WindowChunker{size: size, overlap: overlap}, nil
}

// Chunk windows the text after normalization. Consecutive chunks share
// exactly the configured overlap; the final chunk may be shorter. Empty
// input yields no chunks.
func (c *WindowChunker) Chunk(source, text string) []domain.Chunk {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}

	runes := []rune(normalized)
	n := len(runes)

	var chunks []domain.Chunk
	start := 0
	ordinal := 0

	for start < n {
		end := start + c.size
		if end > n {
			end = n
		}

		chunks = append(chunks, domain.Chunk{
			Text:    string(runes[start:end]),
			Source:  source,
			Ordinal: ordinal,
		})
		ordinal++

		if end == n {
			break
		}
		start = end - c.overlap
	}

	return chunks
}

// Normalize collapses whitespace runs to single spaces and strips
// non-printable characters.
func Normalize(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")

	return strings.Map(func(r rune) rune {
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, collapsed)
}
