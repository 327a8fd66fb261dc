package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"studyrag/internal/port"
)

const summaryInstructions = "You are an assistant that writes concise summaries. Read the context and " +
	"write a clear, student-friendly summary (5-7 sentences), listing key topics and any important definitions."

const defaultMaxSections = 6

// SummarizeUseCase produces a short summary of one stored document from its
// leading chunks.
type SummarizeUseCase struct {
	blobs       port.BlobStore
	extractor   port.Extractor
	chunker     port.Chunker
	generator   port.Generator
	maxSections int
	log         zerolog.Logger
}

func NewSummarizeUseCase(
	blobs port.BlobStore,
	extractor port.Extractor,
	chunker port.Chunker,
	generator port.Generator,
	maxSections int,
	log zerolog.Logger,
) *SummarizeUseCase {
	if maxSections <= 0 {
		maxSections = defaultMaxSections
	}
	return &SummarizeUseCase{
		blobs:       blobs,
		extractor:   extractor,
		chunker:     chunker,
		generator:   generator,
		maxSections: maxSections,
		log:         log,
	}
}

// Summarize uses the first few chunks as a coarse summary basis. An empty
// document yields an empty summary; a generation failure degrades to the
// truncated first chunk.
func (u *SummarizeUseCase) Summarize(ctx context.Context, key string) (string, error) {
	data, err := u.blobs.Fetch(ctx, key)
	if err != nil {
		return "", err
	}

	extraction, err := u.extractor.Extract(key, data)
	if err != nil {
		return "", fmt.Errorf("failed to extract %s: %w", key, err)
	}

	chunks := u.chunker.Chunk(key, extraction.Text)
	if len(chunks) == 0 {
		return "", nil
	}

	n := u.maxSections
	if n > len(chunks) {
		n = len(chunks)
	}

	texts := make([]string, n)
	for i := 0; i < n; i++ {
		texts[i] = chunks[i].Text
	}
	basis := strings.Join(texts, "\n\n")

	summary, err := u.generator.Generate(ctx, summaryInstructions, basis, "Summarize this document.")
	if err != nil {
		u.log.Warn().Err(err).Str("key", key).Msg("summary generation failed, returning leading text")
		return truncate(chunks[0].Text, 500), nil
	}

	return strings.TrimSpace(summary), nil
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
