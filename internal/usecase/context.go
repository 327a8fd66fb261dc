package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"studyrag/internal/adapter/index"
	"studyrag/internal/adapter/retriever"
	"studyrag/internal/domain"
	"studyrag/internal/port"
)

// ContextUseCase builds bounded context strings for question answering.
//
// The single-document path works from live bytes and degrades to keyword
// ranking when the embedding provider fails. The corpus path queries the
// pre-built index and has no such fallback: an unbuilt index is a
// caller-visible error that requires a rebuild, not a silent degradation.
type ContextUseCase struct {
	blobs     port.BlobStore
	extractor port.Extractor
	chunker   port.Chunker
	embedder  port.Embedder
	ranker    *retriever.KeywordRanker
	holder    *index.Holder
	log       zerolog.Logger
}

func NewContextUseCase(
	blobs port.BlobStore,
	extractor port.Extractor,
	chunker port.Chunker,
	embedder port.Embedder,
	ranker *retriever.KeywordRanker,
	holder *index.Holder,
	log zerolog.Logger,
) *ContextUseCase {
	return &ContextUseCase{
		blobs:     blobs,
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		ranker:    ranker,
		holder:    holder,
		log:       log,
	}
}

// BuildDocumentContext fetches one document and assembles a context for the
// question from its most relevant chunks. An empty or unparsable-but-decodable
// document yields an empty context with no sources, which is a success: the
// caller may still attempt a context-free answer.
func (u *ContextUseCase) BuildDocumentContext(ctx context.Context, question, key string, topK int) (domain.ContextResult, error) {
	data, err := u.blobs.Fetch(ctx, key)
	if err != nil {
		return domain.ContextResult{}, err
	}

	extraction, err := u.extractor.Extract(key, data)
	if err != nil {
		return domain.ContextResult{}, fmt.Errorf("failed to extract %s: %w", key, err)
	}
	if extraction.SkippedPages > 0 {
		u.log.Warn().Str("key", key).Int("pages", extraction.SkippedPages).
			Msg("some pages failed to extract")
	}

	chunks := u.chunker.Chunk(key, extraction.Text)
	if len(chunks) == 0 {
		return domain.ContextResult{}, nil
	}

	if topK < 1 {
		topK = 1
	}

	selected, err := u.rankSemantic(ctx, question, chunks, topK)
	if err != nil {
		if !domain.IsRecoverable(err) {
			return domain.ContextResult{}, err
		}
		u.log.Warn().Err(err).Str("key", key).
			Msg("embedding unavailable, falling back to keyword ranking")
		return assemble(u.ranker.Rank(question, chunks, topK), formatKeywordScore), nil
	}

	return assemble(selected, formatSemanticScore), nil
}

// rankSemantic embeds the chunks and the question, then ranks by inner
// product against the question vector through an ephemeral flat index.
func (u *ContextUseCase) rankSemantic(ctx context.Context, question string, chunks []domain.Chunk, topK int) ([]domain.ScoredChunk, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := u.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}

	queryVectors, err := u.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, err
	}
	if len(queryVectors) == 0 {
		return nil, &domain.InvalidResponseError{Op: "embed", Reason: "no vector for question"}
	}

	idx, err := index.Build(chunks, vectors)
	if err != nil {
		return nil, err
	}

	return idx.Search(queryVectors[0], topK)
}

// BuildCorpusContext retrieves context for the question from the whole
// indexed corpus. Requires a prior successful rebuild.
func (u *ContextUseCase) BuildCorpusContext(ctx context.Context, question string, topK int) (domain.ContextResult, error) {
	snapshot, err := u.holder.Snapshot()
	if err != nil {
		return domain.ContextResult{}, err
	}

	queryVectors, err := u.embedder.Embed(ctx, []string{question})
	if err != nil {
		return domain.ContextResult{}, err
	}
	if len(queryVectors) == 0 {
		return domain.ContextResult{}, &domain.InvalidResponseError{Op: "embed", Reason: "no vector for question"}
	}

	if topK < 1 {
		topK = 1
	}

	results, err := snapshot.Search(queryVectors[0], topK)
	if err != nil {
		return domain.ContextResult{}, err
	}

	return assemble(results, formatSemanticScore), nil
}

func assemble(selected []domain.ScoredChunk, formatScore func(float64) string) domain.ContextResult {
	texts := make([]string, len(selected))
	sources := make([]domain.SourceRef, len(selected))
	for i, sc := range selected {
		texts[i] = sc.Chunk.Text
		sources[i] = domain.SourceRef{
			Source: sc.Chunk.Source,
			Score:  formatScore(sc.Score),
		}
	}

	return domain.ContextResult{
		Context: strings.Join(texts, "\n\n"),
		Sources: sources,
	}
}

func formatSemanticScore(score float64) string {
	return fmt.Sprintf("%.4f", score)
}

func formatKeywordScore(score float64) string {
	return strconv.Itoa(int(score))
}
