package cli

import (
	"context"
	"fmt"

	"studyrag/internal/adapter/blob"
	"studyrag/internal/adapter/chunker"
	"studyrag/internal/adapter/embedding"
	"studyrag/internal/adapter/extract"
	"studyrag/internal/adapter/generation"
	"studyrag/internal/adapter/index"
	"studyrag/internal/adapter/retriever"
	"studyrag/internal/adapter/store"
	"studyrag/internal/port"
	"studyrag/internal/usecase"
)

// pipeline wires the retrieval core for one CLI invocation. The index lives
// in memory, so commands that query the corpus rebuild it first.
type pipeline struct {
	holder    *index.Holder
	contexts  *usecase.ContextUseCase
	rebuild   *usecase.RebuildUseCase
	summarize *usecase.SummarizeUseCase
	ask       *usecase.AskUseCase
	history   *store.BoltHistory // nil when disabled
}

func newBlobStore(ctx context.Context) (port.BlobStore, error) {
	switch cfg.Corpus.Provider {
	case "gcs":
		return blob.NewGCSStore(ctx, cfg.Corpus.Bucket)
	case "dir":
		return blob.NewDirStore(cfg.Corpus.Dir, cfg.Corpus.Includes, cfg.Corpus.Excludes)
	default:
		return nil, fmt.Errorf("unknown corpus provider: %q", cfg.Corpus.Provider)
	}
}

func newPipeline(ctx context.Context) (*pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	blobs, err := newBlobStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob store: %w", err)
	}

	embedder, err := embedding.NewOpenAIEmbedder(
		cfg.Embedding.APIKeyEnv,
		cfg.Embedding.BaseURL,
		cfg.Embedding.Model,
		cfg.Embedding.Dimension,
		cfg.Embedding.BatchSize,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	generator, err := generation.NewOpenAIGenerator(
		cfg.Generation.APIKeyEnv,
		cfg.Generation.BaseURL,
		cfg.Generation.Model,
		cfg.Generation.MaxTokens,
		float32(cfg.Generation.Temperature),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	windows, err := chunker.NewWindowChunker(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		return nil, err
	}

	extractor := extract.New()
	holder := index.NewHolder()
	ranker := retriever.NewKeywordRanker()

	var history *store.BoltHistory
	if cfg.History.Enabled {
		history, err = store.NewBoltHistory(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
	}

	contexts := usecase.NewContextUseCase(blobs, extractor, windows, embedder, ranker, holder, logger)
	rebuild := usecase.NewRebuildUseCase(blobs, extractor, windows, embedder, holder,
		cfg.Corpus.Prefix, cfg.Embedding.BatchSize, logger)
	summarize := usecase.NewSummarizeUseCase(blobs, extractor, windows, generator, 0, logger)

	var historyPort port.HistoryStore
	if history != nil {
		historyPort = history
	}
	ask := usecase.NewAskUseCase(contexts, generator, historyPort, logger)

	return &pipeline{
		holder:    holder,
		contexts:  contexts,
		rebuild:   rebuild,
		summarize: summarize,
		ask:       ask,
		history:   history,
	}, nil
}

func (p *pipeline) close() {
	if p.history != nil {
		p.history.Close()
	}
}
