package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"studyrag/internal/adapter/index"
	"studyrag/internal/domain"
	"studyrag/internal/port"
)

// RebuildUseCase rebuilds the corpus similarity index from object storage.
// It is a deliberate, slow, network-bound maintenance operation: queries
// never trigger it, and at most one rebuild runs at a time. Queries keep
// serving the previous index until the new one is swapped in whole.
type RebuildUseCase struct {
	blobs     port.BlobStore
	extractor port.Extractor
	chunker   port.Chunker
	embedder  port.Embedder
	holder    *index.Holder
	prefix    string
	batchSize int
	log       zerolog.Logger
}

func NewRebuildUseCase(
	blobs port.BlobStore,
	extractor port.Extractor,
	chunker port.Chunker,
	embedder port.Embedder,
	holder *index.Holder,
	prefix string,
	batchSize int,
	log zerolog.Logger,
) *RebuildUseCase {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &RebuildUseCase{
		blobs:     blobs,
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		holder:    holder,
		prefix:    prefix,
		batchSize: batchSize,
		log:       log,
	}
}

// RebuildResult summarizes one rebuild run.
type RebuildResult struct {
	Documents int      // documents that contributed chunks
	Skipped   []string // keys that failed to fetch or extract
	Chunks    int
	TookMS    int64
}

// Rebuild lists the corpus, extracts and chunks every document, embeds all
// chunks, and atomically swaps the new index in. A document that fails to
// fetch or parse is skipped and reported; only a corpus that produces zero
// chunks fails the whole operation. The optional progress callback fires
// after each embedding batch with (embedded, total) chunk counts.
func (u *RebuildUseCase) Rebuild(ctx context.Context, progress func(done, total int)) (*RebuildResult, error) {
	if err := u.holder.BeginRebuild(); err != nil {
		return nil, err
	}
	defer u.holder.EndRebuild()

	start := time.Now()

	keys, err := u.blobs.List(ctx, u.prefix)
	if err != nil {
		return nil, err
	}
	u.log.Info().Int("objects", len(keys)).Str("prefix", u.prefix).Msg("listed corpus")

	result := &RebuildResult{}
	var all []domain.Chunk

	for _, key := range keys {
		data, err := u.blobs.Fetch(ctx, key)
		if err != nil {
			// Storage-wide outages surface; a single missing or corrupt
			// object must not block the rest of the corpus.
			if ctx.Err() != nil {
				return nil, err
			}
			u.log.Warn().Err(err).Str("key", key).Msg("failed to fetch document, skipping")
			result.Skipped = append(result.Skipped, key)
			continue
		}

		extraction, err := u.extractor.Extract(key, data)
		if err != nil {
			u.log.Warn().Err(err).Str("key", key).Msg("failed to parse document, skipping")
			result.Skipped = append(result.Skipped, key)
			continue
		}
		if extraction.SkippedPages > 0 {
			u.log.Warn().Str("key", key).Int("pages", extraction.SkippedPages).
				Msg("some pages failed to extract")
		}

		chunks := u.chunker.Chunk(key, extraction.Text)
		if len(chunks) == 0 {
			continue
		}

		all = append(all, chunks...)
		result.Documents++
	}

	if len(all) == 0 {
		return nil, domain.ErrNoParsableContent
	}

	u.log.Info().Int("chunks", len(all)).Str("model", u.embedder.ModelName()).
		Msg("embedding corpus chunks")

	vectors, err := u.embedChunks(ctx, all, progress)
	if err != nil {
		return nil, err
	}

	idx, err := index.Build(all, vectors)
	if err != nil {
		return nil, err
	}
	u.holder.Swap(idx)

	result.Chunks = idx.Size()
	result.TookMS = time.Since(start).Milliseconds()
	u.log.Info().Int("chunks", result.Chunks).Int64("took_ms", result.TookMS).
		Msg("index rebuilt")

	return result, nil
}

// embedChunks embeds in batches so the progress callback can report on a
// long corpus.
func (u *RebuildUseCase) embedChunks(ctx context.Context, chunks []domain.Chunk, progress func(done, total int)) ([][]float32, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += u.batchSize {
		end := start + u.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := u.embedder.Embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)

		if progress != nil {
			progress(len(vectors), len(texts))
		}
	}

	return vectors, nil
}

// Status reports whether the live index is queryable and how many chunks it
// holds.
func (u *RebuildUseCase) Status() domain.IndexStats {
	return u.holder.Stats()
}

// IsRetryable reports whether a rebuild failure is worth retrying later, as
// opposed to a structural problem with the corpus.
func IsRetryable(err error) bool {
	return errors.Is(err, domain.ErrRebuildInProgress) || domain.IsRecoverable(err)
}
