package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"studyrag/internal/adapter/blob"
	"studyrag/internal/adapter/chunker"
	"studyrag/internal/adapter/embedding"
	"studyrag/internal/adapter/extract"
	"studyrag/internal/adapter/index"
	"studyrag/internal/domain"
	"studyrag/internal/port"
)

func newRebuildUseCase(t *testing.T, store port.BlobStore, embedder port.Embedder, holder *index.Holder) *RebuildUseCase {
	t.Helper()

	c, err := chunker.NewWindowChunker(40, 10)
	if err != nil {
		t.Fatal(err)
	}
	return NewRebuildUseCase(store, extract.New(), c, embedder, holder, "", 2, zerolog.Nop())
}

func TestRebuildSkipsBrokenDocuments(t *testing.T) {
	store := blob.NewMemStore()
	store.Put("facts.txt", []byte(factsText))
	store.Put("broken.pdf", []byte("not a pdf at all"))
	store.Put("blank.txt", []byte("   "))

	holder := index.NewHolder()
	u := newRebuildUseCase(t, store, embedding.NewMockEmbedder(16), holder)

	result, err := u.Rebuild(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if result.Documents != 1 {
		t.Errorf("expected 1 contributing document, got %d", result.Documents)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != "broken.pdf" {
		t.Errorf("expected broken.pdf to be skipped, got %v", result.Skipped)
	}
	if result.Chunks == 0 {
		t.Error("expected chunks in the rebuilt index")
	}

	stats := u.Status()
	if !stats.Ready || stats.Chunks != result.Chunks {
		t.Errorf("index stats do not reflect the rebuild: %+v", stats)
	}
}

func TestRebuildEmptyCorpus(t *testing.T) {
	holder := index.NewHolder()
	u := newRebuildUseCase(t, blob.NewMemStore(), embedding.NewMockEmbedder(16), holder)

	_, err := u.Rebuild(context.Background(), nil)
	if !errors.Is(err, domain.ErrNoParsableContent) {
		t.Errorf("expected ErrNoParsableContent, got %v", err)
	}
	if holder.Stats().Ready {
		t.Error("failed rebuild must not publish an index")
	}
}

func TestRebuildNothingParsable(t *testing.T) {
	store := blob.NewMemStore()
	store.Put("one.txt", []byte("  \n "))
	store.Put("two.txt", []byte("\t"))

	u := newRebuildUseCase(t, store, embedding.NewMockEmbedder(16), index.NewHolder())

	_, err := u.Rebuild(context.Background(), nil)
	if !errors.Is(err, domain.ErrNoParsableContent) {
		t.Errorf("expected ErrNoParsableContent, got %v", err)
	}
}

func TestRebuildRejectsConcurrentRun(t *testing.T) {
	store := blob.NewMemStore()
	store.Put("facts.txt", []byte(factsText))

	holder := index.NewHolder()
	u := newRebuildUseCase(t, store, embedding.NewMockEmbedder(16), holder)

	if err := holder.BeginRebuild(); err != nil {
		t.Fatal(err)
	}
	_, err := u.Rebuild(context.Background(), nil)
	if !errors.Is(err, domain.ErrRebuildInProgress) {
		t.Errorf("expected ErrRebuildInProgress, got %v", err)
	}
	if !IsRetryable(err) {
		t.Error("a busy rebuild slot is retryable")
	}
	holder.EndRebuild()

	if _, err := u.Rebuild(context.Background(), nil); err != nil {
		t.Errorf("rebuild after release failed: %v", err)
	}
}

func TestRebuildEmbeddingFailureLeavesOldIndex(t *testing.T) {
	store := blob.NewMemStore()
	store.Put("facts.txt", []byte(factsText))

	holder := index.NewHolder()
	good := newRebuildUseCase(t, store, embedding.NewMockEmbedder(16), holder)
	if _, err := good.Rebuild(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	before := holder.Stats()

	bad := newRebuildUseCase(t, store, embedding.NewFailingEmbedder(nil), holder)
	if _, err := bad.Rebuild(context.Background(), nil); err == nil {
		t.Fatal("expected embedding failure to fail the rebuild")
	}

	after := holder.Stats()
	if !after.Ready || after.Chunks != before.Chunks {
		t.Errorf("failed rebuild disturbed the live index: before %+v after %+v", before, after)
	}
}

func TestRebuildProgress(t *testing.T) {
	store := blob.NewMemStore()
	store.Put("facts.txt", []byte(factsText))

	u := newRebuildUseCase(t, store, embedding.NewMockEmbedder(16), index.NewHolder())

	var calls []int
	total := 0
	result, err := u.Rebuild(context.Background(), func(done, n int) {
		calls = append(calls, done)
		total = n
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(calls) == 0 {
		t.Fatal("expected progress callbacks")
	}
	for i := 1; i < len(calls); i++ {
		if calls[i] <= calls[i-1] {
			t.Errorf("progress not monotonic: %v", calls)
		}
	}
	if calls[len(calls)-1] != total || total != result.Chunks {
		t.Errorf("final progress %d of %d does not match %d chunks", calls[len(calls)-1], total, result.Chunks)
	}
}

func TestRebuildIdempotent(t *testing.T) {
	store := blob.NewMemStore()
	store.Put("facts.txt", []byte(factsText))

	holder := index.NewHolder()
	u := newRebuildUseCase(t, store, embedding.NewMockEmbedder(16), holder)

	first, err := u.Rebuild(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := u.Rebuild(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if first.Chunks != second.Chunks || first.Documents != second.Documents {
		t.Errorf("unchanged corpus produced different results: %+v vs %+v", first, second)
	}
}
