package index

import (
	"errors"
	"sync"
	"testing"

	"studyrag/internal/domain"
)

func buildGeneration(t *testing.T, source string, n int) *Flat {
	t.Helper()

	chunks := make([]domain.Chunk, n)
	vectors := make([][]float32, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{Text: source, Source: source, Ordinal: i}
		vectors[i] = []float32{1, 0}
	}

	idx, err := Build(chunks, vectors)
	if err != nil {
		t.Fatal(err)
	}
	return idx
}

func TestHolderNotReady(t *testing.T) {
	h := NewHolder()

	if _, err := h.Snapshot(); !errors.Is(err, domain.ErrIndexNotReady) {
		t.Errorf("expected ErrIndexNotReady before first build, got %v", err)
	}

	stats := h.Stats()
	if stats.Ready || stats.Chunks != 0 {
		t.Errorf("expected empty stats, got %+v", stats)
	}
}

func TestHolderSwapVisibility(t *testing.T) {
	h := NewHolder()
	h.Swap(buildGeneration(t, "gen1", 3))

	snap, err := h.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Size() != 3 {
		t.Errorf("expected 3 chunks, got %d", snap.Size())
	}

	h.Swap(buildGeneration(t, "gen2", 5))
	stats := h.Stats()
	if !stats.Ready || stats.Chunks != 5 {
		t.Errorf("expected ready index with 5 chunks, got %+v", stats)
	}

	// The old snapshot keeps serving its own generation.
	if snap.Size() != 3 {
		t.Errorf("old snapshot changed size to %d", snap.Size())
	}
}

func TestHolderRebuildGate(t *testing.T) {
	h := NewHolder()

	if err := h.BeginRebuild(); err != nil {
		t.Fatalf("first BeginRebuild failed: %v", err)
	}
	if err := h.BeginRebuild(); !errors.Is(err, domain.ErrRebuildInProgress) {
		t.Errorf("expected ErrRebuildInProgress, got %v", err)
	}

	h.EndRebuild()
	if err := h.BeginRebuild(); err != nil {
		t.Errorf("BeginRebuild after EndRebuild failed: %v", err)
	}
}

// Queries racing a swap must each observe exactly one generation.
func TestHolderAtomicSwapUnderConcurrency(t *testing.T) {
	h := NewHolder()
	old := buildGeneration(t, "old", 4)
	next := buildGeneration(t, "new", 4)
	h.Swap(old)

	const queries = 200
	var wg sync.WaitGroup
	errs := make(chan string, queries)

	for i := 0; i < queries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			snap, err := h.Snapshot()
			if err != nil {
				errs <- err.Error()
				return
			}
			results, err := snap.Search([]float32{1, 0}, 4)
			if err != nil {
				errs <- err.Error()
				return
			}

			generation := results[0].Chunk.Source
			for _, r := range results {
				if r.Chunk.Source != generation {
					errs <- "mixed generations in one result"
					return
				}
			}
		}()
	}

	// Flip between generations while queries are in flight.
	for i := 0; i < 50; i++ {
		if i%2 == 0 {
			h.Swap(next)
		} else {
			h.Swap(old)
		}
	}

	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}
}
