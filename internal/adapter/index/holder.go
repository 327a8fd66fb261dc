package index

import (
	"sync"

	"studyrag/internal/domain"
)

// Holder owns the single live index of a process and mediates rebuilds
// against concurrent queries. Readers take a snapshot and search it outside
// the lock; a swap replaces the whole index atomically, so every query sees
// either the old or the new generation, never a mix. At most one rebuild
// runs at a time; a second one is rejected rather than queued.
type Holder struct {
	mu         sync.RWMutex
	idx        *Flat
	rebuilding bool
}

func NewHolder() *Holder {
	return &Holder{}
}

// Snapshot returns the current index, or domain.ErrIndexNotReady before the
// first successful build.
func (h *Holder) Snapshot() (*Flat, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.idx == nil {
		return nil, domain.ErrIndexNotReady
	}
	return h.idx, nil
}

// Swap atomically replaces the live index.
func (h *Holder) Swap(idx *Flat) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.idx = idx
}

// BeginRebuild claims the single writer slot. It fails with
// domain.ErrRebuildInProgress if another rebuild holds it.
func (h *Holder) BeginRebuild() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rebuilding {
		return domain.ErrRebuildInProgress
	}
	h.rebuilding = true
	return nil
}

// EndRebuild releases the writer slot.
func (h *Holder) EndRebuild() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rebuilding = false
}

// Stats reports readiness and the live chunk count.
func (h *Holder) Stats() domain.IndexStats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.idx == nil {
		return domain.IndexStats{}
	}
	return domain.IndexStats{Ready: true, Chunks: h.idx.Size()}
}
