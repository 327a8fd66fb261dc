package port

import "context"

// BlobStore fetches and enumerates opaque document blobs by storage key.
type BlobStore interface {
	// Fetch returns the raw bytes for a key. Missing keys fail with
	// domain.ErrNotFound.
	Fetch(ctx context.Context, key string) ([]byte, error)

	// List returns all object keys under the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
