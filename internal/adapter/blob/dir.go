package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"studyrag/internal/domain"
)

// DirStore serves a local directory as a flat blob namespace, for development
// and tests. Keys are slash-separated paths relative to the root; include and
// exclude glob patterns filter what List reports.
type DirStore struct {
	root     string
	includes []string
	excludes []string
}

func NewDirStore(root string, includes, excludes []string) (*DirStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("corpus directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus path is not a directory: %s", abs)
	}

	if len(includes) == 0 {
		includes = []string{"**/*"}
	}

	return &DirStore{root: abs, includes: includes, excludes: excludes}, nil
}

func (s *DirStore) Fetch(_ context.Context, key string) ([]byte, error) {
	rel := filepath.Clean(filepath.FromSlash(key))
	if rel == "." || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("%s: %w", key, domain.ErrNotFound)
	}

	data, err := os.ReadFile(filepath.Join(s.root, rel))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", key, domain.ErrNotFound)
		}
		return nil, &domain.TransportError{Op: "fetch " + key, Err: err}
	}
	return data, nil
}

func (s *DirStore) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string

	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)

		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		if s.shouldInclude(key) && !s.shouldExclude(key) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, &domain.TransportError{Op: "list " + prefix, Err: err}
	}

	return keys, nil
}

func (s *DirStore) shouldInclude(key string) bool {
	for _, pattern := range s.includes {
		matched, err := doublestar.Match(pattern, key)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (s *DirStore) shouldExclude(key string) bool {
	for _, pattern := range s.excludes {
		matched, err := doublestar.Match(pattern, key)
		if err == nil && matched {
			return true
		}
	}
	return false
}
