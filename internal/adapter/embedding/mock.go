package embedding

import (
	"context"

	"studyrag/internal/domain"
)

// MockEmbedder produces deterministic unit-length vectors from character
// codes. For test wiring only.
type MockEmbedder struct {
	dimension int
}

func NewMockEmbedder(dimension int) *MockEmbedder {
	return &MockEmbedder{dimension: dimension}
}

func (e *MockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, e.dimension)
		for j, r := range text {
			vec[j%e.dimension] += float32(r) / 1000.0
		}
		normalize(vec)
		vectors[i] = vec
	}
	return vectors, nil
}

func (e *MockEmbedder) Dimension() int {
	return e.dimension
}

func (e *MockEmbedder) ModelName() string {
	return "mock"
}

// FailingEmbedder always fails with the given error. For fallback tests.
type FailingEmbedder struct {
	Err error
}

func NewFailingEmbedder(err error) *FailingEmbedder {
	if err == nil {
		err = &domain.TransportError{Op: "embed", Err: context.DeadlineExceeded}
	}
	return &FailingEmbedder{Err: err}
}

func (e *FailingEmbedder) Embed(context.Context, []string) ([][]float32, error) {
	return nil, e.Err
}

func (e *FailingEmbedder) Dimension() int {
	return 0
}

func (e *FailingEmbedder) ModelName() string {
	return "failing"
}
