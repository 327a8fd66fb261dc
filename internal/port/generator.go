package port

import "context"

// Generator produces an answer from system instructions, retrieved context,
// and a question. An empty answer is a valid success.
type Generator interface {
	Generate(ctx context.Context, system, contextText, question string) (string, error)

	// ModelName returns the name of the generation model.
	ModelName() string
}
