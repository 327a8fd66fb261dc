package generation

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"studyrag/internal/domain"
)

// OpenAIGenerator answers questions through an OpenAI-compatible chat
// completions endpoint.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

func NewOpenAIGenerator(apiKeyEnv, baseURL, model string, maxTokens int, temperature float32) (*OpenAIGenerator, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIGenerator{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, system, contextText, question string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Context:\n%s\n\nQuestion: %s\nAnswer concisely.", contextText, question),
			},
		},
	})
	if err != nil {
		return "", &domain.TransportError{Op: "generate", Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &domain.InvalidResponseError{Op: "generate", Reason: "no choices returned"}
	}

	// An empty completion is a valid, if unhelpful, answer.
	return resp.Choices[0].Message.Content, nil
}

func (g *OpenAIGenerator) ModelName() string {
	return g.model
}
