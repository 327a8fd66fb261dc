package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"studyrag/internal/domain"
	"studyrag/internal/port"
)

// systemInstructions keeps the model grounded in retrieved context.
const systemInstructions = "You are a helpful assistant. Use only the provided context to answer. " +
	"If the answer is not in the context, say you don't know."

// AskUseCase answers a question against the indexed corpus, or against a
// single document when a key is given. Exchanges are recorded in the history
// store when one is configured.
type AskUseCase struct {
	contexts  *ContextUseCase
	generator port.Generator
	history   port.HistoryStore // nil disables recording
	log       zerolog.Logger
}

func NewAskUseCase(contexts *ContextUseCase, generator port.Generator, history port.HistoryStore, log zerolog.Logger) *AskUseCase {
	return &AskUseCase{
		contexts:  contexts,
		generator: generator,
		history:   history,
		log:       log,
	}
}

// Ask retrieves corpus context for the question and generates an answer.
// Generation failure degrades to returning the retrieved context verbatim,
// so the caller still gets the relevant material.
func (u *AskUseCase) Ask(ctx context.Context, sessionID, question string, topK int) (domain.AnswerResult, error) {
	start := time.Now()

	question = strings.TrimSpace(question)
	if question == "" {
		return domain.AnswerResult{}, fmt.Errorf("question is required")
	}

	retrieved, err := u.contexts.BuildCorpusContext(ctx, question, topK)
	if err != nil {
		return domain.AnswerResult{}, err
	}

	answer := u.generate(ctx, retrieved.Context, question)

	result := domain.AnswerResult{
		Answer:  answer,
		Sources: retrieved.Sources,
		TookMS:  time.Since(start).Milliseconds(),
	}
	u.record(sessionID, question, result)

	return result, nil
}

// AskDocument answers against a single stored document, using the
// fallback-capable single-document context path.
func (u *AskUseCase) AskDocument(ctx context.Context, sessionID, question, key string, topK int) (domain.AnswerResult, error) {
	start := time.Now()

	question = strings.TrimSpace(question)
	if question == "" {
		return domain.AnswerResult{}, fmt.Errorf("question is required")
	}

	retrieved, err := u.contexts.BuildDocumentContext(ctx, question, key, topK)
	if err != nil {
		return domain.AnswerResult{}, err
	}

	answer := u.generate(ctx, retrieved.Context, question)

	result := domain.AnswerResult{
		Answer:  answer,
		Sources: retrieved.Sources,
		TookMS:  time.Since(start).Milliseconds(),
	}
	u.record(sessionID, question, result)

	return result, nil
}

func (u *AskUseCase) generate(ctx context.Context, contextText, question string) string {
	answer, err := u.generator.Generate(ctx, systemInstructions, contextText, question)
	if err != nil {
		u.log.Warn().Err(err).Msg("generation failed, returning retrieved context")
		return "Generation failed; returning top relevant context.\n\n" + contextText
	}
	return answer
}

func (u *AskUseCase) record(sessionID, question string, result domain.AnswerResult) {
	if u.history == nil || sessionID == "" {
		return
	}

	err := u.history.Append(domain.Exchange{
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
		Question:  question,
		Answer:    result.Answer,
		Sources:   result.Sources,
	})
	if err != nil {
		u.log.Error().Err(err).Str("session", sessionID).Msg("failed to record exchange")
	}
}
