package port

import "studyrag/internal/domain"

// HistoryStore persists question/answer exchanges keyed by session.
type HistoryStore interface {
	Append(ex domain.Exchange) error

	// ListSession returns a session's exchanges in chronological order.
	// An unknown session yields an empty result, not an error.
	ListSession(sessionID string) ([]domain.Exchange, error)

	Close() error
}
