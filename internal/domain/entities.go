package domain

import "time"

// Chunk is a bounded, overlapping window of a document's extracted text,
// the unit of retrieval.
type Chunk struct {
	Text    string
	Source  string // storage key of the document the chunk came from
	Ordinal int    // 0-based position within its source
}

// ScoredChunk pairs a chunk with a retrieval score (higher is better).
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// SourceRef identifies where a selected chunk came from. Score is stringified
// so semantic (float) and keyword-fallback (integer) scores share one shape.
type SourceRef struct {
	Source string `json:"source"`
	Score  string `json:"score"`
}

// ContextResult is the output of context building: the concatenated chunk
// texts and one source reference per selected chunk, in ranked order.
type ContextResult struct {
	Context string      `json:"context"`
	Sources []SourceRef `json:"sources"`
}

// Extraction is the result of turning raw document bytes into plain text.
// SkippedPages counts pages that failed to extract and contributed nothing.
type Extraction struct {
	Text         string
	SkippedPages int
}

// AnswerResult is a generated answer with its supporting sources.
type AnswerResult struct {
	Answer  string      `json:"answer"`
	Sources []SourceRef `json:"sources"`
	TookMS  int64       `json:"took_ms"`
}

// Exchange is one question/answer interaction, recorded per session.
type Exchange struct {
	SessionID string      `json:"session_id"`
	Timestamp time.Time   `json:"timestamp"`
	Question  string      `json:"question"`
	Answer    string      `json:"answer"`
	Sources   []SourceRef `json:"sources,omitempty"`
}

// IndexStats describes the state of the live similarity index.
type IndexStats struct {
	Ready  bool `json:"ready"`
	Chunks int  `json:"chunks"`
}
