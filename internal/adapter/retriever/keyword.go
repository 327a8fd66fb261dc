package retriever

import (
	"sort"
	"strings"
	"unicode"

	"studyrag/internal/domain"
)

// minWordLen filters stop-word noise: only question words longer than two
// characters contribute to the overlap score.
const minWordLen = 3

// KeywordRanker ranks chunks by case-insensitive occurrence counts of the
// question's words. It is the degradation path when embeddings are
// unavailable; scores are whole counts, never similarities.
type KeywordRanker struct{}

func NewKeywordRanker() *KeywordRanker {
	return &KeywordRanker{}
}

// Rank scores every chunk by the total occurrence count of the question's
// qualifying words and returns the top k, ties broken by original chunk
// order. A question with no qualifying words scores every chunk equally.
func (r *KeywordRanker) Rank(question string, chunks []domain.Chunk, k int) []domain.ScoredChunk {
	if len(chunks) == 0 || k <= 0 {
		return nil
	}

	words := QueryWords(question)

	scored := make([]domain.ScoredChunk, len(chunks))
	for i, chunk := range chunks {
		lower := strings.ToLower(chunk.Text)
		count := 0
		for _, w := range words {
			count += strings.Count(lower, w)
		}
		scored[i] = domain.ScoredChunk{Chunk: chunk, Score: float64(count)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}

// QueryWords lowercases the question, splits on non-alphanumeric runes, and
// keeps words of at least minWordLen runes.
func QueryWords(question string) []string {
	fields := strings.FieldsFunc(strings.ToLower(question), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) >= minWordLen {
			words = append(words, f)
		}
	}
	return words
}
