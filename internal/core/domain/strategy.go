package domain

import "strings"

// ScoringMethod names how a chunk's score was computed.
type ScoringMethod string

// Available scoring methods.
const (
	// ScoringEmbedding scores by cosine similarity between embeddings.
	ScoringEmbedding ScoringMethod = "embedding"

	// ScoringKeyword scores by keyword overlap between query and chunk text.
	ScoringKeyword ScoringMethod = "keyword"
)

// String returns the string representation.
func (m ScoringMethod) String() string {
	return string(m)
}

// ScoringStrategy scores chunks against a single query.
// A strategy is selected once per query and applied to every chunk.
type ScoringStrategy interface {
	// Method reports the strategy's primary scoring method.
	Method() ScoringMethod

	// Score rates a chunk and reports which method produced the score.
	Score(chunk *Chunk) (float64, ScoringMethod, error)
}

// NewScoringStrategy selects the embedding strategy when a query vector is
// available and the keyword strategy otherwise.
func NewScoringStrategy(query string, embedding []float32) ScoringStrategy {
	keyword := NewKeywordStrategy(query)
	if len(embedding) == 0 {
		return keyword
	}
	return EmbeddingStrategy{Vector: embedding, Fallback: keyword}
}

// EmbeddingStrategy scores chunks by cosine similarity to the query vector.
// Chunks without an embedding are scored by the keyword fallback.
type EmbeddingStrategy struct {
	// Vector is the query embedding.
	Vector []float32

	// Fallback scores chunks that carry no embedding.
	Fallback KeywordStrategy
}

// Method returns ScoringEmbedding.
func (s EmbeddingStrategy) Method() ScoringMethod {
	return ScoringEmbedding
}

// Score returns the cosine similarity between the query and chunk embeddings.
func (s EmbeddingStrategy) Score(chunk *Chunk) (float64, ScoringMethod, error) {
	if !chunk.HasEmbedding() {
		return s.Fallback.Score(chunk)
	}
	sim, err := CosineSimilarity(s.Vector, chunk.Embedding)
	if err != nil {
		return 0, ScoringEmbedding, err
	}
	return sim, ScoringEmbedding, nil
}

// KeywordStrategy scores chunks by the fraction of query tokens found in the text.
type KeywordStrategy struct {
	tokens []string
}

// NewKeywordStrategy tokenises the query once for reuse across chunks.
func NewKeywordStrategy(query string) KeywordStrategy {
	return KeywordStrategy{tokens: Tokenize(query)}
}

// Method returns ScoringKeyword.
func (s KeywordStrategy) Method() ScoringMethod {
	return ScoringKeyword
}

// Score returns the keyword overlap ratio for the chunk text.
func (s KeywordStrategy) Score(chunk *Chunk) (float64, ScoringMethod, error) {
	return keywordOverlap(s.tokens, Tokenize(chunk.Text)), ScoringKeyword, nil
}

// KeywordOverlap returns the fraction of query tokens that occur in text.
// A query token matches when some text token contains it or is contained by it.
func KeywordOverlap(query, text string) float64 {
	return keywordOverlap(Tokenize(query), Tokenize(text))
}

func keywordOverlap(queryTokens, textTokens []string) float64 {
	if len(queryTokens) == 0 || len(textTokens) == 0 {
		return 0
	}

	matched := 0
	for _, q := range queryTokens {
		for _, t := range textTokens {
			if strings.Contains(t, q) || strings.Contains(q, t) {
				matched++
				break
			}
		}
	}

	return float64(matched) / float64(len(queryTokens))
}

// Tokenize splits text on whitespace and case-folds each token.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}
