package domain

// DefaultSearchLimit is used when a caller asks for zero or fewer results.
const DefaultSearchLimit = 5

// SearchResult represents a single ranked chunk.
type SearchResult struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// BookTitle is the title of the book that owns the chunk.
	BookTitle string

	// Score is the similarity or keyword overlap score.
	Score float64

	// Method records how Score was computed.
	Method ScoringMethod
}

// Percent returns the score as a rounded integer percentage.
func (r *SearchResult) Percent() int {
	return percent(r.Score)
}
