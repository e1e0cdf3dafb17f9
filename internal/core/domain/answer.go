package domain

import (
	"errors"
	"math"
)

// DefaultAnswerTopK is the number of chunks used to ground an answer.
const DefaultAnswerTopK = 5

// SourcePreviewLength is the number of characters kept in a source preview.
const SourcePreviewLength = 200

// Answer is the result of a question. Failures are carried as values:
// Error is non-empty whenever Text is not a usable answer. The JSON form is
// {answer, sources[{bookTitle, text, similarity}], error?}.
type Answer struct {
	// Text is the generated answer.
	Text string `json:"answer"`

	// Sources lists the chunks the answer was grounded on.
	Sources []Source `json:"sources"`

	// Error is a caller-facing error message, empty on success.
	Error string `json:"error,omitempty"`

	// Err is the underlying error for errors.Is checks. Not serialised.
	Err error `json:"-"`

	// KeywordOnly is true when retrieval fell back to keyword overlap.
	KeywordOnly bool `json:"keywordOnly,omitempty"`
}

// OK reports whether the answer succeeded.
func (a *Answer) OK() bool {
	return a.Error == ""
}

// Source is a citation for an answer.
type Source struct {
	// BookTitle is the title of the cited book.
	BookTitle string `json:"bookTitle"`

	// Text is a preview of the cited chunk.
	Text string `json:"text"`

	// Similarity is the retrieval score as an integer percentage.
	Similarity int `json:"similarity"`
}

// NewSource builds a citation from a search result.
func NewSource(r SearchResult) Source {
	return Source{
		BookTitle:  r.BookTitle,
		Text:       Preview(r.Chunk.Text, SourcePreviewLength),
		Similarity: percent(r.Score),
	}
}

// FailedAnswer returns the empty answer shape used for every failure path.
func FailedAnswer(err error) Answer {
	return Answer{
		Sources: []Source{},
		Error:   err.Error(),
		Err:     err,
	}
}

// NotFoundAnswer returns the answer used when retrieval finds nothing.
func NotFoundAnswer() Answer {
	a := FailedAnswer(errNoRelevantContent)
	a.Error = MsgNotFound
	return a
}

// IsNotFound reports whether the answer failed because nothing relevant was found.
func (a *Answer) IsNotFound() bool {
	return errors.Is(a.Err, ErrNotFound)
}

// Preview returns the first n characters of s.
func Preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func percent(score float64) int {
	return int(math.Round(score * 100))
}
