package search

import "errors"

// Error definitions for the search view.
var (
	// ErrNoSearchService indicates that no search service was provided.
	ErrNoSearchService = errors.New("search service is required")

	// ErrNoCorpus indicates that no corpus service was provided.
	ErrNoCorpus = errors.New("corpus service is required")
)
