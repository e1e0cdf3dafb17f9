// Package tui provides an interactive terminal user interface for pathok.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/pathok-dev/pathok/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer composes grounded answers.
	Answer driving.AnswerService

	// Search ranks passages for a query.
	Search driving.SearchService

	// Corpus provides the loaded textbooks.
	Corpus driving.CorpusService

	// UserID identifies the user for rate limiting and quotas.
	UserID string
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	answer driving.AnswerService,
	search driving.SearchService,
	corpus driving.CorpusService,
	userID string,
) *Ports {
	return &Ports{
		Answer: answer,
		Search: search,
		Corpus: corpus,
		UserID: userID,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Corpus == nil {
		return ErrMissingCorpusService
	}
	return nil
}
