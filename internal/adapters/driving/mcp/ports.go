package mcp

import (
	"github.com/pathok-dev/pathok/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search ranks textbook chunks.
	Search driving.SearchService

	// Answer generates grounded answers. Optional: without it the ask tool
	// is not registered.
	Answer driving.AnswerService

	// Corpus supplies the loaded books.
	Corpus driving.CorpusService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Corpus == nil {
		return ErrMissingCorpusService
	}
	return nil
}
