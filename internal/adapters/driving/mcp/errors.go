// Package mcp provides an MCP (Model Context Protocol) server adapter for pathok.
// It lets AI assistants search the textbooks and ask grounded questions.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingCorpusService is returned when the corpus service is not provided.
var ErrMissingCorpusService = errors.New("mcp: corpus service is required")
