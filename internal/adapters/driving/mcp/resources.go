package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pathok-dev/pathok/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for pathok resources.
	uriScheme = "pathok://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "books",
		Name:        "books",
		Description: "Loaded textbooks with corpus statistics",
		MIMEType:    "application/json",
	}, s.handleBooksResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "books/{source}",
		Name:        "book-content",
		Description: "Full text of a textbook, one chunk per paragraph",
		MIMEType:    "text/plain",
	}, s.handleBookContentResource)
}

type bookInfo struct {
	Title   string `json:"title"`
	Class   string `json:"class,omitempty"`
	Subject string `json:"subject,omitempty"`
	Source  string `json:"source"`
	Chunks  int    `json:"chunks"`
	URI     string `json:"uri"`
}

type booksPayload struct {
	Books          []bookInfo `json:"books"`
	TotalChunks    int        `json:"total_chunks"`
	EmbeddedChunks int        `json:"embedded_chunks"`
	Dimensions     int        `json:"dimensions"`
}

// handleBooksResource lists the loaded books.
func (s *Server) handleBooksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	books, err := s.ports.Corpus.Books(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading books: %w", err)
	}

	stats := domain.StatsFor(books)
	payload := booksPayload{
		Books:          make([]bookInfo, len(books)),
		TotalChunks:    stats.Chunks,
		EmbeddedChunks: stats.EmbeddedChunks,
		Dimensions:     stats.Dimensions,
	}
	for i := range books {
		payload.Books[i] = bookInfo{
			Title:   books[i].Title(),
			Class:   books[i].Metadata.Class,
			Subject: books[i].Metadata.Subject,
			Source:  books[i].Metadata.Source,
			Chunks:  len(books[i].Chunks),
			URI:     uriScheme + "books/" + books[i].Metadata.Source,
		}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling books: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleBookContentResource returns the text of one book.
func (s *Server) handleBookContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	source := extractBookSource(req.Params.URI)
	if source == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	books, err := s.ports.Corpus.Books(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading books: %w", err)
	}

	for i := range books {
		if books[i].Metadata.Source != source {
			continue
		}
		parts := make([]string, len(books[i].Chunks))
		for j := range books[i].Chunks {
			parts[j] = books[i].Chunks[j].Text
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "text/plain",
				Text:     strings.Join(parts, "\n\n"),
			}},
		}, nil
	}

	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

// extractBookSource extracts the source filename from a URI like pathok://books/{source}.
func extractBookSource(uri string) string {
	const prefix = uriScheme + "books/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
