package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pathok-dev/pathok/internal/core/domain"
)

// DefaultUserID identifies MCP callers that do not pass a user_id.
const DefaultUserID = "mcp"

// SearchInput is the input schema for the search_books tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the question or keywords to look up in the textbooks (Bangla or English)"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of passages to return (default 5)"`
}

// SearchOutput is the output schema for the search_books tool.
type SearchOutput struct {
	Results     []SearchResultOutput `json:"results"`
	Count       int                  `json:"count"`
	KeywordOnly bool                 `json:"keyword_only"`
}

// SearchResultOutput represents a single ranked passage.
type SearchResultOutput struct {
	BookTitle  string  `json:"book_title"`
	ChunkID    string  `json:"chunk_id"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float64 `json:"score"`
	Percent    int     `json:"percent"`
	Method     string  `json:"method"`
	Text       string  `json:"text"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the student's question (Bangla or English)"`
	UserID   string `json:"user_id,omitempty" jsonschema:"caller identity used for rate limiting (default mcp)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer      string         `json:"answer"`
	Sources     []SourceOutput `json:"sources"`
	Error       string         `json:"error,omitempty"`
	Message     string         `json:"message,omitempty"`
	KeywordOnly bool           `json:"keyword_only"`
}

// SourceOutput is a citation returned by the ask tool.
type SourceOutput struct {
	BookTitle  string `json:"book_title"`
	Text       string `json:"text"`
	Similarity int    `json:"similarity"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_books",
		Description: "Find the textbook passages most relevant to a query",
	}, s.handleSearch)

	if s.ports.Answer == nil {
		return
	}
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a student's question using only the loaded textbooks, with citations",
	}, s.handleAsk)
}

// handleSearch handles the search_books tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}

	books, err := s.ports.Corpus.Books(ctx)
	if err != nil {
		return nil, SearchOutput{}, fmt.Errorf("loading books: %w", err)
	}

	results, err := s.ports.Search.Search(ctx, input.Query, books, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			BookTitle:  results[i].BookTitle,
			ChunkID:    results[i].Chunk.ID,
			ChunkIndex: results[i].Chunk.ChunkIndex,
			Score:      results[i].Score,
			Percent:    results[i].Percent(),
			Method:     results[i].Method.String(),
			Text:       results[i].Chunk.Text,
		}
		if results[i].Method == domain.ScoringKeyword {
			output.KeywordOnly = true
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation. Answer failures are reported in
// the output with IsError set rather than as protocol errors.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	userID := input.UserID
	if userID == "" {
		userID = DefaultUserID
	}

	books, err := s.ports.Corpus.Books(ctx)
	if err != nil {
		return nil, AskOutput{}, fmt.Errorf("loading books: %w", err)
	}

	answer := s.ports.Answer.Answer(ctx, input.Question, books, userID)

	output := AskOutput{
		Answer:      answer.Text,
		Sources:     make([]SourceOutput, len(answer.Sources)),
		Error:       answer.Error,
		KeywordOnly: answer.KeywordOnly,
	}
	for i, src := range answer.Sources {
		output.Sources[i] = SourceOutput{
			BookTitle:  src.BookTitle,
			Text:       src.Text,
			Similarity: src.Similarity,
		}
	}
	if !answer.OK() {
		output.Message = domain.UserMessage(answer.Err)
		return &mcp.CallToolResult{IsError: true}, output, nil
	}

	return nil, output, nil
}
