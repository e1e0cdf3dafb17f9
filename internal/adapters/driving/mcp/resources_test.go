package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathok-dev/pathok/internal/core/domain"
)

func TestExtractBookSource(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid book URI",
			uri:      "pathok://books/science9.json",
			expected: "science9.json",
		},
		{
			name:     "invalid prefix",
			uri:      "file://books/science9.json",
			expected: "",
		},
		{
			name:     "listing URI",
			uri:      "pathok://books",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractBookSource(tt.uri))
		})
	}
}

func newResourceServer(t *testing.T, corpus *mockCorpusService) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Search: &mockSearchService{}, Corpus: corpus})
	require.NoError(t, err)
	return server
}

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestServer_handleBooksResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists books with stats", func(t *testing.T) {
		server := newResourceServer(t, &mockCorpusService{books: testBooks()})

		result, err := server.handleBooksResource(ctx, readRequest("pathok://books"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var payload booksPayload
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &payload))
		require.Len(t, payload.Books, 2)
		assert.Equal(t, "বিজ্ঞান", payload.Books[0].Title)
		assert.Equal(t, "pathok://books/science9.json", payload.Books[0].URI)
		assert.Equal(t, "math9.json", payload.Books[1].Title)
		assert.Equal(t, 3, payload.TotalChunks)
		assert.Equal(t, 2, payload.EmbeddedChunks)
		assert.Equal(t, 2, payload.Dimensions)
	})

	t.Run("corpus error", func(t *testing.T) {
		server := newResourceServer(t, &mockCorpusService{err: domain.ErrCorpusUnavailable})

		_, err := server.handleBooksResource(ctx, readRequest("pathok://books"))
		assert.ErrorIs(t, err, domain.ErrCorpusUnavailable)
	})
}

func TestServer_handleBookContentResource(t *testing.T) {
	ctx := context.Background()
	server := newResourceServer(t, &mockCorpusService{books: testBooks()})

	t.Run("returns chunk text", func(t *testing.T) {
		result, err := server.handleBookContentResource(ctx, readRequest("pathok://books/science9.json"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "সালোকসংশ্লেষণ\n\nকোষ বিভাজন", result.Contents[0].Text)
	})

	t.Run("unknown book", func(t *testing.T) {
		_, err := server.handleBookContentResource(ctx, readRequest("pathok://books/missing.json"))
		assert.Error(t, err)
	})

	t.Run("malformed URI", func(t *testing.T) {
		_, err := server.handleBookContentResource(ctx, readRequest("pathok://other"))
		assert.Error(t, err)
	})
}
