package mcp

import (
	"context"

	"github.com/pathok-dev/pathok/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	err     error
	gotK    int
	gotN    int
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	books []domain.Book,
	k int,
) ([]domain.SearchResult, error) {
	m.gotK = k
	m.gotN = len(books)
	return m.results, m.err
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer    domain.Answer
	gotUserID string
}

func (m *mockAnswerService) Answer(_ context.Context, _ string, _ []domain.Book, userID string) domain.Answer {
	m.gotUserID = userID
	return m.answer
}

// mockCorpusService is a mock implementation of driving.CorpusService.
type mockCorpusService struct {
	books []domain.Book
	err   error
}

func (m *mockCorpusService) Books(_ context.Context) ([]domain.Book, error) {
	return m.books, m.err
}

func (m *mockCorpusService) Reload(_ context.Context) ([]domain.Book, error) {
	return m.books, m.err
}

func (m *mockCorpusService) Watch(_ context.Context) error {
	return nil
}

func (m *mockCorpusService) Stats() domain.CorpusStats {
	return domain.StatsFor(m.books)
}

func testBooks() []domain.Book {
	return []domain.Book{
		{
			Metadata: domain.BookMetadata{Class: "9", Subject: "science", Title: "বিজ্ঞান", Source: "science9.json"},
			Chunks: []domain.Chunk{
				{ID: "science9-0", Text: "সালোকসংশ্লেষণ", Embedding: []float32{1, 0}},
				{ID: "science9-1", Text: "কোষ বিভাজন", Embedding: []float32{0, 1}},
			},
		},
		{
			Metadata: domain.BookMetadata{Source: "math9.json"},
			Chunks:   []domain.Chunk{{ID: "math9-0", Text: "set theory"}},
		},
	}
}
