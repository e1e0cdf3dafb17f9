package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathok-dev/pathok/internal/core/domain"
	"github.com/pathok-dev/pathok/internal/core/ports/driving"
)

// MockAnswerService implements driving.AnswerService for testing.
type MockAnswerService struct {
	AnswerFunc func(ctx context.Context, question string, books []domain.Book, userID string) domain.Answer
}

func (m *MockAnswerService) Answer(
	ctx context.Context, question string, books []domain.Book, userID string,
) domain.Answer {
	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, question, books, userID)
	}
	return domain.Answer{Text: "উত্তর", Sources: []domain.Source{}}
}

// MockSearchService implements driving.SearchService for testing.
type MockSearchService struct {
	SearchFunc func(
		ctx context.Context, query string, books []domain.Book, k int,
	) ([]domain.SearchResult, error)
}

func (m *MockSearchService) Search(
	ctx context.Context, query string, books []domain.Book, k int,
) ([]domain.SearchResult, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, books, k)
	}
	return nil, nil
}

// MockCorpusService implements driving.CorpusService for testing.
type MockCorpusService struct {
	BooksResult []domain.Book
	Err         error
}

func (m *MockCorpusService) Books(_ context.Context) ([]domain.Book, error) {
	return m.BooksResult, m.Err
}

func (m *MockCorpusService) Reload(_ context.Context) ([]domain.Book, error) {
	return m.BooksResult, m.Err
}

func (m *MockCorpusService) Watch(_ context.Context) error { return nil }

func (m *MockCorpusService) Stats() domain.CorpusStats {
	return domain.StatsFor(m.BooksResult)
}

// Verify interface compliance.
var (
	_ driving.AnswerService = (*MockAnswerService)(nil)
	_ driving.SearchService = (*MockSearchService)(nil)
	_ driving.CorpusService = (*MockCorpusService)(nil)
)

func testPorts() *Ports {
	return NewPorts(&MockAnswerService{}, &MockSearchService{}, &MockCorpusService{}, "user-1")
}

func TestNewPorts(t *testing.T) {
	answer := &MockAnswerService{}
	search := &MockSearchService{}
	corpus := &MockCorpusService{}

	ports := NewPorts(answer, search, corpus, "user-1")

	require.NotNil(t, ports)
	assert.Equal(t, answer, ports.Answer)
	assert.Equal(t, search, ports.Search)
	assert.Equal(t, corpus, ports.Corpus)
	assert.Equal(t, "user-1", ports.UserID)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{"all set", testPorts(), nil},
		{"missing answer", &Ports{Search: &MockSearchService{}, Corpus: &MockCorpusService{}}, ErrMissingAnswerService},
		{"missing search", &Ports{Answer: &MockAnswerService{}, Corpus: &MockCorpusService{}}, ErrMissingSearchService},
		{"missing corpus", &Ports{Answer: &MockAnswerService{}, Search: &MockSearchService{}}, ErrMissingCorpusService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPorts_Validate_EmptyUserIDAllowed(t *testing.T) {
	ports := testPorts()
	ports.UserID = ""

	assert.NoError(t, ports.Validate())
}
