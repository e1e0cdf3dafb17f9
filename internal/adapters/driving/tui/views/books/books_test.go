package books

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathok-dev/pathok/internal/adapters/driving/tui/messages"
	"github.com/pathok-dev/pathok/internal/core/domain"
)

type mockCorpusService struct {
	books    []domain.Book
	err      error
	reloaded bool
}

func (m *mockCorpusService) Books(_ context.Context) ([]domain.Book, error) { return m.books, m.err }

func (m *mockCorpusService) Reload(_ context.Context) ([]domain.Book, error) {
	m.reloaded = true
	return m.books, m.err
}

func (m *mockCorpusService) Watch(_ context.Context) error { return nil }

func (m *mockCorpusService) Stats() domain.CorpusStats { return domain.StatsFor(m.books) }

func testBooks() []domain.Book {
	return []domain.Book{
		{
			Metadata: domain.BookMetadata{Title: "বিজ্ঞান", Class: "9", Subject: "science", Source: "science9.json"},
			Chunks: []domain.Chunk{
				{ID: "c1", Text: "a", Embedding: []float32{1, 0}},
				{ID: "c2", Text: "b", Embedding: []float32{0, 1}},
			},
		},
		{
			Metadata: domain.BookMetadata{Source: "math9.json"},
			Chunks:   []domain.Chunk{{ID: "m1", Text: "c"}},
		},
	}
}

func loadedView(t *testing.T, corpus *mockCorpusService) *View {
	t.Helper()
	v := NewView(nil, nil, corpus)
	v.SetDimensions(80, 24)
	cmd := v.Init()
	require.NotNil(t, cmd)
	v.Update(cmd())
	return v
}

func TestView_Init_LoadsBooks(t *testing.T) {
	v := loadedView(t, &mockCorpusService{books: testBooks()})

	assert.False(t, v.Loading())
	assert.NoError(t, v.Err())
	assert.Len(t, v.Books(), 2)
}

func TestView_View_ListsBooksAndStats(t *testing.T) {
	v := loadedView(t, &mockCorpusService{books: testBooks()})

	out := v.View()

	assert.Contains(t, out, "বিজ্ঞান")
	assert.Contains(t, out, "9 science · 2 chunks")
	assert.Contains(t, out, "math9.json")
	assert.Contains(t, out, "2 books, 3 chunks, 2 embedded (2 dims)")
}

func TestView_View_NoBooks(t *testing.T) {
	v := loadedView(t, &mockCorpusService{})

	assert.Contains(t, v.View(), "No books loaded.")
}

func TestView_LoadError(t *testing.T) {
	v := loadedView(t, &mockCorpusService{err: domain.ErrCorpusUnavailable})

	assert.ErrorIs(t, v.Err(), domain.ErrCorpusUnavailable)
	assert.Contains(t, v.View(), domain.UserMessage(domain.ErrCorpusUnavailable))
}

func TestView_NoCorpus(t *testing.T) {
	v := NewView(nil, nil, nil)

	msg := v.Init()()

	loaded, ok := msg.(messages.BooksLoaded)
	require.True(t, ok)
	assert.ErrorIs(t, loaded.Err, ErrNoCorpus)
}

func TestView_Reload(t *testing.T) {
	corpus := &mockCorpusService{books: testBooks()}
	v := loadedView(t, corpus)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	require.NotNil(t, cmd)
	assert.True(t, v.Loading())

	v.Update(cmd())

	assert.True(t, corpus.reloaded)
	assert.False(t, v.Loading())
}

func TestView_Navigation(t *testing.T) {
	v := loadedView(t, &mockCorpusService{books: testBooks()})

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, v.Selected())

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, v.Selected())

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 0, v.Selected())
}

func TestView_SelectionClampedAfterReload(t *testing.T) {
	v := loadedView(t, &mockCorpusService{books: testBooks()})
	v.selected = 1

	v.Update(messages.BooksLoaded{Books: testBooks()[:1]})

	assert.Equal(t, 0, v.Selected())
}

func TestView_Esc_BackToMenu(t *testing.T) {
	v := loadedView(t, &mockCorpusService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewMenu, changed.View)
}
