package services

import (
	"context"
	"sync"

	"github.com/pathok-dev/pathok/internal/core/domain"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding []float32
	embedErr  error
	// block waits for the context to end before returning.
	block bool

	mu      sync.Mutex
	queries []string
}

func (m *mockEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.queries = append(m.queries, text)
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return len(m.embedding)
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockTextGenerator implements driven.TextGenerator for testing.
type mockTextGenerator struct {
	response string
	err      error
	panicVal any

	mu      sync.Mutex
	prompts []string
	users   []string
}

func (m *mockTextGenerator) Generate(_ context.Context, prompt, userID string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.users = append(m.users, userID)
	m.mu.Unlock()

	if m.panicVal != nil {
		panic(m.panicVal)
	}
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockTextGenerator) ModelName() string {
	return "mock-llm"
}

func (m *mockTextGenerator) Ping(_ context.Context) error {
	return nil
}

func (m *mockTextGenerator) Close() error {
	return nil
}

func (m *mockTextGenerator) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// mockSearchService implements driving.SearchService for testing.
type mockSearchService struct {
	results []domain.SearchResult
	err     error
	k       int
}

func (m *mockSearchService) Search(_ context.Context, _ string, _ []domain.Book, k int) ([]domain.SearchResult, error) {
	m.k = k
	return m.results, m.err
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompt string
	err    error
}

func (m *mockPromptStore) Load(_ string) (string, error) {
	return m.prompt, m.err
}

func (m *mockPromptStore) Reload() {}

// mockAIValidator implements driven.AIConfigValidator for testing.
type mockAIValidator struct {
	embeddingErr error
	llmErr       error
	embedding    *domain.EmbeddingSettings
	llm          *domain.LLMSettings
}

func (m *mockAIValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	m.embedding = config
	return m.embeddingErr
}

func (m *mockAIValidator) ValidateLLM(config *domain.LLMSettings) error {
	m.llm = config
	return m.llmErr
}

// --- Test helpers ---

func newBook(title string, chunks ...domain.Chunk) domain.Book {
	for i := range chunks {
		chunks[i].BookID = title
		chunks[i].ChunkIndex = i
	}
	return domain.Book{
		Metadata:    domain.BookMetadata{Title: title, Source: title + ".json"},
		TotalChunks: len(chunks),
		Chunks:      chunks,
	}
}

func chunk(id, text string, embedding ...float32) domain.Chunk {
	return domain.Chunk{ID: id, Text: text, Embedding: embedding}
}
