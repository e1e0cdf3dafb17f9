package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/pathok-dev/pathok/internal/core/domain"
)

type mockSearchService struct {
	results []domain.SearchResult
	err     error
	gotK    int
}

func (m *mockSearchService) Search(_ context.Context, _ string, _ []domain.Book, k int) ([]domain.SearchResult, error) {
	m.gotK = k
	return m.results, m.err
}

type mockAnswerService struct {
	answer    domain.Answer
	gotUserID string
}

func (m *mockAnswerService) Answer(_ context.Context, _ string, _ []domain.Book, userID string) domain.Answer {
	m.gotUserID = userID
	return m.answer
}

type mockCorpusService struct {
	books    []domain.Book
	err      error
	reloaded bool
}

func (m *mockCorpusService) Books(_ context.Context) ([]domain.Book, error) {
	return m.books, m.err
}

func (m *mockCorpusService) Reload(_ context.Context) ([]domain.Book, error) {
	m.reloaded = true
	return m.books, m.err
}

func (m *mockCorpusService) Watch(_ context.Context) error {
	return nil
}

func (m *mockCorpusService) Stats() domain.CorpusStats {
	return domain.StatsFor(m.books)
}

type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	pingErr     error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetCorpus(dir string, books []string) error {
	if dir == "" {
		return domain.ErrInvalidInput
	}
	m.settings.Corpus = domain.CorpusSettings{Dir: dir, Books: books}
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, baseURL string) error {
	m.settings.Embedding.Provider = provider
	m.settings.Embedding.Model = model
	m.settings.Embedding.BaseURL = baseURL
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.LLM.Provider = provider
	m.settings.LLM.Model = model
	if apiKey != "" {
		m.settings.LLM.APIKey = apiKey
	}
	return nil
}

func (m *mockSettingsService) SetLimits(perMinute, daily int) error {
	if perMinute < 0 || daily < 0 {
		return domain.ErrInvalidInput
	}
	m.settings.Limits = domain.LimitSettings{PerMinute: perMinute, Daily: daily}
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error {
	return m.pingErr
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return m.pingErr
}

type mockQuotaReporter struct {
	used      int
	remaining int
	err       error
	gotKey    string
}

func (m *mockQuotaReporter) Used(_ context.Context, key string) (int, error) {
	m.gotKey = key
	return m.used, m.err
}

func (m *mockQuotaReporter) Remaining(_ context.Context, _ string) (int, error) {
	return m.remaining, m.err
}

var errService = errors.New("service exploded")

func testBooks() []domain.Book {
	return []domain.Book{
		{
			Metadata: domain.BookMetadata{Class: "9", Subject: "science", Title: "বিজ্ঞান", Source: "science9.json"},
			Chunks: []domain.Chunk{
				{ID: "science9-0", Text: "সালোকসংশ্লেষণ প্রক্রিয়ায় উদ্ভিদ খাদ্য তৈরি করে", Embedding: []float32{1, 0}},
				{ID: "science9-1", Text: "কোষ বিভাজন", Embedding: []float32{0, 1}},
			},
		},
		{
			Metadata: domain.BookMetadata{Source: "math9.json"},
			Chunks:   []domain.Chunk{{ID: "math9-0", Text: "set theory"}},
		},
	}
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	search   *mockSearchService
	answer   *mockAnswerService
	corpus   *mockCorpusService
	settings *mockSettingsService
	quota    *mockQuotaReporter
}

// setupTestServices installs mock services and returns a cleanup function.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		search: &mockSearchService{
			results: []domain.SearchResult{{
				Chunk:     domain.Chunk{ID: "science9-0", Text: "সালোকসংশ্লেষণ প্রক্রিয়ায় উদ্ভিদ খাদ্য তৈরি করে"},
				BookTitle: "বিজ্ঞান",
				Score:     0.87,
				Method:    domain.ScoringEmbedding,
			}},
		},
		answer: &mockAnswerService{
			answer: domain.Answer{
				Text:    "উদ্ভিদ সূর্যের আলো ব্যবহার করে খাদ্য তৈরি করে [1]",
				Sources: []domain.Source{{BookTitle: "বিজ্ঞান", Text: "সালোকসংশ্লেষণ", Similarity: 87}},
			},
		},
		corpus:   &mockCorpusService{books: testBooks()},
		settings: &mockSettingsService{settings: domain.DefaultAppSettings()},
		quota:    &mockQuotaReporter{used: 3, remaining: 97},
	}

	oldBootstrap := bootstrap
	bootstrap = nil
	SetServices(&Services{
		Search:   ts.search,
		Answer:   ts.answer,
		Corpus:   ts.corpus,
		Settings: ts.settings,
		Quota:    ts.quota,
	})

	return ts, func() {
		bootstrap = oldBootstrap
		SetServices(nil)
	}
}

// runCommand executes the root command with args and returns its output.
// Flag variables are reset first because cobra keeps them between runs.
func runCommand(stdin string, args ...string) (string, error) {
	searchLimit = domain.DefaultSearchLimit
	searchJSON = false
	askJSON = false
	userID = ""
	verbose = false

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
