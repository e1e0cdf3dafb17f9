package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pathok-dev/pathok/internal/core/domain"
	"github.com/pathok-dev/pathok/internal/core/ports/driven"
	"github.com/pathok-dev/pathok/internal/core/ports/driving"
	"github.com/pathok-dev/pathok/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService ranks every chunk of every book against a query.
// It is a brute-force linear scan; the corpus is small enough that no index is kept.
type SearchService struct {
	embeddingService driven.EmbeddingService
	embedTimeout     time.Duration
}

// NewSearchService creates a new search service.
// The embeddingService parameter is optional (can be nil); without it
// every chunk is scored by keyword overlap.
func NewSearchService(embeddingService driven.EmbeddingService) *SearchService {
	return &SearchService{
		embeddingService: embeddingService,
		embedTimeout:     domain.DefaultEmbeddingTimeout,
	}
}

// SetEmbedTimeout bounds the query embedding call. Non-positive values are ignored.
func (s *SearchService) SetEmbedTimeout(d time.Duration) {
	if d > 0 {
		s.embedTimeout = d
	}
}

// Search returns the k highest scoring chunks across books.
func (s *SearchService) Search(
	ctx context.Context, query string, books []domain.Book, k int,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q, books: %d", query, len(books))
	defer logger.Since("search", time.Now())

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	if k <= 0 {
		k = domain.DefaultSearchLimit
	}

	strategy := domain.NewScoringStrategy(query, s.embedQuery(ctx, query))
	logger.Info("Scoring strategy: %s", strategy.Method())

	results, err := s.scoreAll(ctx, strategy, books)
	if err != nil {
		return nil, err
	}
	logger.Debug("Scored chunks: %d", len(results))

	// Stable sort keeps corpus order (book, then chunk) for equal scores
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	logger.Info("Final results: %d", len(results))

	return results, nil
}

// scoreAll applies the strategy to every chunk in corpus order.
func (s *SearchService) scoreAll(
	ctx context.Context, strategy domain.ScoringStrategy, books []domain.Book,
) ([]domain.SearchResult, error) {
	total := 0
	for i := range books {
		total += len(books[i].Chunks)
	}
	results := make([]domain.SearchResult, 0, total)

	for i := range books {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}

		book := &books[i]
		title := book.Title()
		for j := range book.Chunks {
			chunk := &book.Chunks[j]
			score, method, err := strategy.Score(chunk)
			if err != nil {
				logger.Warn("Scoring chunk %s of %q failed: %v", chunk.ID, title, err)
				return nil, fmt.Errorf("score chunk %s in %q: %w", chunk.ID, title, err)
			}
			results = append(results, domain.SearchResult{
				Chunk:     *chunk,
				BookTitle: title,
				Score:     score,
				Method:    method,
			})
		}
	}

	return results, nil
}

// embedQuery returns the query embedding, or nil when none is available.
// Failures are logged and swallowed so retrieval can fall back to keywords.
func (s *SearchService) embedQuery(ctx context.Context, query string) []float32 {
	if s.embeddingService == nil {
		logger.Debug("Embedding service not configured, using keyword scoring")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()

	start := time.Now()
	embedding, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed after %s: %v (using keyword scoring)",
			time.Since(start).Round(time.Millisecond), err)
		return nil
	}
	if len(embedding) == 0 {
		logger.Warn("Query embedding was empty (using keyword scoring)")
		return nil
	}

	if want := s.embeddingService.Dimensions(); want > 0 && want != len(embedding) {
		logger.Warn("Model %s returned %d dimensions, expected %d",
			s.embeddingService.ModelName(), len(embedding), want)
	}
	logger.Debug("Query embedding: %d dimensions", len(embedding))
	return embedding
}
