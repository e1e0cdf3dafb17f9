package driving

import (
	"context"

	"github.com/pathok-dev/pathok/internal/core/domain"
)

// SearchService ranks textbook chunks against a query.
type SearchService interface {
	// Search returns the k best chunks across books, best first.
	// k <= 0 means domain.DefaultSearchLimit. Fewer results are returned
	// when the corpus is smaller. An embedding dimension mismatch returns
	// an error wrapping domain.ErrInvalidInput.
	Search(ctx context.Context, query string, books []domain.Book, k int) ([]domain.SearchResult, error)
}
