package driving

import (
	"context"

	"github.com/pathok-dev/pathok/internal/core/domain"
)

// CorpusService provides cached, read-only access to the loaded textbooks.
type CorpusService interface {
	// Books returns the corpus, loading it on first use.
	// The returned slice must not be modified.
	Books(ctx context.Context) ([]domain.Book, error)

	// Reload discards the cache and loads the corpus again.
	Reload(ctx context.Context) ([]domain.Book, error)

	// Watch invalidates the cache whenever the corpus changes on disk.
	// It blocks until ctx is cancelled. Without a watcher it returns immediately.
	Watch(ctx context.Context) error

	// Stats summarises the cached corpus. It does not trigger a load.
	Stats() domain.CorpusStats
}
