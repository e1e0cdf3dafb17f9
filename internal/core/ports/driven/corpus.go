package driven

import (
	"context"

	"github.com/pathok-dev/pathok/internal/core/domain"
)

// CorpusSource loads the textbook corpus.
// The set of books is part of the source's configuration.
type CorpusSource interface {
	// Load reads every configured book. Books that cannot be read are
	// skipped; an error is returned only when no book could be loaded.
	Load(ctx context.Context) ([]domain.Book, error)
}

// CorpusWatcher reports changes to the underlying corpus storage.
type CorpusWatcher interface {
	// Watch calls onChange whenever the corpus changes, until ctx is cancelled.
	// It blocks and returns nil on cancellation.
	Watch(ctx context.Context, onChange func()) error
}
