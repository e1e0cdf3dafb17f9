package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pathok-dev/pathok/internal/core/domain"
	"github.com/pathok-dev/pathok/internal/core/ports/driven"
	"github.com/pathok-dev/pathok/internal/core/ports/driving"
	"github.com/pathok-dev/pathok/internal/logger"
)

// Ensure CorpusService implements the interface.
var _ driving.CorpusService = (*CorpusService)(nil)

// CorpusService caches the loaded corpus for the lifetime of the process.
// Readers share one immutable slice; reloads replace it under the write lock.
type CorpusService struct {
	source  driven.CorpusSource
	watcher driven.CorpusWatcher

	// loadMu serialises loads so concurrent callers share one read of the files.
	loadMu sync.Mutex

	mu    sync.RWMutex
	books []domain.Book
	// loaded is false before the first load and after Invalidate. books
	// keeps the last good corpus either way.
	loaded bool
}

// NewCorpusService creates a corpus service backed by source.
func NewCorpusService(source driven.CorpusSource) *CorpusService {
	return &CorpusService{source: source}
}

// SetWatcher sets the watcher used by Watch to invalidate the cache.
func (s *CorpusService) SetWatcher(watcher driven.CorpusWatcher) {
	s.watcher = watcher
}

// Books returns the cached corpus, loading it on first use or after
// Invalidate. When that load fails but an earlier corpus is held, the earlier
// corpus is returned and the load is retried on the next call.
func (s *CorpusService) Books(ctx context.Context) ([]domain.Book, error) {
	if books, ok := s.cached(); ok {
		return books, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	// Another caller may have loaded while we waited
	if books, ok := s.cached(); ok {
		return books, nil
	}
	books, err := s.load(ctx)
	if err != nil {
		if stale := s.held(); stale != nil {
			logger.Warn("Serving previous corpus (%d books) until reload succeeds", len(stale))
			return stale, nil
		}
		return nil, err
	}
	return books, nil
}

// Reload reads the corpus again and reports any failure to the caller.
// On failure the previous corpus stays held and Books keeps serving it.
func (s *CorpusService) Reload(ctx context.Context) ([]domain.Book, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.load(ctx)
}

// Invalidate marks the cache stale so the next Books call reloads.
func (s *CorpusService) Invalidate() {
	s.mu.Lock()
	s.loaded = false
	s.mu.Unlock()
}

// Watch invalidates the cache on every corpus change until ctx is cancelled.
func (s *CorpusService) Watch(ctx context.Context) error {
	if s.watcher == nil {
		logger.Debug("No corpus watcher configured")
		return nil
	}
	return s.watcher.Watch(ctx, func() {
		logger.Info("Corpus changed on disk, cache invalidated")
		s.Invalidate()
	})
}

// Stats summarises the cached corpus without loading it.
func (s *CorpusService) Stats() domain.CorpusStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.StatsFor(s.books)
}

func (s *CorpusService) cached() ([]domain.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.books, s.loaded
}

func (s *CorpusService) held() []domain.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.books
}

// load reads the corpus and swaps it in (caller must hold loadMu).
func (s *CorpusService) load(ctx context.Context) ([]domain.Book, error) {
	logger.Section("Corpus Load")

	if s.source == nil {
		return nil, fmt.Errorf("%w: no corpus source configured", domain.ErrCorpusUnavailable)
	}

	books, err := s.source.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrCorpusUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrCorpusUnavailable, err)
		}
		logger.Warn("Corpus load failed: %v", err)
		return nil, err
	}

	s.mu.Lock()
	s.books = books
	s.loaded = true
	s.mu.Unlock()

	stats := domain.StatsFor(books)
	logger.Info("Corpus loaded: %d books, %d chunks (%d embedded, %d dimensions)",
		stats.Books, stats.Chunks, stats.EmbeddedChunks, stats.Dimensions)

	return books, nil
}
