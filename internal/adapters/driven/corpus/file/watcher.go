package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pathok-dev/pathok/internal/core/ports/driven"
	"github.com/pathok-dev/pathok/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.CorpusWatcher = (*Watcher)(nil)

// DefaultDebounce coalesces the burst of events a single file copy produces.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reports changes to book files in a directory.
type Watcher struct {
	dir      string
	debounce time.Duration
}

// NewWatcher creates a watcher for dir.
func NewWatcher(dir string) *Watcher {
	return &Watcher{dir: dir, debounce: DefaultDebounce}
}

// SetDebounce sets how long to wait for events to settle before notifying.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Watch calls onChange once per settled burst of book file changes until ctx
// is cancelled.
func (w *Watcher) Watch(ctx context.Context, onChange func()) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	logger.Debug("Watching corpus directory %s", w.dir)

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("Corpus event: %s", event)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			onChange()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Corpus watcher error: %v", err)
		}
	}
}

// relevant reports whether event may change the loaded corpus.
// Chmod and hidden or non-book files are ignored.
func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return isBookFile(filepath.Base(event.Name))
}
