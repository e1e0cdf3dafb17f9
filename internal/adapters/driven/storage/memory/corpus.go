package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/pathok-dev/pathok/internal/core/domain"
	"github.com/pathok-dev/pathok/internal/core/ports/driven"
)

// Ensure Corpus implements the interfaces.
var (
	_ driven.CorpusSource  = (*Corpus)(nil)
	_ driven.CorpusWatcher = (*Corpus)(nil)
)

// Corpus is an in-memory corpus source for tests and fixtures.
// Replacing its books notifies every active watcher.
type Corpus struct {
	mu       sync.RWMutex
	books    []domain.Book
	loadErr  error
	loads    int
	watchers map[int]func()
	nextID   int
}

// NewCorpus creates an in-memory corpus holding books.
func NewCorpus(books ...domain.Book) *Corpus {
	return &Corpus{
		books:    books,
		watchers: make(map[int]func()),
	}
}

// Load returns the current books.
func (c *Corpus) Load(ctx context.Context) ([]domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loads++

	if c.loadErr != nil {
		return nil, c.loadErr
	}
	if len(c.books) == 0 {
		return nil, fmt.Errorf("%w: no books", domain.ErrCorpusUnavailable)
	}

	books := make([]domain.Book, len(c.books))
	copy(books, c.books)
	return books, nil
}

// SetBooks replaces the corpus and notifies watchers.
func (c *Corpus) SetBooks(books ...domain.Book) {
	c.mu.Lock()
	c.books = books
	callbacks := make([]func(), 0, len(c.watchers))
	for _, fn := range c.watchers {
		callbacks = append(callbacks, fn)
	}
	c.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// SetLoadError makes subsequent loads fail with err. Pass nil to clear.
func (c *Corpus) SetLoadError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadErr = err
}

// Loads reports how many times Load has been called.
func (c *Corpus) Loads() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loads
}

// Watch registers onChange until ctx is cancelled.
func (c *Corpus) Watch(ctx context.Context, onChange func()) error {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.watchers[id] = onChange
	c.mu.Unlock()

	<-ctx.Done()

	c.mu.Lock()
	delete(c.watchers, id)
	c.mu.Unlock()
	return nil
}

// Watchers reports the number of active watchers.
func (c *Corpus) Watchers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.watchers)
}
