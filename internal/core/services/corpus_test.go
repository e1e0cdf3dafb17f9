package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathok-dev/pathok/internal/adapters/driven/storage/memory"
	"github.com/pathok-dev/pathok/internal/core/domain"
)

func TestCorpusService_Books_LoadsOnce(t *testing.T) {
	source := memory.NewCorpus(sampleBooks()...)
	service := NewCorpusService(source)

	for i := 0; i < 3; i++ {
		books, err := service.Books(context.Background())
		require.NoError(t, err)
		assert.Len(t, books, 2)
	}
	assert.Equal(t, 1, source.Loads())
}

func TestCorpusService_Books_ConcurrentCallersShareLoad(t *testing.T) {
	source := memory.NewCorpus(sampleBooks()...)
	service := NewCorpusService(source)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Books(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, source.Loads())
}

func TestCorpusService_Books_Error(t *testing.T) {
	source := memory.NewCorpus(sampleBooks()...)
	source.SetLoadError(errors.New("disk gone"))
	service := NewCorpusService(source)

	_, err := service.Books(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCorpusUnavailable)
	assert.Contains(t, err.Error(), "disk gone")

	// Failures are not cached
	source.SetLoadError(nil)
	books, err := service.Books(context.Background())
	require.NoError(t, err)
	assert.Len(t, books, 2)
}

func TestCorpusService_Books_NoSource(t *testing.T) {
	_, err := NewCorpusService(nil).Books(context.Background())

	assert.ErrorIs(t, err, domain.ErrCorpusUnavailable)
}

func TestCorpusService_Reload(t *testing.T) {
	source := memory.NewCorpus(sampleBooks()...)
	service := NewCorpusService(source)

	_, err := service.Books(context.Background())
	require.NoError(t, err)

	source.SetBooks(newBook("নতুন বই", chunk("n1", "text")))
	books, err := service.Reload(context.Background())

	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "নতুন বই", books[0].Title())
	assert.Equal(t, 2, source.Loads())
}

func TestCorpusService_Reload_FailureKeepsPrevious(t *testing.T) {
	source := memory.NewCorpus(sampleBooks()...)
	service := NewCorpusService(source)

	_, err := service.Books(context.Background())
	require.NoError(t, err)

	source.SetLoadError(errors.New("bad json"))
	_, err = service.Reload(context.Background())
	require.Error(t, err)

	books, err := service.Books(context.Background())
	require.NoError(t, err)
	assert.Len(t, books, 2)
}

func TestCorpusService_Invalidate(t *testing.T) {
	source := memory.NewCorpus(sampleBooks()...)
	service := NewCorpusService(source)

	_, _ = service.Books(context.Background())
	service.Invalidate()
	_, _ = service.Books(context.Background())

	assert.Equal(t, 2, source.Loads())
}

func TestCorpusService_Invalidate_FailedLoadServesPrevious(t *testing.T) {
	source := memory.NewCorpus(sampleBooks()...)
	service := NewCorpusService(source)

	_, err := service.Books(context.Background())
	require.NoError(t, err)

	service.Invalidate()
	source.SetLoadError(errors.New("half-written file"))

	books, err := service.Books(context.Background())
	require.NoError(t, err)
	assert.Len(t, books, 2)
	assert.Equal(t, 2, service.Stats().Books)

	// The next call retries and picks up the fixed file
	source.SetLoadError(nil)
	source.SetBooks(newBook("fixed", chunk("c", "t")))

	books, err = service.Books(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "fixed", books[0].Title())
}

func TestCorpusService_Watch_InvalidatesOnChange(t *testing.T) {
	source := memory.NewCorpus(sampleBooks()...)
	service := NewCorpusService(source)
	service.SetWatcher(source)

	_, err := service.Books(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- service.Watch(ctx) }()
	require.Eventually(t, func() bool { return source.Watchers() == 1 }, time.Second, 5*time.Millisecond)

	source.SetBooks(newBook("changed", chunk("c", "t")))

	books, err := service.Books(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "changed", books[0].Title())

	cancel()
	assert.NoError(t, <-done)
}

func TestCorpusService_Watch_NoWatcher(t *testing.T) {
	service := NewCorpusService(memory.NewCorpus())

	assert.NoError(t, service.Watch(context.Background()))
}

func TestCorpusService_Stats(t *testing.T) {
	service := NewCorpusService(memory.NewCorpus(sampleBooks()...))

	assert.Equal(t, domain.CorpusStats{}, service.Stats())

	_, err := service.Books(context.Background())
	require.NoError(t, err)

	stats := service.Stats()
	assert.Equal(t, 2, stats.Books)
	assert.Equal(t, 3, stats.Chunks)
	assert.Equal(t, 3, stats.EmbeddedChunks)
	assert.Equal(t, 2, stats.Dimensions)
}
