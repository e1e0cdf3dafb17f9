package guard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathok-dev/pathok/internal/core/domain"
)

// fakeGenerator returns queued results in order, then repeats the last one.
type fakeGenerator struct {
	mu      sync.Mutex
	results []result
	calls   int
	block   bool
	closed  bool
}

type result struct {
	text string
	err  error
}

func (f *fakeGenerator) Generate(ctx context.Context, _, _ string) (string, error) {
	f.mu.Lock()
	i := f.calls
	f.calls++
	block := f.block
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	return f.results[i].text, f.results[i].err
}

func (f *fakeGenerator) ModelName() string { return "fake" }
func (f *fakeGenerator) Ping(context.Context) error { return nil }
func (f *fakeGenerator) Close() error {
	f.closed = true
	return nil
}

// fakeLimiter allows up to allow calls per key.
type fakeLimiter struct {
	allow int
	err   error
	seen  map[string]int
}

func (l *fakeLimiter) CheckAndConsume(_ context.Context, key string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	if l.seen == nil {
		l.seen = map[string]int{}
	}
	if l.seen[key] >= l.allow {
		return false, nil
	}
	l.seen[key]++
	return true, nil
}

func newTestGuard(next *fakeGenerator, cfg Config) (*Generator, *[]time.Duration) {
	g := New(next, cfg)
	var delays []time.Duration
	g.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return g, &delays
}

func TestGenerate_Success(t *testing.T) {
	next := &fakeGenerator{results: []result{{text: "ok"}}}
	g, delays := newTestGuard(next, Config{MaxRetries: 2})

	text, err := g.Generate(context.Background(), "p", "u")

	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 1, next.calls)
	assert.Empty(t, *delays)
}

func TestGenerate_RetriesTransient(t *testing.T) {
	transient := errors.New("connection reset")
	next := &fakeGenerator{results: []result{{err: transient}, {err: transient}, {text: "third time"}}}
	g, delays := newTestGuard(next, Config{MaxRetries: 2})

	text, err := g.Generate(context.Background(), "p", "u")

	require.NoError(t, err)
	assert.Equal(t, "third time", text)
	assert.Equal(t, 3, next.calls)
	assert.Equal(t, []time.Duration{200 * time.Millisecond, 400 * time.Millisecond}, *delays)
}

func TestGenerate_GivesUpAfterMaxRetries(t *testing.T) {
	transient := errors.New("503")
	next := &fakeGenerator{results: []result{{err: transient}}}
	g, _ := newTestGuard(next, Config{MaxRetries: 1})

	_, err := g.Generate(context.Background(), "p", "u")

	assert.Equal(t, transient, err)
	assert.Equal(t, 2, next.calls)
}

func TestGenerate_FinalErrorsNotRetried(t *testing.T) {
	for _, final := range []error{domain.ErrAPIKeyMissing, domain.ErrRateLimited, domain.ErrQuotaExceeded} {
		t.Run(final.Error(), func(t *testing.T) {
			next := &fakeGenerator{results: []result{{err: final}}}
			g, _ := newTestGuard(next, Config{MaxRetries: 3})

			_, err := g.Generate(context.Background(), "p", "u")

			assert.ErrorIs(t, err, final)
			assert.Equal(t, 1, next.calls)
		})
	}
}

func TestGenerate_AttemptTimeout(t *testing.T) {
	next := &fakeGenerator{block: true}
	g, delays := newTestGuard(next, Config{Timeout: 10 * time.Millisecond, MaxRetries: 1})

	_, err := g.Generate(context.Background(), "p", "u")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, next.calls)
	assert.Len(t, *delays, 1)
}

func TestGenerate_CallerCancelled(t *testing.T) {
	next := &fakeGenerator{block: true}
	g, _ := newTestGuard(next, Config{Timeout: time.Second, MaxRetries: 3})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := g.Generate(ctx, "p", "u")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, next.calls)
}

func TestGenerate_Limits(t *testing.T) {
	perMinute := &fakeLimiter{allow: 2}
	daily := &fakeLimiter{allow: 3}
	next := &fakeGenerator{results: []result{{text: "ok"}}}
	g, _ := newTestGuard(next, Config{Limits: []Limit{
		{Limiter: perMinute, Denied: domain.ErrRateLimited},
		{Limiter: daily, Denied: domain.ErrQuotaExceeded},
	}})

	for i := 0; i < 2; i++ {
		_, err := g.Generate(context.Background(), "p", "alice")
		require.NoError(t, err)
	}

	_, err := g.Generate(context.Background(), "p", "alice")
	assert.ErrorIs(t, err, domain.ErrRateLimited)

	// Other users have their own budget
	_, err = g.Generate(context.Background(), "p", "bob")
	assert.NoError(t, err)

	assert.Equal(t, 3, next.calls)
}

func TestGenerate_QuotaDenied(t *testing.T) {
	next := &fakeGenerator{results: []result{{text: "ok"}}}
	g, _ := newTestGuard(next, Config{Limits: []Limit{
		{Limiter: &fakeLimiter{allow: 0}, Denied: domain.ErrQuotaExceeded},
	}})

	_, err := g.Generate(context.Background(), "p", "")

	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.Equal(t, 0, next.calls)
}

func TestGenerate_AnonymousKey(t *testing.T) {
	limiter := &fakeLimiter{allow: 1}
	g, _ := newTestGuard(&fakeGenerator{results: []result{{text: "ok"}}}, Config{Limits: []Limit{
		{Limiter: limiter, Denied: domain.ErrRateLimited},
	}})

	_, err := g.Generate(context.Background(), "p", "")

	require.NoError(t, err)
	assert.Equal(t, 1, limiter.seen[AnonymousKey])
}

func TestGenerate_LimiterError(t *testing.T) {
	g, _ := newTestGuard(&fakeGenerator{results: []result{{text: "ok"}}}, Config{Limits: []Limit{
		{Limiter: &fakeLimiter{err: errors.New("database is locked")}, Denied: domain.ErrQuotaExceeded},
	}})

	_, err := g.Generate(context.Background(), "p", "u")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
}

// unreadyGenerator fails every call the way a keyless Gemini client does.
type unreadyGenerator struct {
	fakeGenerator
}

func (u *unreadyGenerator) Ready() error { return domain.ErrAPIKeyMissing }

func TestGenerate_NotReadySkipsLimits(t *testing.T) {
	next := &unreadyGenerator{}
	daily := &fakeLimiter{allow: 1}
	g := New(next, Config{Limits: []Limit{
		{Limiter: daily, Denied: domain.ErrQuotaExceeded},
	}})

	for range 3 {
		_, err := g.Generate(context.Background(), "p", "alice")
		assert.ErrorIs(t, err, domain.ErrAPIKeyMissing)
	}

	assert.Zero(t, daily.seen["alice"])
	assert.Equal(t, 0, next.calls)
	assert.ErrorIs(t, g.Ready(), domain.ErrAPIKeyMissing)
}

func TestReady_PlainGenerator(t *testing.T) {
	assert.NoError(t, New(&fakeGenerator{}, Config{}).Ready())
}

func TestGenerate_NoGenerator(t *testing.T) {
	g := New(nil, Config{})

	_, err := g.Generate(context.Background(), "p", "u")

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.ErrorIs(t, g.Ping(context.Background()), domain.ErrLLMUnavailable)
	assert.Empty(t, g.ModelName())
	assert.NoError(t, g.Close())
}

func TestDelegates(t *testing.T) {
	next := &fakeGenerator{}
	g := New(next, Config{})

	assert.Equal(t, "fake", g.ModelName())
	assert.NoError(t, g.Ping(context.Background()))
	assert.NoError(t, g.Close())
	assert.True(t, next.closed)
}

func TestRetryDelay(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{-1, 200 * time.Millisecond},
		{0, 200 * time.Millisecond},
		{1, 400 * time.Millisecond},
		{3, 1600 * time.Millisecond},
		{4, 3200 * time.Millisecond},
		{5, 5 * time.Second},
		{40, 5 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, retryDelay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
