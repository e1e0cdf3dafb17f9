// Package guard wraps a TextGenerator with per-user limits, a per-call
// timeout and bounded retry of transient failures.
package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pathok-dev/pathok/internal/core/domain"
	"github.com/pathok-dev/pathok/internal/core/ports/driven"
	"github.com/pathok-dev/pathok/internal/logger"
)

// Ensure Generator implements the interface.
var (
	_ driven.TextGenerator = (*Generator)(nil)
	_ driven.ReadyChecker  = (*Generator)(nil)
)

// AnonymousKey is the limiter key used when a call carries no user ID.
const AnonymousKey = "anonymous"

// Limit pairs a limiter with the error returned when it denies a call.
type Limit struct {
	Limiter driven.RateLimiter
	Denied  error
}

// Config holds guard settings.
type Config struct {
	// Timeout bounds each attempt (default: domain.DefaultLLMTimeout).
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// Limits are checked in order before any attempt is made.
	Limits []Limit
}

// Generator guards calls to an underlying TextGenerator.
type Generator struct {
	next       driven.TextGenerator
	timeout    time.Duration
	maxRetries int
	limits     []Limit

	// sleep waits between retries; tests replace it.
	sleep func(ctx context.Context, d time.Duration) error
}

// New wraps next with cfg.
func New(next driven.TextGenerator, cfg Config) *Generator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultLLMTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Generator{
		next:       next,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		limits:     cfg.Limits,
		sleep:      sleepContext,
	}
}

// Generate checks every limit for userID, then calls the wrapped generator.
// Limits are consumed once per call, not per attempt, and not at all when the
// wrapped generator reports it cannot serve any call.
func (g *Generator) Generate(ctx context.Context, prompt, userID string) (string, error) {
	if err := g.Ready(); err != nil {
		return "", err
	}

	key := userID
	if key == "" {
		key = AnonymousKey
	}
	for _, limit := range g.limits {
		ok, err := limit.Limiter.CheckAndConsume(ctx, key)
		if err != nil {
			return "", fmt.Errorf("check limit: %w", err)
		}
		if !ok {
			logger.Debug("Generation denied for %s: %v", key, limit.Denied)
			return "", limit.Denied
		}
	}

	for attempt := 0; ; attempt++ {
		start := time.Now()
		text, err := g.attempt(ctx, prompt, userID)
		logger.Since("generation attempt", start)
		if err == nil {
			return text, nil
		}
		if attempt >= g.maxRetries || !retryable(ctx, err) {
			return "", err
		}

		delay := retryDelay(attempt)
		logger.Warn("Generation attempt %d failed, retrying in %s: %v", attempt+1, delay, err)
		if err := g.sleep(ctx, delay); err != nil {
			return "", err
		}
	}
}

func (g *Generator) attempt(ctx context.Context, prompt, userID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.next.Generate(ctx, prompt, userID)
}

// Ready reports ErrLLMUnavailable without a wrapped generator, and otherwise
// whatever the wrapped generator's Ready reports.
func (g *Generator) Ready() error {
	if g.next == nil {
		return domain.ErrLLMUnavailable
	}
	if rc, ok := g.next.(driven.ReadyChecker); ok {
		return rc.Ready()
	}
	return nil
}

// ModelName returns the wrapped generator's model.
func (g *Generator) ModelName() string {
	if g.next == nil {
		return ""
	}
	return g.next.ModelName()
}

// Ping pings the wrapped generator.
func (g *Generator) Ping(ctx context.Context) error {
	if g.next == nil {
		return domain.ErrLLMUnavailable
	}
	return g.next.Ping(ctx)
}

// Close closes the wrapped generator.
func (g *Generator) Close() error {
	if g.next == nil {
		return nil
	}
	return g.next.Close()
}

// retryable reports whether err is worth another attempt. Configuration and
// limit errors are final, as is cancellation of the caller's context.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	switch {
	case errors.Is(err, domain.ErrAPIKeyMissing),
		errors.Is(err, domain.ErrRateLimited),
		errors.Is(err, domain.ErrQuotaExceeded),
		errors.Is(err, context.Canceled):
		return false
	}
	return true
}

// retryDelay backs off exponentially from 200ms, capped at 5s.
func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 5 {
		return 5 * time.Second
	}
	d := 200 * time.Millisecond << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
