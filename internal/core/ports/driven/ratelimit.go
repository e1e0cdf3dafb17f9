package driven

import "context"

// RateLimiter decides whether a caller may perform a metered action.
type RateLimiter interface {
	// CheckAndConsume reports whether key may proceed and, if so, records the use.
	// A false result with a nil error means the caller is over its limit.
	CheckAndConsume(ctx context.Context, key string) (bool, error)
}
