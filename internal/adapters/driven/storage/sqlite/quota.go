package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pathok-dev/pathok/internal/core/ports/driven"
)

// Ensure QuotaStore implements the interface.
var _ driven.RateLimiter = (*QuotaStore)(nil)

// dayLayout keys usage rows by local calendar day.
const dayLayout = "2006-01-02"

// QuotaStore enforces a per-user daily question allowance.
// Counts reset at local midnight; a zero allowance disables the quota.
type QuotaStore struct {
	db    *sql.DB
	daily int
	now   func() time.Time
}

func newQuotaStore(db *sql.DB, daily int) *QuotaStore {
	return &QuotaStore{db: db, daily: daily, now: time.Now}
}

// SetClock replaces the time source. Used by tests.
func (q *QuotaStore) SetClock(now func() time.Time) {
	q.now = now
}

// CheckAndConsume increments key's count for today unless the allowance is used up.
// The check and the increment are a single statement, so concurrent
// processes cannot overshoot the allowance.
func (q *QuotaStore) CheckAndConsume(ctx context.Context, key string) (bool, error) {
	if q.daily <= 0 {
		return true, nil
	}

	res, err := q.db.ExecContext(ctx, `
		INSERT INTO quota_usage (user_key, day, count) VALUES (?, ?, 1)
		ON CONFLICT (user_key, day) DO UPDATE
		SET count = count + 1, updated_at = CURRENT_TIMESTAMP
		WHERE count < ?
	`, key, q.today(), q.daily)
	if err != nil {
		return false, fmt.Errorf("consuming quota: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("consuming quota: %w", err)
	}
	return n > 0, nil
}

// Used returns how many questions key has asked today.
func (q *QuotaStore) Used(ctx context.Context, key string) (int, error) {
	var count int
	err := q.db.QueryRowContext(ctx,
		"SELECT count FROM quota_usage WHERE user_key = ? AND day = ?",
		key, q.today(),
	).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading quota: %w", err)
	}
	return count, nil
}

// Remaining returns how many questions key may still ask today,
// or -1 when the quota is disabled.
func (q *QuotaStore) Remaining(ctx context.Context, key string) (int, error) {
	if q.daily <= 0 {
		return -1, nil
	}
	used, err := q.Used(ctx, key)
	if err != nil {
		return 0, err
	}
	return max(q.daily-used, 0), nil
}

// Prune deletes usage rows older than keepDays days.
func (q *QuotaStore) Prune(ctx context.Context, keepDays int) (int64, error) {
	cutoff := q.now().AddDate(0, 0, -keepDays).Format(dayLayout)
	res, err := q.db.ExecContext(ctx, "DELETE FROM quota_usage WHERE day < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning quota: %w", err)
	}
	return res.RowsAffected()
}

func (q *QuotaStore) today() string {
	return q.now().Format(dayLayout)
}
