// util/rate_limiter.go

package util

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/neonvault/config"
	"github.com/dev-mohitbeniwal/neonvault/db"
	vault_errors "github.com/dev-mohitbeniwal/neonvault/errors"
	logger "github.com/dev-mohitbeniwal/neonvault/logging"
)

// RateLimiter is a fixed-window request budget per subject. Counters live in
// the shared store so every gate instance sees the same count.
type RateLimiter struct {
	store     db.KVStore
	limit     int
	window    time.Duration
	retention time.Duration
	now       func() time.Time
}

// NewRateLimiter counts in whole seconds; a window shorter than a second is
// raised to one.
func NewRateLimiter(store db.KVStore, cfg config.RateLimitConfiguration) *RateLimiter {
	window := cfg.Window.Truncate(time.Second)
	if window < time.Second {
		window = time.Second
	}
	return &RateLimiter{
		store:     store,
		limit:     cfg.RequestsPerWindow,
		window:    window,
		retention: cfg.Retention,
		now:       time.Now,
	}
}

// WithClock returns a copy of r that reads the current time from now.
func (r *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	cp := *r
	cp.now = now
	return &cp
}

func (r *RateLimiter) Limit() int {
	return r.limit
}

func (r *RateLimiter) Window() time.Duration {
	return r.window
}

// WindowKey names the counter for subject in the window containing at. The
// window id is floor(unix seconds / window seconds).
func (r *RateLimiter) WindowKey(subject string, at time.Time) string {
	windowID := at.Unix() / int64(r.window/time.Second)
	return fmt.Sprintf("rl:%s:%d", subject, windowID)
}

// Admit counts one request for subject and returns the count so far in the
// current window. Requests past the limit still consume budget.
func (r *RateLimiter) Admit(ctx context.Context, subject string) (int64, error) {
	key := r.WindowKey(subject, r.now())

	count, err := r.store.Increment(ctx, key, r.retention)
	if err != nil {
		return 0, fmt.Errorf("%w: rate counter: %v", vault_errors.ErrInternal, err)
	}

	if count > int64(r.limit) {
		logger.Warn("Rate limit exceeded",
			zap.String("subject", subject),
			zap.Int64("count", count),
			zap.Int("limit", r.limit),
			zap.Duration("window", r.window))
		return count, vault_errors.ErrRateLimitExceeded
	}
	return count, nil
}
