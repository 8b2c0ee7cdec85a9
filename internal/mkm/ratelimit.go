package mkm

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter paces outgoing API calls with a token bucket and tracks the
// advisory daily quota the marketplace reports via the
// X-Request-Limit-Count / X-Request-Limit-Max response headers. The quota is
// advisory only: the client records and exposes it but does not block on it,
// since the authoritative counter lives upstream.
type RateLimiter struct {
	limiter *rate.Limiter

	mu         sync.Mutex
	quotaUsed  int64
	quotaLimit int64
}

// NewRateLimiter creates a limiter with the given per-second rate and burst.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Wait blocks until the token bucket allows another call, or the context is
// canceled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	return nil
}

// RecordQuota stores the most recent quota advisory from response headers.
func (r *RateLimiter) RecordQuota(used, limit int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quotaUsed = used
	r.quotaLimit = limit
}

// Quota returns the last advisory quota seen: calls used and the daily
// maximum. Both are zero before the first response arrives.
func (r *RateLimiter) Quota() (used, limit int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quotaUsed, r.quotaLimit
}

// Remaining returns the advisory number of calls left today, or zero when
// unknown or exhausted.
func (r *RateLimiter) Remaining() int64 {
	used, limit := r.Quota()
	if limit <= 0 || used >= limit {
		return 0
	}
	return limit - used
}
