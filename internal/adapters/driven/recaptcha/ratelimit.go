package recaptcha

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Default request budget for siteverify calls.
const (
	DefaultRequestsPerSecond = 10.0
	DefaultBurstSize         = 20

	// DefaultBackoff applies when a 429 carries no usable Retry-After.
	DefaultBackoff = 30 * time.Second
)

// RateLimiter is a token bucket with a backoff window for 429 responses.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a limiter allowing rps sustained requests with burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Wait blocks until a request may be made, honouring any backoff window.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// Backoff pauses all requests for the given duration.
func (r *RateLimiter) Backoff(d time.Duration) {
	if d <= 0 {
		d = DefaultBackoff
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.retryAt = time.Now().Add(d)
}

// Allow reports whether a request could be made right now without blocking.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}
	return r.limiter.Allow()
}
