package workspace

import (
	"context"
	"math"

	"golang.org/x/time/rate"
)

// RateLimiter throttles workspace calls with a token bucket. It is shared by
// a client and every fresh client derived from it, so per-load clients still
// count against the same budget.
type RateLimiter struct {
	bucket *rate.Limiter
}

// NewRateLimiter creates a limiter allowing rps requests per second.
// A non-positive rps disables throttling.
func NewRateLimiter(rps float64) *RateLimiter {
	if rps <= 0 || math.IsInf(rps, 1) {
		return &RateLimiter{bucket: rate.NewLimiter(rate.Inf, 0)}
	}
	burst := int(math.Ceil(rps))
	return &RateLimiter{bucket: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait blocks until a request may be made or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.bucket.Wait(ctx)
}

// Limit returns the configured rate in requests per second.
func (r *RateLimiter) Limit() float64 {
	return float64(r.bucket.Limit())
}
