package extract

import (
	"context"

	"github.com/fwojciec/jobtrack"
	"golang.org/x/time/rate"
)

var _ jobtrack.RateLimiter = (*Limiter)(nil)

// Limiter paces calls to the completion service with a token bucket.
// One Limiter is shared by every worker of a Processor, so the rate holds
// across the whole batch rather than per worker.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a Limiter allowing rps calls per second with a burst of 1.
// A non-positive rps disables limiting.
func NewLimiter(rps float64) *Limiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &Limiter{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the rate limit allows a call.
// Returns an error if the context is canceled before the wait completes.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
