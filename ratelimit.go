package jobtrack

import "context"

// RateLimiter paces calls to the structured-completion service.
type RateLimiter interface {
	// Wait blocks until a call may proceed.
	// Returns an error if the context is canceled before the wait completes.
	Wait(ctx context.Context) error
}
