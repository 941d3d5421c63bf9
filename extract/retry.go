package extract

import (
	"context"
	"time"

	"github.com/fwojciec/jobtrack"
)

// DefaultRetryDelays returns the backoff delays for retrying an unavailable
// completion service: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// retryUnavailable calls fn until it succeeds or fails with anything other
// than EUNAVAILABLE, waiting delays[i] before attempt i+2. With no delays fn
// is called once.
func retryUnavailable[T any](ctx context.Context, delays []time.Duration, fn func(context.Context) (T, error)) (T, error) {
	maxAttempts := len(delays) + 1

	var zero T
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if jobtrack.ErrorCode(err) != jobtrack.EUNAVAILABLE || attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, errCanceled()
		case <-time.After(delays[attempt]):
		}
	}

	return zero, lastErr
}
