package mock

import (
	"context"

	"github.com/fwojciec/jobtrack"
)

// Compile-time interface verification.
var (
	_ jobtrack.FieldExtractor = (*FieldExtractor)(nil)
	_ jobtrack.RateLimiter    = (*RateLimiter)(nil)
)

// FieldExtractor is a mock implementation of jobtrack.FieldExtractor.
type FieldExtractor struct {
	ExtractFieldsFn func(ctx context.Context, content string) (*jobtrack.Extraction, error)
}

func (e *FieldExtractor) ExtractFields(ctx context.Context, content string) (*jobtrack.Extraction, error) {
	return e.ExtractFieldsFn(ctx, content)
}

// RateLimiter is a mock implementation of jobtrack.RateLimiter.
type RateLimiter struct {
	WaitFn func(ctx context.Context) error
}

func (l *RateLimiter) Wait(ctx context.Context) error {
	return l.WaitFn(ctx)
}
