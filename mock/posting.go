package mock

import (
	"context"

	"github.com/fwojciec/jobtrack"
)

var _ jobtrack.PostingService = (*PostingService)(nil)

// PostingService is a mock implementation of jobtrack.PostingService.
type PostingService struct {
	CreatePostingFn   func(ctx context.Context, posting *jobtrack.Posting) error
	FindPostingByIDFn func(ctx context.Context, id string) (*jobtrack.Posting, error)
	FindPostingsFn    func(ctx context.Context, filter jobtrack.PostingFilter) ([]*jobtrack.Posting, error)
}

func (s *PostingService) CreatePosting(ctx context.Context, posting *jobtrack.Posting) error {
	return s.CreatePostingFn(ctx, posting)
}

func (s *PostingService) FindPostingByID(ctx context.Context, id string) (*jobtrack.Posting, error) {
	return s.FindPostingByIDFn(ctx, id)
}

func (s *PostingService) FindPostings(ctx context.Context, filter jobtrack.PostingFilter) ([]*jobtrack.Posting, error) {
	return s.FindPostingsFn(ctx, filter)
}
