package jobtrack

import (
	"context"
	"time"
)

// Posting represents raw job-listing text awaiting extraction.
// Postings are immutable once created.
type Posting struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Source      Source    `json:"source"`
	ContentHash string    `json:"contentHash"`
	ReceivedAt  time.Time `json:"timestamp"`
}

// Validate returns an error if the posting contains invalid fields.
func (p *Posting) Validate() error {
	if p.Content == "" {
		return Errorf(EINVALID, "posting content required")
	}
	return nil
}

// PostingService represents a service for managing postings.
type PostingService interface {
	// CreatePosting stores a new posting. ID, ContentHash and ReceivedAt
	// are assigned by the store. An empty Source defaults to SourceLinkedIn.
	CreatePosting(ctx context.Context, posting *Posting) error

	// FindPostingByID retrieves a posting by ID.
	// Returns ENOTFOUND if posting does not exist.
	FindPostingByID(ctx context.Context, id string) (*Posting, error)

	// FindPostings retrieves postings in the order they were received.
	FindPostings(ctx context.Context, filter PostingFilter) ([]*Posting, error)
}

// PostingFilter represents a filter for FindPostings.
type PostingFilter struct {
	ID     *string `json:"id"`
	Source *Source `json:"source"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
