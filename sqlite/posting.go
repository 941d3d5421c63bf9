package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/jobtrack"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ jobtrack.PostingService = (*PostingService)(nil)

// PostingService implements jobtrack.PostingService using SQLite.
type PostingService struct {
	db *DB
}

// NewPostingService creates a new PostingService.
func NewPostingService(db *DB) *PostingService {
	return &PostingService{db: db}
}

// hashContent returns the big-endian hex form of the content's xxHash.
func hashContent(content string) string {
	return hex.EncodeToString(binary.BigEndian.AppendUint64(nil, xxhash.Sum64String(content)))
}

// CreatePosting stores a new posting.
func (s *PostingService) CreatePosting(ctx context.Context, posting *jobtrack.Posting) error {
	if err := posting.Validate(); err != nil {
		return err
	}

	posting.ID = uuid.New().String()
	posting.ReceivedAt = time.Now().UTC()
	posting.ContentHash = hashContent(posting.Content)
	if posting.Source == "" {
		posting.Source = jobtrack.SourceLinkedIn
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO postings (id, content, source, content_hash, received_at)
		VALUES (?, ?, ?, ?, ?)
	`, posting.ID, posting.Content, string(posting.Source), posting.ContentHash, formatTime(posting.ReceivedAt))

	return err
}

// FindPostingByID retrieves a posting by ID.
func (s *PostingService) FindPostingByID(ctx context.Context, id string) (*jobtrack.Posting, error) {
	postings, err := s.FindPostings(ctx, jobtrack.PostingFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(postings) == 0 {
		return nil, jobtrack.Errorf(jobtrack.ENOTFOUND, "posting not found")
	}
	return postings[0], nil
}

// FindPostings retrieves postings in the order they were received.
func (s *PostingService) FindPostings(ctx context.Context, filter jobtrack.PostingFilter) ([]*jobtrack.Posting, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, content, source, content_hash, received_at FROM postings WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Source != nil {
		query.WriteString(" AND source = ?")
		args = append(args, string(*filter.Source))
	}

	query.WriteString(" ORDER BY received_at ASC, rowid ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var postings []*jobtrack.Posting
	for rows.Next() {
		posting, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		postings = append(postings, posting)
	}

	return postings, rows.Err()
}

func scanPosting(rows *sql.Rows) (*jobtrack.Posting, error) {
	var posting jobtrack.Posting
	var source, receivedAt string

	if err := rows.Scan(&posting.ID, &posting.Content, &source, &posting.ContentHash, &receivedAt); err != nil {
		return nil, err
	}
	posting.Source = jobtrack.Source(source)

	var err error
	if posting.ReceivedAt, err = parseTime(receivedAt, "received_at"); err != nil {
		return nil, err
	}
	return &posting, nil
}
