package mock

import (
	"context"

	"github.com/fwojciec/jobtrack"
)

var _ jobtrack.RecordService = (*RecordService)(nil)

// RecordService is a mock implementation of jobtrack.RecordService.
type RecordService struct {
	CreateRecordFn   func(ctx context.Context, record *jobtrack.Record) error
	FindRecordByIDFn func(ctx context.Context, id string) (*jobtrack.Record, error)
	FindRecordsFn    func(ctx context.Context, filter jobtrack.RecordFilter) ([]*jobtrack.Record, error)
}

func (s *RecordService) CreateRecord(ctx context.Context, record *jobtrack.Record) error {
	return s.CreateRecordFn(ctx, record)
}

func (s *RecordService) FindRecordByID(ctx context.Context, id string) (*jobtrack.Record, error) {
	return s.FindRecordByIDFn(ctx, id)
}

func (s *RecordService) FindRecords(ctx context.Context, filter jobtrack.RecordFilter) ([]*jobtrack.Record, error) {
	return s.FindRecordsFn(ctx, filter)
}
