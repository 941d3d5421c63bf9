// Package slog provides logging decorators for jobtrack services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/jobtrack"
)

// Ensure LoggingFieldExtractor implements jobtrack.FieldExtractor.
var _ jobtrack.FieldExtractor = (*LoggingFieldExtractor)(nil)

// LoggingFieldExtractor wraps a FieldExtractor with logging.
type LoggingFieldExtractor struct {
	next   jobtrack.FieldExtractor
	logger *slog.Logger
}

// NewLoggingFieldExtractor creates a new LoggingFieldExtractor.
func NewLoggingFieldExtractor(next jobtrack.FieldExtractor, logger *slog.Logger) *LoggingFieldExtractor {
	return &LoggingFieldExtractor{next: next, logger: logger}
}

// ExtractFields delegates to the wrapped extractor and logs the call.
func (e *LoggingFieldExtractor) ExtractFields(ctx context.Context, content string) (x *jobtrack.Extraction, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"bytes", len(content),
			"duration", time.Since(begin),
		}
		if x != nil {
			attrs = append(attrs, "company", x.Company, "title", x.Title)
		}
		if err != nil {
			attrs = append(attrs, "code", jobtrack.ErrorCode(err), "err", err)
			e.logger.Warn("extract fields", attrs...)
			return
		}
		e.logger.Info("extract fields", attrs...)
	}(time.Now())
	return e.next.ExtractFields(ctx, content)
}

// Ensure LoggingFetcher implements jobtrack.Fetcher.
var _ jobtrack.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   jobtrack.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next jobtrack.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// Ensure LoggingRecordService implements jobtrack.RecordService.
var _ jobtrack.RecordService = (*LoggingRecordService)(nil)

// LoggingRecordService wraps a RecordService and logs record creation.
// Reads are delegated without logging.
type LoggingRecordService struct {
	next   jobtrack.RecordService
	logger *slog.Logger
}

// NewLoggingRecordService creates a new LoggingRecordService.
func NewLoggingRecordService(next jobtrack.RecordService, logger *slog.Logger) *LoggingRecordService {
	return &LoggingRecordService{next: next, logger: logger}
}

// CreateRecord delegates to the wrapped service and logs the result.
func (s *LoggingRecordService) CreateRecord(ctx context.Context, record *jobtrack.Record) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create record",
			"posting", record.PostingID,
			"record", record.ID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateRecord(ctx, record)
}

// FindRecordByID delegates to the wrapped service.
func (s *LoggingRecordService) FindRecordByID(ctx context.Context, id string) (*jobtrack.Record, error) {
	return s.next.FindRecordByID(ctx, id)
}

// FindRecords delegates to the wrapped service.
func (s *LoggingRecordService) FindRecords(ctx context.Context, filter jobtrack.RecordFilter) ([]*jobtrack.Record, error) {
	return s.next.FindRecords(ctx, filter)
}
