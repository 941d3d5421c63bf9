package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/jobtrack"
	"github.com/fwojciec/jobtrack/mock"
	jtslog "github.com/fwojciec/jobtrack/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFieldExtractor_ExtractFields(t *testing.T) {
	t.Parallel()

	t.Run("logs company and duration on success", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.FieldExtractor{
			ExtractFieldsFn: func(_ context.Context, _ string) (*jobtrack.Extraction, error) {
				return &jobtrack.Extraction{Company: "Acme", Title: "Engineer"}, nil
			},
		}

		x, err := jtslog.NewLoggingFieldExtractor(inner, logger).ExtractFields(context.Background(), "posting")

		require.NoError(t, err)
		assert.Equal(t, "Acme", x.Company)
		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, "extract fields")
		assert.Contains(t, output, "bytes=7")
		assert.Contains(t, output, "company=Acme")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs code as warning on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.FieldExtractor{
			ExtractFieldsFn: func(_ context.Context, _ string) (*jobtrack.Extraction, error) {
				return nil, jobtrack.Errorf(jobtrack.EEXTRACT, "missing required field TITLE")
			},
		}

		_, err := jtslog.NewLoggingFieldExtractor(inner, logger).ExtractFields(context.Background(), "posting")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "code=extraction_failed")
		assert.Contains(t, output, "missing required field TITLE")
	})
}

func TestLoggingRecordService(t *testing.T) {
	t.Parallel()

	t.Run("logs created record", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.RecordService{
			CreateRecordFn: func(_ context.Context, record *jobtrack.Record) error {
				record.ID = "r1"
				return nil
			},
		}

		err := jtslog.NewLoggingRecordService(inner, logger).CreateRecord(context.Background(), &jobtrack.Record{PostingID: "p1"})

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "create record")
		assert.Contains(t, output, "posting=p1")
		assert.Contains(t, output, "record=r1")
	})

	t.Run("delegates reads", func(t *testing.T) {
		t.Parallel()

		inner := &mock.RecordService{
			FindRecordByIDFn: func(_ context.Context, id string) (*jobtrack.Record, error) {
				return &jobtrack.Record{ID: id}, nil
			},
			FindRecordsFn: func(_ context.Context, _ jobtrack.RecordFilter) ([]*jobtrack.Record, error) {
				return []*jobtrack.Record{{ID: "a"}, {ID: "b"}}, nil
			},
		}
		svc := jtslog.NewLoggingRecordService(inner, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

		r, err := svc.FindRecordByID(context.Background(), "x")
		require.NoError(t, err)
		assert.Equal(t, "x", r.ID)

		rs, err := svc.FindRecords(context.Background(), jobtrack.RecordFilter{})
		require.NoError(t, err)
		assert.Len(t, rs, 2)
	})
}
