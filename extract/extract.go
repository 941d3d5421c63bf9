// Package extract turns stored postings into extracted records.
//
// A Processor runs one posting through load, normalize, extract and persist,
// or walks every stored posting and does the same for those without a record.
// Caller cancellation stops the work at fixed checkpoints and aborts an
// in-flight completion call; nothing is persisted after it is observed.
package extract

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/jobtrack"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds a single completion call.
const DefaultTimeout = 2 * time.Minute

// Processor extracts records from postings.
type Processor struct {
	Postings    jobtrack.PostingService
	Records     jobtrack.RecordService
	Extractor   jobtrack.FieldExtractor
	Normalizers *jobtrack.NormalizerRegistry

	// RateLimiter, if set, paces completion calls.
	RateLimiter jobtrack.RateLimiter

	// Timeout bounds each completion call. Zero means DefaultTimeout,
	// negative means no bound.
	Timeout time.Duration

	// RetryDelays are the waits between retries of an EUNAVAILABLE
	// completion call. Empty means no retries.
	RetryDelays []time.Duration

	// Concurrency is the number of postings ProcessAll works on at once.
	// Values below 1 mean 1.
	Concurrency int
}

// Status is the outcome of a batch run.
type Status string

// Status values.
const (
	StatusSuccess  Status = "success"
	StatusCanceled Status = "canceled"
	StatusFailed   Status = "error"
)

// BatchResult holds the outcome of a ProcessAll run.
type BatchResult struct {
	Status    Status `json:"status"`
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
}

// ProgressEvent reports progress during a batch run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	PostingID string
	RecordID  string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressSkipped
	ProgressSaved
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

func errCanceled() error {
	return jobtrack.Errorf(jobtrack.ECANCELED, "client disconnected")
}

// ProcessPosting extracts and stores the record for one posting.
//
// Returns ENOTFOUND if the posting does not exist, ECANCELED if ctx is
// canceled before the record is stored, EEXTRACT if the completion service
// returns no valid result, EUNAVAILABLE if the service cannot be reached or
// times out, and ECONFLICT if the posting already has a record.
func (p *Processor) ProcessPosting(ctx context.Context, postingID string) (*jobtrack.Record, error) {
	if postingID == "" {
		return nil, jobtrack.Errorf(jobtrack.EINVALID, "posting id required")
	}

	posting, err := p.Postings.FindPostingByID(ctx, postingID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errCanceled()
		}
		return nil, err
	}

	return p.process(ctx, posting)
}

// process runs a loaded posting through normalize, extract and persist.
func (p *Processor) process(ctx context.Context, posting *jobtrack.Posting) (*jobtrack.Record, error) {
	if ctx.Err() != nil {
		return nil, errCanceled()
	}
	content := p.normalizers().Normalize(posting)

	x, err := retryUnavailable(ctx, p.RetryDelays, func(ctx context.Context) (*jobtrack.Extraction, error) {
		return p.extract(ctx, content)
	})
	if err != nil {
		return nil, err
	}

	if ctx.Err() != nil {
		return nil, errCanceled()
	}
	record := jobtrack.NewRecord(posting.ID, x)
	if err := p.Records.CreateRecord(ctx, record); err != nil {
		if ctx.Err() != nil {
			return nil, errCanceled()
		}
		return nil, err
	}
	return record, nil
}

// extract makes one completion call and classifies its failure.
func (p *Processor) extract(ctx context.Context, content string) (*jobtrack.Extraction, error) {
	if p.RateLimiter != nil {
		if err := p.RateLimiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, errCanceled()
			}
			return nil, jobtrack.Errorf(jobtrack.EUNAVAILABLE, "rate limiter: %v", err)
		}
	}
	if ctx.Err() != nil {
		return nil, errCanceled()
	}

	callCtx := ctx
	if timeout := p.timeout(); timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	x, err := p.Extractor.ExtractFields(callCtx, content)
	switch {
	case ctx.Err() != nil:
		return nil, errCanceled()
	case err == nil && x == nil:
		return nil, jobtrack.Errorf(jobtrack.EEXTRACT, "no extraction result")
	case err == nil:
		return x, nil
	case errors.Is(callCtx.Err(), context.DeadlineExceeded):
		return nil, jobtrack.Errorf(jobtrack.EUNAVAILABLE, "extraction timed out after %s", p.timeout())
	}

	switch jobtrack.ErrorCode(err) {
	case jobtrack.EUNAVAILABLE, jobtrack.EEXTRACT:
		return nil, err
	case jobtrack.ECANCELED:
		// The caller is still connected, so the service gave up on its own.
		return nil, jobtrack.Errorf(jobtrack.EUNAVAILABLE, "extraction aborted: %v", err)
	default:
		return nil, jobtrack.Errorf(jobtrack.EEXTRACT, "extraction failed: %v", err)
	}
}

func (p *Processor) timeout() time.Duration {
	if p.Timeout == 0 {
		return DefaultTimeout
	}
	return p.Timeout
}

func (p *Processor) normalizers() *jobtrack.NormalizerRegistry {
	if p.Normalizers == nil {
		return jobtrack.DefaultNormalizers()
	}
	return p.Normalizers
}

// recoverable reports whether a single posting's failure should be
// reported and skipped rather than abort the batch.
func recoverable(err error) bool {
	switch jobtrack.ErrorCode(err) {
	case jobtrack.EEXTRACT, jobtrack.EUNAVAILABLE, jobtrack.ECONFLICT, jobtrack.ENOTFOUND:
		return true
	}
	return false
}

// ProcessAll extracts records for every stored posting that does not have
// one yet, in the order the postings were received. Postings that already
// have a record are skipped without a completion call. A posting whose
// extraction fails is reported through progress and skipped.
//
// If ctx is canceled the run stops dispatching postings, aborts in-flight
// calls and returns the partial result with ECANCELED. A store failure while
// listing postings or checking for records stops the run with
// StatusFailed and the error.
func (p *Processor) ProcessAll(ctx context.Context, progress ProgressFunc) (*BatchResult, error) {
	result := &BatchResult{}

	postings, err := p.Postings.FindPostings(ctx, jobtrack.PostingFilter{})
	if err != nil {
		if ctx.Err() != nil {
			result.Status = StatusCanceled
			return result, errCanceled()
		}
		result.Status = StatusFailed
		return result, fmt.Errorf("list postings: %w", err)
	}

	total := len(postings)
	var mu sync.Mutex
	var completed int
	var canceled bool

	// report updates the counters and calls progress under one lock so
	// events arrive in a consistent order.
	report := func(event ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()

		switch event.Type {
		case ProgressSkipped:
			result.Skipped++
		case ProgressSaved:
			result.Processed++
		case ProgressFailed:
			result.Failed++
		}
		if event.Type != ProgressStarted && event.Type != ProgressFinished {
			completed++
		}
		event.Completed = completed
		event.Total = total
		if progress != nil {
			progress(event)
		}
	}
	markCanceled := func() {
		mu.Lock()
		canceled = true
		mu.Unlock()
	}

	report(ProgressEvent{Type: ProgressStarted})

	concurrency := p.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, posting := range postings {
		if ctx.Err() != nil {
			markCanceled()
			break
		}
		if gctx.Err() != nil {
			break
		}

		posting := posting
		g.Go(func() error {
			// Cancellation may arrive while this posting waits for a free worker.
			if gctx.Err() != nil {
				if ctx.Err() != nil {
					markCanceled()
				}
				return nil
			}

			exists, err := p.hasRecord(gctx, posting.ID)
			if err != nil {
				if ctx.Err() != nil {
					markCanceled()
					return nil
				}
				return fmt.Errorf("check record for posting %s: %w", posting.ID, err)
			}
			if exists {
				report(ProgressEvent{Type: ProgressSkipped, PostingID: posting.ID})
				return nil
			}

			record, err := p.process(gctx, posting)
			switch {
			case err == nil:
				report(ProgressEvent{Type: ProgressSaved, PostingID: posting.ID, RecordID: record.ID})
			case jobtrack.ErrorCode(err) == jobtrack.ECANCELED:
				if ctx.Err() != nil {
					markCanceled()
				}
			case recoverable(err):
				report(ProgressEvent{Type: ProgressFailed, PostingID: posting.ID, Error: err})
			default:
				return fmt.Errorf("process posting %s: %w", posting.ID, err)
			}
			return nil
		})
	}

	werr := g.Wait()

	mu.Lock()
	switch {
	case werr != nil:
		result.Status = StatusFailed
	case canceled || ctx.Err() != nil && completed < total:
		result.Status = StatusCanceled
	default:
		result.Status = StatusSuccess
	}
	mu.Unlock()

	report(ProgressEvent{Type: ProgressFinished})

	switch result.Status {
	case StatusFailed:
		return result, werr
	case StatusCanceled:
		return result, errCanceled()
	}
	return result, nil
}

// hasRecord reports whether a record already exists for the posting.
func (p *Processor) hasRecord(ctx context.Context, postingID string) (bool, error) {
	records, err := p.Records.FindRecords(ctx, jobtrack.RecordFilter{PostingID: &postingID, Limit: 1})
	if err != nil {
		return false, err
	}
	return len(records) > 0, nil
}
