package mock

import (
	"context"

	"github.com/fwojciec/jobtrack"
	"github.com/fwojciec/jobtrack/extract"
	"github.com/fwojciec/jobtrack/ingest"
)

// Processor is a mock of the extraction runner used by the server and CLI.
type Processor struct {
	ProcessPostingFn func(ctx context.Context, postingID string) (*jobtrack.Record, error)
	ProcessAllFn     func(ctx context.Context, progress extract.ProgressFunc) (*extract.BatchResult, error)
}

func (p *Processor) ProcessPosting(ctx context.Context, postingID string) (*jobtrack.Record, error) {
	return p.ProcessPostingFn(ctx, postingID)
}

func (p *Processor) ProcessAll(ctx context.Context, progress extract.ProgressFunc) (*extract.BatchResult, error) {
	return p.ProcessAllFn(ctx, progress)
}

// Importer is a mock of the URL importer used by the server and CLI.
type Importer struct {
	ImportFn func(ctx context.Context, rawURL string, opts ingest.ImportOptions) (*jobtrack.Posting, error)
}

func (i *Importer) Import(ctx context.Context, rawURL string, opts ingest.ImportOptions) (*jobtrack.Posting, error) {
	return i.ImportFn(ctx, rawURL, opts)
}
