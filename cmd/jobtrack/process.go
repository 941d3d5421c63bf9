package main

import (
	"fmt"

	"github.com/fwojciec/jobtrack"
	"github.com/fwojciec/jobtrack/extract"
)

// Run executes the process command.
func (c *ProcessCmd) Run(deps *Dependencies) error {
	record, err := deps.Processor.ProcessPosting(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobtrack.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved record %s: %s at %s\n", record.ID, record.Title, record.Company)
	return nil
}

// Run executes the process-all command.
func (c *ProcessAllCmd) Run(deps *Dependencies) error {
	progress := func(e extract.ProgressEvent) {
		switch e.Type {
		case extract.ProgressSaved:
			fmt.Fprintf(deps.Stderr, "[%d/%d] saved %s\n", e.Completed, e.Total, e.PostingID)
		case extract.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "[%d/%d] failed %s: %s\n", e.Completed, e.Total, e.PostingID, jobtrack.ErrorMessage(e.Error))
		}
	}

	result, err := deps.Processor.ProcessAll(deps.Ctx, progress)
	if result != nil {
		fmt.Fprintf(deps.Stdout, "%s: processed %d, skipped %d, failed %d\n", result.Status, result.Processed, result.Skipped, result.Failed)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobtrack.ErrorMessage(err))
		return err
	}
	return nil
}
