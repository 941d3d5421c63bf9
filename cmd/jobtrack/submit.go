package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/jobtrack"
	"github.com/fwojciec/jobtrack/ingest"
)

// Run executes the submit command.
func (c *SubmitCmd) Run(deps *Dependencies) error {
	r := deps.Stdin
	if c.File != "" && c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		defer f.Close()
		r = f
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read posting: %w", err)
	}

	posting := &jobtrack.Posting{Content: string(content), Source: jobtrack.Source(c.Source)}
	if err := deps.Postings.CreatePosting(deps.Ctx, posting); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobtrack.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Created posting %s\n", posting.ID)
	return nil
}

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	posting, err := deps.Importer.Import(deps.Ctx, c.URL, ingest.ImportOptions{Browser: c.Browser})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobtrack.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Imported posting %s from %s\n", posting.ID, c.URL)
	return nil
}
