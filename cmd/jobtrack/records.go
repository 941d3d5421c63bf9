package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/jobtrack"
)

// Run executes the records command.
func (c *RecordsCmd) Run(deps *Dependencies) error {
	records, err := deps.Records.FindRecords(deps.Ctx, jobtrack.RecordFilter{Limit: c.Limit, Offset: c.Offset})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobtrack.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No records found. Use 'jobtrack process-all' to extract some.")
		return nil
	}

	for _, r := range records {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n", r.ID, r.ProcessedAt.Format("2006-01-02"), r.Company, r.Title)
	}
	return nil
}

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	r, err := deps.Records.FindRecordByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobtrack.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	fmt.Fprintf(deps.Stdout, "Company:          %s\n", r.Company)
	fmt.Fprintf(deps.Stdout, "Title:            %s\n", r.Title)
	fmt.Fprintf(deps.Stdout, "Salary:           %s\n", r.Salary)
	fmt.Fprintf(deps.Stdout, "Location:         %s\n", r.Location)
	fmt.Fprintf(deps.Stdout, "Work location:    %s\n", r.WorkLocation)
	fmt.Fprintf(deps.Stdout, "Work arrangement: %s\n", r.WorkArrangement)
	fmt.Fprintf(deps.Stdout, "Experience:       %s\n", formatYears(r.Experience))
	fmt.Fprintf(deps.Stdout, "Education:        %s\n", strings.Join(r.Education, "; "))
	fmt.Fprintf(deps.Stdout, "Skills:           %s\n", strings.Join(r.Skills, ", "))
	if len(r.Responsibilities) > 0 {
		fmt.Fprintln(deps.Stdout, "Responsibilities:")
		for _, s := range r.Responsibilities {
			fmt.Fprintf(deps.Stdout, "  - %s\n", s)
		}
	}
	return nil
}

func formatYears(years []float64) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = fmt.Sprintf("%g", y)
	}
	return strings.Join(parts, ", ")
}
