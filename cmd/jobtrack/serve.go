package main

import (
	"fmt"

	jthttp "github.com/fwojciec/jobtrack/http"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s := jthttp.NewServer()
	s.Addr = c.Addr
	s.Logger = deps.Logger
	s.PostingService = deps.Postings
	s.RecordService = deps.Records
	s.Processor = deps.Processor
	s.Importer = deps.Importer

	if err := s.Open(); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", s.URL())

	<-deps.Ctx.Done()
	return s.Close()
}
