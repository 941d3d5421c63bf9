package mock

import (
	"context"

	"github.com/fwojciec/jobtrack"
)

// Compile-time interface verification.
var (
	_ jobtrack.Fetcher       = (*Fetcher)(nil)
	_ jobtrack.PageExtractor = (*PageExtractor)(nil)
	_ jobtrack.Converter     = (*Converter)(nil)
	_ jobtrack.PageInspector = (*PageInspector)(nil)
)

// Fetcher stands in for the HTTP or browser page fetcher used by imports.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

// Close returns nil when CloseFn is unset.
func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

// PageExtractor stands in for the main-content extractor.
type PageExtractor struct {
	ExtractFn func(html string) (*jobtrack.PageContent, error)
}

func (e *PageExtractor) Extract(html string) (*jobtrack.PageContent, error) {
	return e.ExtractFn(html)
}

// Converter stands in for the posting HTML to Markdown converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// PageInspector stands in for the canonical URL and title reader.
type PageInspector struct {
	InspectFn func(html string) (*jobtrack.PageMeta, error)
}

func (i *PageInspector) Inspect(html string) (*jobtrack.PageMeta, error) {
	return i.InspectFn(html)
}
