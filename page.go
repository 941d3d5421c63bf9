package jobtrack

import "context"

// Fetcher downloads a job page for import. Plain HTTP and headless-browser
// implementations are interchangeable.
type Fetcher interface {
	// Fetch returns the HTML served at url.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases connections or browser processes.
	Close() error
}

// PageContent is the part of a job page that holds the posting.
type PageContent struct {
	Title string

	// ContentHTML has navigation, footers, sidebars and ads stripped.
	ContentHTML string
}

// PageExtractor reduces a job page to the posting itself.
// Returns EINVALID if the page has no recognizable main content.
type PageExtractor interface {
	Extract(html string) (*PageContent, error)
}

// Converter renders posting HTML as Markdown text for storage.
type Converter interface {
	Convert(html string) (string, error)
}

// PageMeta holds document-level metadata read from an HTML page.
type PageMeta struct {
	// CanonicalURL is the page's canonical link, if declared.
	CanonicalURL string

	// Title is taken from og:title or the title element.
	Title string
}

// PageInspector reads metadata from an HTML page.
type PageInspector interface {
	Inspect(html string) (*PageMeta, error)
}
