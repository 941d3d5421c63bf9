// Package trafilatura implements jobtrack.PageExtractor with go-trafilatura,
// reducing an imported job page to the posting itself.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/jobtrack"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements jobtrack.PageExtractor at compile time.
var _ jobtrack.PageExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main content of a page.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor. The readability and domdistiller
// fallbacks are enabled since job boards rarely use article markup.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback:  true,
			ExcludeComments: true,
		},
	}
}

// Extract returns the title and main content of rawHTML.
// Returns EINVALID for empty input or a page without main content.
func (e *Extractor) Extract(rawHTML string) (*jobtrack.PageContent, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, jobtrack.Errorf(jobtrack.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, jobtrack.Errorf(jobtrack.EINVALID, "extracting main content: %v", err)
	}
	if result == nil || result.ContentNode == nil {
		return nil, jobtrack.Errorf(jobtrack.EINVALID, "no main content found")
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, err
	}

	return &jobtrack.PageContent{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
