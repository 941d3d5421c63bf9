// Package readability implements jobtrack.PageExtractor with go-readability.
// It is the importer's fallback for pages trafilatura finds no content in.
package readability

import (
	"strings"

	"github.com/fwojciec/jobtrack"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements jobtrack.PageExtractor at compile time.
var _ jobtrack.PageExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main content of a page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the title and main content of rawHTML.
// Returns EINVALID for empty input or a page without readable content.
func (e *Extractor) Extract(rawHTML string) (*jobtrack.PageContent, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, jobtrack.Errorf(jobtrack.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, jobtrack.Errorf(jobtrack.EINVALID, "extracting readable content: %v", err)
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return nil, jobtrack.Errorf(jobtrack.EINVALID, "no readable content found")
	}

	return &jobtrack.PageContent{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
