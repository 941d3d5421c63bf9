// Package goquery implements jobtrack.PageInspector with goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/jobtrack"
)

// Ensure Inspector implements jobtrack.PageInspector at compile time.
var _ jobtrack.PageInspector = (*Inspector)(nil)

// Inspector reads the canonical URL and title of a page.
type Inspector struct{}

// NewInspector creates a new Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Inspect returns the page's metadata. Missing values are empty.
//
// The canonical URL comes from link[rel=canonical], falling back to og:url.
// The title comes from og:title, falling back to the title element.
func (i *Inspector) Inspect(html string) (*jobtrack.PageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, jobtrack.Errorf(jobtrack.EINVALID, "failed to parse HTML: %v", err)
	}

	return &jobtrack.PageMeta{
		CanonicalURL: firstNonEmpty(
			attr(doc, `link[rel="canonical"]`, "href"),
			attr(doc, `meta[property="og:url"]`, "content"),
		),
		Title: firstNonEmpty(
			attr(doc, `meta[property="og:title"]`, "content"),
			strings.TrimSpace(doc.Find("title").First().Text()),
		),
	}, nil
}

func attr(doc *goquery.Document, selector, name string) string {
	v, _ := doc.Find(selector).First().Attr(name)
	return strings.TrimSpace(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
