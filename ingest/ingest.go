// Package ingest imports job postings from web pages.
package ingest

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/fwojciec/jobtrack"
)

// Importer fetches a job page, reduces it to the posting text and stores it
// as a web posting.
type Importer struct {
	Postings  jobtrack.PostingService
	Fetcher   jobtrack.Fetcher
	Extractor jobtrack.PageExtractor
	Converter jobtrack.Converter
	Inspector jobtrack.PageInspector

	// Fallback, if set, is tried when Extractor finds no main content.
	Fallback jobtrack.PageExtractor

	// Browser, if set, is used instead of Fetcher when an import asks for
	// JavaScript rendering.
	Browser jobtrack.Fetcher
}

// ImportOptions controls a single import.
type ImportOptions struct {
	// Browser renders the page in a browser before extraction.
	Browser bool
}

// Import fetches rawURL and stores the posting found on it.
//
// The stored content starts with a "URL: <url>" line using the page's
// canonical URL when it declares one, followed by the page title and the
// main content as Markdown.
//
// Returns EINVALID for a non-HTTP URL or a page without main content.
func (i *Importer) Import(ctx context.Context, rawURL string, opts ImportOptions) (*jobtrack.Posting, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, jobtrack.Errorf(jobtrack.EINVALID, "invalid url %q: must be an absolute http(s) URL", rawURL)
	}

	fetcher := i.Fetcher
	if opts.Browser {
		if i.Browser == nil {
			return nil, jobtrack.Errorf(jobtrack.EINVALID, "browser rendering is not available")
		}
		fetcher = i.Browser
	}

	html, err := fetcher.Fetch(ctx, u.String())
	if err != nil {
		return nil, err
	}

	page, err := i.extract(html)
	if err != nil {
		return nil, err
	}

	markdown, err := i.Converter.Convert(page.ContentHTML)
	if err != nil {
		return nil, err
	}

	meta, err := i.Inspector.Inspect(html)
	if err != nil {
		return nil, err
	}

	posting := &jobtrack.Posting{
		Content: FormatContent(resolveCanonical(u, meta.CanonicalURL), firstNonEmpty(meta.Title, page.Title), markdown),
		Source:  jobtrack.SourceWeb,
	}
	if err := i.Postings.CreatePosting(ctx, posting); err != nil {
		return nil, err
	}
	return posting, nil
}

func (i *Importer) extract(html string) (*jobtrack.PageContent, error) {
	page, err := i.Extractor.Extract(html)
	if err != nil && i.Fallback != nil && jobtrack.ErrorCode(err) == jobtrack.EINVALID {
		return i.Fallback.Extract(html)
	}
	return page, err
}

// FormatContent lays out imported posting content so that PlainPolicy
// recovers the URL and keeps the title and body as the job text.
func FormatContent(pageURL, title, body string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "URL: %s\n", pageURL)
	if title != "" && !strings.Contains(body, title) {
		sb.WriteString(title)
		sb.WriteString("\n\n")
	}
	sb.WriteString(body)
	return sb.String()
}

// resolveCanonical resolves a canonical link against the fetched URL,
// keeping the fetched URL when the link is absent or unusable.
func resolveCanonical(base *url.URL, canonical string) string {
	if canonical == "" {
		return base.String()
	}
	ref, err := url.Parse(canonical)
	if err != nil {
		return base.String()
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return base.String()
	}
	return resolved.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
