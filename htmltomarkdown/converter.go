// Package htmltomarkdown implements jobtrack.Converter with html-to-markdown.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/jobtrack"
)

// Ensure Converter implements jobtrack.Converter at compile time.
var _ jobtrack.Converter = (*Converter)(nil)

var blankRunRe = regexp.MustCompile(`\n{3,}`)

// Converter turns extracted posting HTML into Markdown text suitable as
// posting content.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter. Tables are kept since postings
// often list benefits or salary bands in them.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML into Markdown with runs of blank lines collapsed.
// Returns EINVALID for empty input or input with no text.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", jobtrack.Errorf(jobtrack.EINVALID, "empty HTML input")
	}

	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", jobtrack.Errorf(jobtrack.EINVALID, "converting HTML: %v", err)
	}

	md = strings.TrimSpace(blankRunRe.ReplaceAllString(md, "\n\n"))
	if md == "" {
		return "", jobtrack.Errorf(jobtrack.EINVALID, "no text in HTML input")
	}
	return md, nil
}
