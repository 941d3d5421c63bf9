package htmltomarkdown_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/jobtrack"
	"github.com/fwojciec/jobtrack/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements jobtrack.Converter at compile time.
var _ jobtrack.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts paragraphs and headings", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<h1>Go Engineer</h1><p>Acme is hiring.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "# Go Engineer")
		assert.Contains(t, md, "Acme is hiring.")
	})

	t.Run("converts requirement lists", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<ul><li>3+ years Go</li><li>SQL</li></ul>`)

		require.NoError(t, err)
		assert.Contains(t, md, "- 3+ years Go")
		assert.Contains(t, md, "- SQL")
	})

	t.Run("converts salary tables", func(t *testing.T) {
		t.Parallel()

		html := `<table><thead><tr><th>Level</th><th>Salary</th></tr></thead>
<tbody><tr><td>Senior</td><td>$150k</td></tr></tbody></table>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "| Level")
		assert.Contains(t, md, "$150k")
	})

	t.Run("converts bold and italic", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p><strong>Remote</strong> or <em>hybrid</em></p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "**Remote**")
		assert.Contains(t, md, "*hybrid*")
	})

	t.Run("collapses blank runs and trims", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert("\n\n<div><p>one</p>\n\n\n\n<div></div><p>two</p></div>\n\n")

		require.NoError(t, err)
		assert.NotContains(t, md, "\n\n\n")
		assert.True(t, strings.HasPrefix(md, "one"))
		assert.True(t, strings.HasSuffix(md, "two"))
	})

	t.Run("returns EINVALID for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert("   ")

		require.Error(t, err)
		assert.Equal(t, jobtrack.EINVALID, jobtrack.ErrorCode(err))
	})
}
