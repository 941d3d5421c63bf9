package jobtrack_test

import (
	"testing"

	"github.com/fwojciec/jobtrack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validExtractionJSON = `{
  "COMPANY": "Acme",
  "TITLE": "Backend Engineer",
  "SALARY": "$100k - $150k",
  "LOCATION": "Berlin",
  "EXPERIENCE": [3, 5],
  "EDUCATION": ["BSc Computer Science"],
  "SKILL": ["Go", "PostgreSQL"],
  "WORK_ARRANGEMENT": "Full-time",
  "WORK_LOCATION": "Hybrid",
  "RESPONSIBILITIES": ["Build APIs"]
}`

func TestDecodeExtraction(t *testing.T) {
	t.Parallel()

	t.Run("decodes raw JSON object", func(t *testing.T) {
		t.Parallel()

		x, err := jobtrack.DecodeExtraction(validExtractionJSON)

		require.NoError(t, err)
		assert.Equal(t, "Acme", x.Company)
		assert.Equal(t, "Backend Engineer", x.Title)
		assert.Equal(t, "$100k - $150k", x.Salary)
		assert.Equal(t, "Berlin", x.Location)
		assert.Equal(t, []float64{3, 5}, x.Experience)
		assert.Equal(t, []string{"BSc Computer Science"}, x.Education)
		assert.Equal(t, []string{"Go", "PostgreSQL"}, x.Skills)
		assert.Equal(t, jobtrack.WorkArrangementFullTime, x.WorkArrangement)
		assert.Equal(t, jobtrack.WorkLocationHybrid, x.WorkLocation)
		assert.Equal(t, []string{"Build APIs"}, x.Responsibilities)
	})

	t.Run("fenced block parses the same as raw JSON", func(t *testing.T) {
		t.Parallel()

		raw, err := jobtrack.DecodeExtraction(validExtractionJSON)
		require.NoError(t, err)

		fenced, err := jobtrack.DecodeExtraction("Here you go:\n```json\n" + validExtractionJSON + "\n```\nAnything else?")
		require.NoError(t, err)

		assert.Equal(t, raw, fenced)
	})

	t.Run("reports which stage parsed the body", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, jobtrack.StageRaw, jobtrack.ParseExtraction(validExtractionJSON).Stage)
		assert.Equal(t, jobtrack.StageFenced, jobtrack.ParseExtraction("```json"+validExtractionJSON+"```").Stage)
	})

	t.Run("accepts None for enum fields", func(t *testing.T) {
		t.Parallel()

		body := `{"COMPANY":"","TITLE":"","SALARY":"","LOCATION":"","EXPERIENCE":[],"EDUCATION":[],"SKILL":[],"WORK_ARRANGEMENT":"None","WORK_LOCATION":"None","RESPONSIBILITIES":[]}`

		x, err := jobtrack.DecodeExtraction(body)

		require.NoError(t, err)
		assert.Equal(t, jobtrack.WorkArrangementNone, x.WorkArrangement)
		assert.Equal(t, jobtrack.WorkLocationNone, x.WorkLocation)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		x, err := jobtrack.DecodeExtraction(`{"COMPANY": "Acme",`)

		require.Error(t, err)
		assert.Nil(t, x)
		assert.Equal(t, jobtrack.EEXTRACT, jobtrack.ErrorCode(err))
	})

	t.Run("rejects empty body", func(t *testing.T) {
		t.Parallel()

		_, err := jobtrack.DecodeExtraction("   ")

		require.Error(t, err)
		assert.Equal(t, jobtrack.EEXTRACT, jobtrack.ErrorCode(err))
	})

	t.Run("rejects missing required field", func(t *testing.T) {
		t.Parallel()

		body := `{"COMPANY":"Acme","TITLE":"Dev","SALARY":"","LOCATION":"","EXPERIENCE":[],"EDUCATION":[],"SKILL":[],"WORK_ARRANGEMENT":"None","WORK_LOCATION":"None"}`

		_, err := jobtrack.DecodeExtraction(body)

		require.Error(t, err)
		assert.Contains(t, jobtrack.ErrorMessage(err), "RESPONSIBILITIES")
	})

	t.Run("rejects null required field", func(t *testing.T) {
		t.Parallel()

		body := `{"COMPANY":null,"TITLE":"Dev","SALARY":"","LOCATION":"","EXPERIENCE":[],"EDUCATION":[],"SKILL":[],"WORK_ARRANGEMENT":"None","WORK_LOCATION":"None","RESPONSIBILITIES":[]}`

		_, err := jobtrack.DecodeExtraction(body)

		require.Error(t, err)
		assert.Contains(t, jobtrack.ErrorMessage(err), "COMPANY")
	})

	t.Run("rejects additional fields", func(t *testing.T) {
		t.Parallel()

		body := `{"COMPANY":"Acme","TITLE":"Dev","SALARY":"","LOCATION":"","EXPERIENCE":[],"EDUCATION":[],"SKILL":[],"WORK_ARRANGEMENT":"None","WORK_LOCATION":"None","RESPONSIBILITIES":[],"BONUS":"yes"}`

		_, err := jobtrack.DecodeExtraction(body)

		require.Error(t, err)
		assert.Equal(t, jobtrack.EEXTRACT, jobtrack.ErrorCode(err))
	})

	t.Run("rejects field differing only in case", func(t *testing.T) {
		t.Parallel()

		body := `{"COMPANY":"Acme","company":"Other","TITLE":"Dev","SALARY":"","LOCATION":"","EXPERIENCE":[],"EDUCATION":[],"SKILL":[],"WORK_ARRANGEMENT":"None","WORK_LOCATION":"None","RESPONSIBILITIES":[]}`

		x, err := jobtrack.DecodeExtraction(body)

		require.Error(t, err)
		assert.Nil(t, x)
		assert.Equal(t, jobtrack.EEXTRACT, jobtrack.ErrorCode(err))
		assert.Contains(t, jobtrack.ErrorMessage(err), "company")
	})

	t.Run("rejects out-of-range enum value", func(t *testing.T) {
		t.Parallel()

		body := `{"COMPANY":"Acme","TITLE":"Dev","SALARY":"","LOCATION":"","EXPERIENCE":[],"EDUCATION":[],"SKILL":[],"WORK_ARRANGEMENT":"Gig","WORK_LOCATION":"None","RESPONSIBILITIES":[]}`

		_, err := jobtrack.DecodeExtraction(body)

		require.Error(t, err)
		assert.Contains(t, jobtrack.ErrorMessage(err), "WORK_ARRANGEMENT")
	})

	t.Run("rejects experience given as strings", func(t *testing.T) {
		t.Parallel()

		body := `{"COMPANY":"Acme","TITLE":"Dev","SALARY":"","LOCATION":"","EXPERIENCE":["3 years"],"EDUCATION":[],"SKILL":[],"WORK_ARRANGEMENT":"None","WORK_LOCATION":"None","RESPONSIBILITIES":[]}`

		_, err := jobtrack.DecodeExtraction(body)

		require.Error(t, err)
		assert.Equal(t, jobtrack.EEXTRACT, jobtrack.ErrorCode(err))
	})

	t.Run("falls back to raw parse when fenced block is invalid", func(t *testing.T) {
		t.Parallel()

		r := jobtrack.ParseExtraction("```json\nnot json\n```")

		assert.False(t, r.OK())
		assert.Equal(t, jobtrack.StageRaw, r.Stage)
	})
}

func TestRequiredFields(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		"COMPANY", "TITLE", "SALARY", "LOCATION", "EXPERIENCE", "EDUCATION",
		"SKILL", "WORK_ARRANGEMENT", "WORK_LOCATION", "RESPONSIBILITIES",
	}, jobtrack.RequiredFields())
}
