package jobtrack

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"slices"
	"strings"
)

// Extraction holds the fields a completion service extracted from one
// normalized posting. A non-nil Extraction returned by DecodeExtraction or a
// FieldExtractor always carries every required field.
type Extraction struct {
	Company          string          `json:"COMPANY"`
	Title            string          `json:"TITLE"`
	Salary           string          `json:"SALARY"`
	Location         string          `json:"LOCATION"`
	Experience       []float64       `json:"EXPERIENCE"`
	Education        []string        `json:"EDUCATION"`
	Skills           []string        `json:"SKILL"`
	WorkArrangement  WorkArrangement `json:"WORK_ARRANGEMENT"`
	WorkLocation     WorkLocation    `json:"WORK_LOCATION"`
	Responsibilities []string        `json:"RESPONSIBILITIES"`
}

// FieldExtractor sends normalized posting content to a structured-completion
// service and returns the validated result.
type FieldExtractor interface {
	// ExtractFields returns the schema fields found in content.
	// Returns ECANCELED if ctx is canceled (the request is aborted),
	// EUNAVAILABLE if the service call fails, and EEXTRACT if the
	// response does not satisfy the schema.
	ExtractFields(ctx context.Context, content string) (*Extraction, error)
}

// SchemaName is the name under which the extraction schema is declared.
const SchemaName = "job_details"

// SchemaDescription describes the declared extraction schema.
const SchemaDescription = "Extracted job details in a structured JSON format"

// SystemInstruction is sent with every extraction request.
const SystemInstruction = `Extract the following entities from the job posting text:
{
  "COMPANY": "The company name",
  "TITLE": "Job title",
  "SALARY": "Salary information",
  "LOCATION": "Location",
  "EXPERIENCE": "List of experience levels (in years)",
  "EDUCATION": ["Array of educational qualifications"],
  "SKILL": ["List of required skills (concise entities)"],
  "WORK_LOCATION": "Remote, Onsite, Hybrid, or None",
  "WORK_ARRANGEMENT": "Full-time, Part-time, Internship, Contract, or None"
}
Use "None" if "WORK_LOCATION" or "WORK_ARRANGEMENT" is not mentioned.`

// FieldKind is the JSON type of a schema field.
type FieldKind int

// FieldKind values.
const (
	KindString FieldKind = iota
	KindStringArray
	KindNumberArray
	KindEnum
)

// SchemaField describes one required field of the extraction schema.
type SchemaField struct {
	Name        string
	Description string
	Kind        FieldKind
	Enum        []string
}

// ExtractionSchema lists the required fields in declaration order.
// Backends translate it into their own schema representation.
var ExtractionSchema = []SchemaField{
	{Name: "COMPANY", Description: "The name of the company offering the job", Kind: KindString},
	{Name: "TITLE", Description: "The title of the job position", Kind: KindString},
	{Name: "SALARY", Description: "The salary range or amount for the job", Kind: KindString},
	{Name: "LOCATION", Description: "The location where the job is based", Kind: KindString},
	{Name: "EXPERIENCE", Description: "Minimum number of years of relevant experience required, specified as an array of numbers", Kind: KindNumberArray},
	{Name: "EDUCATION", Description: "Educational qualifications required for the job, specified as an array of strings", Kind: KindStringArray},
	{Name: "SKILL", Description: "Key skills required for the job, specified as an array of strings", Kind: KindStringArray},
	{Name: "WORK_ARRANGEMENT", Description: "The work arrangement (e.g., full-time, contract)", Kind: KindEnum, Enum: workArrangementNames()},
	{Name: "WORK_LOCATION", Description: "The work location (e.g., on-site, remote, hybrid)", Kind: KindEnum, Enum: workLocationNames()},
	{Name: "RESPONSIBILITIES", Description: "List of main responsibilities of the job role, specified as an array of strings", Kind: KindStringArray},
}

// RequiredFields returns the names of all schema fields.
func RequiredFields() []string {
	names := make([]string, len(ExtractionSchema))
	for i, f := range ExtractionSchema {
		names[i] = f.Name
	}
	return names
}

func workArrangementNames() []string {
	names := make([]string, len(WorkArrangements))
	for i, v := range WorkArrangements {
		names[i] = string(v)
	}
	return names
}

func workLocationNames() []string {
	names := make([]string, len(WorkLocations))
	for i, v := range WorkLocations {
		names[i] = string(v)
	}
	return names
}

// ParseStage identifies which stage of DecodeExtraction produced a result.
type ParseStage int

// ParseStage values.
const (
	StageNone ParseStage = iota
	StageFenced
	StageRaw
)

// ParseResult is the tagged outcome of one parse stage.
type ParseResult struct {
	Stage      ParseStage
	Extraction *Extraction
	Err        error
}

// OK reports whether the stage produced a valid extraction.
func (r ParseResult) OK() bool {
	return r.Err == nil && r.Extraction != nil
}

var fencedJSONRe = regexp.MustCompile("(?s)```json(.*?)```")

// ParseExtraction runs the fenced stage and then, if it did not succeed, the
// raw stage over a completion message body.
func ParseExtraction(body string) ParseResult {
	if r := tryFencedParse(body); r.OK() {
		return r
	}
	return tryRawParse(body)
}

// DecodeExtraction parses a completion message body that is either a JSON
// object or a JSON object wrapped in a ```json fenced block.
// Returns EEXTRACT if neither form yields a schema-valid object.
func DecodeExtraction(body string) (*Extraction, error) {
	r := ParseExtraction(body)
	if !r.OK() {
		return nil, r.Err
	}
	return r.Extraction, nil
}

func tryFencedParse(body string) ParseResult {
	m := fencedJSONRe.FindStringSubmatch(body)
	if m == nil {
		return ParseResult{Stage: StageFenced, Err: Errorf(EEXTRACT, "no fenced JSON block")}
	}
	x, err := decodeStrict(strings.TrimSpace(m[1]))
	return ParseResult{Stage: StageFenced, Extraction: x, Err: err}
}

func tryRawParse(body string) ParseResult {
	x, err := decodeStrict(strings.TrimSpace(body))
	return ParseResult{Stage: StageRaw, Extraction: x, Err: err}
}

// decodeStrict enforces the declared schema: every required field present and
// non-null, no additional fields, enum values in range.
func decodeStrict(s string) (*Extraction, error) {
	if s == "" {
		return nil, Errorf(EEXTRACT, "empty response")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &fields); err != nil {
		return nil, Errorf(EEXTRACT, "response is not a JSON object: %v", err)
	}
	required := RequiredFields()
	if len(fields) != len(required) {
		for name := range fields {
			if !slices.Contains(required, name) {
				return nil, Errorf(EEXTRACT, "unexpected field %s", name)
			}
		}
	}
	for _, name := range required {
		raw, ok := fields[name]
		if !ok {
			return nil, Errorf(EEXTRACT, "missing required field %s", name)
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, Errorf(EEXTRACT, "required field %s is null", name)
		}
	}

	dec := json.NewDecoder(strings.NewReader(s))
	dec.DisallowUnknownFields()
	var x Extraction
	if err := dec.Decode(&x); err != nil {
		return nil, Errorf(EEXTRACT, "response does not match schema: %v", err)
	}

	if !x.WorkLocation.Valid() {
		return nil, Errorf(EEXTRACT, "invalid WORK_LOCATION %q", x.WorkLocation)
	}
	if !x.WorkArrangement.Valid() {
		return nil, Errorf(EEXTRACT, "invalid WORK_ARRANGEMENT %q", x.WorkArrangement)
	}

	return &x, nil
}
