// Package gemini implements jobtrack.FieldExtractor using Google Gemini.
package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/jobtrack"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure FieldExtractor implements jobtrack.FieldExtractor at compile time.
var _ jobtrack.FieldExtractor = (*FieldExtractor)(nil)

// FieldExtractor implements jobtrack.FieldExtractor using structured output.
type FieldExtractor struct {
	client *genai.Client
	model  string
}

// NewFieldExtractor creates a new FieldExtractor.
func NewFieldExtractor(client *genai.Client, model string) *FieldExtractor {
	if model == "" {
		model = DefaultModel
	}
	return &FieldExtractor{client: client, model: model}
}

// ExtractFields implements jobtrack.FieldExtractor.
func (e *FieldExtractor) ExtractFields(ctx context.Context, content string) (*jobtrack.Extraction, error) {
	result, err := e.client.Models.GenerateContent(ctx, e.model,
		[]*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: strings.TrimSpace(content)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, jobtrack.Errorf(jobtrack.ECANCELED, "gemini request aborted: %v", ctx.Err())
		}
		return nil, jobtrack.Errorf(jobtrack.EUNAVAILABLE, "gemini: %v", err)
	}
	if result == nil {
		return nil, jobtrack.Errorf(jobtrack.EEXTRACT, "gemini returned nil result")
	}

	return jobtrack.DecodeExtraction(result.Text())
}

// BuildConfig returns the GenerateContentConfig for extraction calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: jobtrack.SystemInstruction}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema:   BuildSchema(),
	}
}

// BuildSchema translates jobtrack.ExtractionSchema into a genai schema.
func BuildSchema() *genai.Schema {
	props := make(map[string]*genai.Schema, len(jobtrack.ExtractionSchema))
	for _, f := range jobtrack.ExtractionSchema {
		s := &genai.Schema{Description: f.Description}
		switch f.Kind {
		case jobtrack.KindStringArray:
			s.Type = genai.TypeArray
			s.Items = &genai.Schema{Type: genai.TypeString}
		case jobtrack.KindNumberArray:
			s.Type = genai.TypeArray
			s.Items = &genai.Schema{Type: genai.TypeNumber}
		case jobtrack.KindEnum:
			s.Type = genai.TypeString
			s.Format = "enum"
			s.Enum = f.Enum
		default:
			s.Type = genai.TypeString
		}
		props[f.Name] = s
	}
	return &genai.Schema{
		Type:             genai.TypeObject,
		Title:            jobtrack.SchemaName,
		Description:      jobtrack.SchemaDescription,
		Properties:       props,
		Required:         jobtrack.RequiredFields(),
		PropertyOrdering: jobtrack.RequiredFields(),
	}
}
