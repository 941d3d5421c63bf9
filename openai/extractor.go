// Package openai implements jobtrack.FieldExtractor against any
// OpenAI-compatible chat completion endpoint, such as a local LM Studio server.
package openai

import (
	"context"
	"strings"

	"github.com/fwojciec/jobtrack"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Defaults match a local LM Studio server.
const (
	DefaultBaseURL = "http://localhost:1234/v1"
	DefaultToken   = "lm-studio"
	DefaultModel   = "gemma-2-9b-it"
)

// Ensure FieldExtractor implements jobtrack.FieldExtractor at compile time.
var _ jobtrack.FieldExtractor = (*FieldExtractor)(nil)

// FieldExtractor implements jobtrack.FieldExtractor over a chat completion
// endpoint that supports json_schema response formats.
type FieldExtractor struct {
	llm llms.Model
}

// NewFieldExtractor creates a FieldExtractor for the endpoint at baseURL.
// Empty arguments fall back to the defaults.
func NewFieldExtractor(baseURL, token, model string, opts ...openai.Option) (*FieldExtractor, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if token == "" {
		token = DefaultToken
	}
	if model == "" {
		model = DefaultModel
	}

	options := append([]openai.Option{
		openai.WithBaseURL(baseURL),
		openai.WithToken(token),
		openai.WithModel(model),
		openai.WithResponseFormat(ResponseFormat()),
	}, opts...)

	llm, err := openai.New(options...)
	if err != nil {
		return nil, jobtrack.Errorf(jobtrack.EINVALID, "openai client: %v", err)
	}
	return &FieldExtractor{llm: llm}, nil
}

// ExtractFields implements jobtrack.FieldExtractor.
func (e *FieldExtractor) ExtractFields(ctx context.Context, content string) (*jobtrack.Extraction, error) {
	resp, err := e.llm.GenerateContent(ctx, BuildMessages(content), llms.WithTemperature(0))
	if err != nil {
		if ctx.Err() != nil {
			return nil, jobtrack.Errorf(jobtrack.ECANCELED, "completion request aborted: %v", ctx.Err())
		}
		return nil, jobtrack.Errorf(jobtrack.EUNAVAILABLE, "completion request: %v", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, jobtrack.Errorf(jobtrack.EEXTRACT, "completion returned no choices")
	}

	return jobtrack.DecodeExtraction(resp.Choices[0].Content)
}

// BuildMessages returns the system instruction followed by the posting content.
func BuildMessages(content string) []llms.MessageContent {
	return []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, jobtrack.SystemInstruction),
		llms.TextParts(llms.ChatMessageTypeHuman, strings.TrimSpace(content)),
	}
}

// ResponseFormat returns the strict json_schema response format describing
// a jobtrack.Extraction.
func ResponseFormat() *openai.ResponseFormat {
	return &openai.ResponseFormat{
		Type: "json_schema",
		JSONSchema: &openai.ResponseFormatJSONSchema{
			Name:   jobtrack.SchemaName,
			Strict: true,
			Schema: Schema(),
		},
	}
}

// Schema translates jobtrack.ExtractionSchema into a JSON schema object.
func Schema() *openai.ResponseFormatJSONSchemaProperty {
	props := make(map[string]*openai.ResponseFormatJSONSchemaProperty, len(jobtrack.ExtractionSchema))
	for _, f := range jobtrack.ExtractionSchema {
		props[f.Name] = fieldSchema(f)
	}
	return &openai.ResponseFormatJSONSchemaProperty{
		Type:                 "object",
		Description:          jobtrack.SchemaDescription,
		Properties:           props,
		Required:             jobtrack.RequiredFields(),
		AdditionalProperties: false,
	}
}

func fieldSchema(f jobtrack.SchemaField) *openai.ResponseFormatJSONSchemaProperty {
	p := &openai.ResponseFormatJSONSchemaProperty{Description: f.Description}
	switch f.Kind {
	case jobtrack.KindStringArray:
		p.Type = "array"
		p.Items = &openai.ResponseFormatJSONSchemaProperty{Type: "string"}
	case jobtrack.KindNumberArray:
		p.Type = "array"
		p.Items = &openai.ResponseFormatJSONSchemaProperty{Type: "number"}
	case jobtrack.KindEnum:
		p.Type = "string"
		for _, v := range f.Enum {
			p.Enum = append(p.Enum, v)
		}
	default:
		p.Type = "string"
	}
	return p
}
