package jobtrack

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Source identifies where a posting's content came from. It selects the
// NormalizerPolicy used for that posting.
type Source string

// Source values.
const (
	// SourceLinkedIn is text captured from a LinkedIn job view.
	SourceLinkedIn Source = "linkedin"

	// SourceWeb is a page imported by URL and converted to text.
	SourceWeb Source = "web"
)

// NormalizerPolicy reduces raw posting content to the canonical form sent
// for extraction: a "URL:" line followed by an "About the job:" section.
// Implementations are pure and never fail; missing parts become empty.
type NormalizerPolicy interface {
	Normalize(content string) string
}

var urlLineRe = regexp.MustCompile(`URL:\s+(.*?)\n`)

// extractURL returns the value of the first "URL: <value>" line, or "".
func extractURL(content string) string {
	if m := urlLineRe.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return ""
}

func formatNormalized(url, body string) string {
	return fmt.Sprintf("URL: %s\nAbout the job:\n%s", url, body)
}

// Ensure MarkerPolicy implements NormalizerPolicy at compile time.
var _ NormalizerPolicy = (*MarkerPolicy)(nil)

// MarkerPolicy takes the job body from between two literal markers.
type MarkerPolicy struct {
	bodyRe *regexp.Regexp
}

// NewMarkerPolicy returns a policy that keeps the text between bodyStart and
// bodyEnd, excluding both markers.
func NewMarkerPolicy(bodyStart, bodyEnd string) *MarkerPolicy {
	return &MarkerPolicy{
		bodyRe: regexp.MustCompile(`(?s)` + regexp.QuoteMeta(bodyStart) + `\s*(.*?)` + regexp.QuoteMeta(bodyEnd)),
	}
}

// LinkedIn job-view markers.
const (
	LinkedInBodyStart = "About the job"
	LinkedInBodyEnd   = "Job search faster with Premium"
)

// DefaultPolicy returns the marker policy for LinkedIn job views.
func DefaultPolicy() *MarkerPolicy {
	return NewMarkerPolicy(LinkedInBodyStart, LinkedInBodyEnd)
}

// Normalize implements NormalizerPolicy.
func (p *MarkerPolicy) Normalize(content string) string {
	var body string
	if m := p.bodyRe.FindStringSubmatch(content); m != nil {
		body = strings.TrimSpace(m[1])
	}
	return formatNormalized(extractURL(content), body)
}

// Ensure PlainPolicy implements NormalizerPolicy at compile time.
var _ NormalizerPolicy = PlainPolicy{}

// PlainPolicy keeps everything after the first line as the job body.
// It suits content that was already reduced to the posting itself.
type PlainPolicy struct{}

// Normalize implements NormalizerPolicy.
func (PlainPolicy) Normalize(content string) string {
	var body string
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		body = strings.TrimSpace(content[i+1:])
	}
	return formatNormalized(extractURL(content), body)
}

// NormalizerRegistry maps sources to policies.
// NormalizerRegistry is safe for concurrent use.
type NormalizerRegistry struct {
	mu       sync.RWMutex
	policies map[Source]NormalizerPolicy
	fallback NormalizerPolicy
}

// NewNormalizerRegistry returns a registry that uses fallback for sources
// without a registered policy.
func NewNormalizerRegistry(fallback NormalizerPolicy) *NormalizerRegistry {
	return &NormalizerRegistry{
		policies: make(map[Source]NormalizerPolicy),
		fallback: fallback,
	}
}

// DefaultNormalizers returns a registry with the built-in policies.
func DefaultNormalizers() *NormalizerRegistry {
	r := NewNormalizerRegistry(DefaultPolicy())
	r.Register(SourceLinkedIn, DefaultPolicy())
	r.Register(SourceWeb, PlainPolicy{})
	return r
}

// Register sets the policy for source.
func (r *NormalizerRegistry) Register(source Source, policy NormalizerPolicy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.policies[source] = policy
}

// Get returns the policy for source, or the fallback policy.
func (r *NormalizerRegistry) Get(source Source) NormalizerPolicy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.policies[source]; ok {
		return p
	}
	return r.fallback
}

// Normalize normalizes a posting with the policy for its source.
func (r *NormalizerRegistry) Normalize(p *Posting) string {
	return r.Get(p.Source).Normalize(p.Content)
}
