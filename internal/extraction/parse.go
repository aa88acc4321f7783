package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseErrorKind classifies parse failures.
type ParseErrorKind string

// MalformedResponse means the reply was not a JSON object after
// fence-stripping.
const MalformedResponse ParseErrorKind = "malformed_response"

// ParseError is returned when a model reply cannot be decoded. Raw
// carries the original reply text so the failure can be diagnosed or
// retried upstream.
type ParseError struct {
	Kind ParseErrorKind
	Raw  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing model response (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("parsing model response (%s)", e.Kind)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// stripFences removes markdown code fences the model may wrap the JSON
// in. When the remainder is not itself valid JSON it is narrowed to the
// outermost object braces, recovering objects embedded in prose. Text
// that already is valid JSON is left alone so a top-level array or
// scalar is rejected by the decode instead of having an inner object
// plucked out of it.
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if json.Valid([]byte(s)) {
		return s
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start != -1 && end > start {
		s = s[start : end+1]
	}
	return s
}

// ParseRawFields decodes a model reply into RawFields. The reply must
// be a JSON object once fences are stripped; anything else yields a
// *ParseError and never a panic. Individual fields of the wrong type
// are dropped rather than rejected, the normalizer defaults them.
func ParseRawFields(text string) (*RawFields, error) {
	clean := stripFences(text)

	var obj map[string]any
	if err := json.Unmarshal([]byte(clean), &obj); err != nil {
		return nil, &ParseError{Kind: MalformedResponse, Raw: text, Err: err}
	}
	if obj == nil {
		return nil, &ParseError{Kind: MalformedResponse, Raw: text, Err: fmt.Errorf("response is not a JSON object")}
	}

	raw := &RawFields{}
	if v, ok := obj[FieldMerchant].(string); ok {
		raw.Merchant = v
	}
	if v, ok := obj[FieldDate].(string); ok {
		raw.Date = v
	}
	raw.Total = obj[FieldTotal]
	raw.VAT = obj[FieldVAT]
	if v, ok := obj["vat_noted"].(bool); ok {
		raw.VATNoted = v
	}
	if v, ok := obj[FieldCategory].(string); ok {
		raw.Category = v
	}
	if v, ok := obj[FieldSummary].(string); ok {
		raw.Summary = v
	}
	return raw, nil
}
