package service

import (
	"encoding/json"
	"strings"

	"schoolpulse/internal/apperr"
	"schoolpulse/internal/model"
)

// ParseResult is the tagged outcome of structured-output extraction:
// Parsed (Payload set) or Malformed (Err set, Raw holding the original
// model text so callers can log it for diagnosis).
type ParseResult struct {
	Payload *model.StructuredPayload
	Raw     string
	Err     error
}

// Parsed reports whether extraction produced a payload
func (r ParseResult) Parsed() bool { return r.Err == nil }

// ParseStructuredOutput extracts the JSON payload embedded in free-form
// model output. Extraction takes the widest brace-delimited span (first
// '{' to last '}'), which tolerates leading/trailing prose but will
// mis-extract when the model emits multiple independent JSON objects;
// that is a known limitation, not silently corrected. The parser never
// fabricates data: any failure is returned as Malformed and the caller
// decides whether to fall back.
func ParseStructuredOutput(raw string) ParseResult {
	text := stripFences(raw)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return ParseResult{
			Raw: raw,
			Err: apperr.New(apperr.MalformedModelOutput, "no JSON object found in model output"),
		}
	}

	var payload model.StructuredPayload
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return ParseResult{
			Raw: raw,
			Err: apperr.Wrap(apperr.MalformedModelOutput, err),
		}
	}

	return ParseResult{Payload: &payload, Raw: raw}
}

// stripFences removes a markdown code fence wrapper if the model added
// one around its JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSuffix(s, "```")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
