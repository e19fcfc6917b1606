package service

import (
	"encoding/json"
	"reflect"
	"testing"

	"schoolpulse/internal/apperr"
	"schoolpulse/internal/model"
)

func TestParseStructuredOutput_RoundTrip(t *testing.T) {
	payload := model.StructuredPayload{
		Summary:         "전반적으로 긍정적입니다",
		Themes:          []string{"소통", "수업", "시설", "급식", "행정"},
		Recommendations: []string{"소통 확대", "시설 개선", "연수 지원"},
		Sentiment:       &model.SentimentBreakdown{Positive: 60, Neutral: 25, Negative: 15},
		WordCloud:       []model.WordCount{{Word: "수업", Count: 12}},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}

	raw := "Here is the analysis you asked for:\n" + string(encoded) + "\nLet me know if you need anything else."
	res := ParseStructuredOutput(raw)
	if !res.Parsed() {
		t.Fatalf("expected parsed result, got error: %v", res.Err)
	}
	if !reflect.DeepEqual(*res.Payload, payload) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", *res.Payload, payload)
	}
}

func TestParseStructuredOutput_MarkdownFences(t *testing.T) {
	raw := "```json\n{\"summary\": \"요약\", \"themes\": [\"a\"], \"recommendations\": [\"b\"]}\n```"
	res := ParseStructuredOutput(raw)
	if !res.Parsed() {
		t.Fatalf("expected parsed result, got error: %v", res.Err)
	}
	if res.Payload.Summary != "요약" {
		t.Errorf("summary = %q, want %q", res.Payload.Summary, "요약")
	}
}

func TestParseStructuredOutput_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no braces", "no braces here"},
		{"empty", ""},
		{"only opening brace", "some prose {"},
		{"only closing brace", "} some prose"},
		{"reversed braces", "} backwards {"},
		{"invalid json in span", "prefix {not valid json} suffix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseStructuredOutput(tt.raw)
			if res.Parsed() {
				t.Fatalf("expected malformed result for %q", tt.raw)
			}
			if !apperr.Is(res.Err, apperr.MalformedModelOutput) {
				t.Errorf("error kind = %v, want malformed_model_output", apperr.KindOf(res.Err))
			}
			if res.Raw != tt.raw {
				t.Errorf("Raw = %q, want original text %q", res.Raw, tt.raw)
			}
		})
	}
}

// Two independent JSON objects mis-extract by design: the widest span is
// taken, which is not itself valid JSON.
func TestParseStructuredOutput_MultipleObjectsLimitation(t *testing.T) {
	raw := `{"summary": "first"} and {"summary": "second"}`
	res := ParseStructuredOutput(raw)
	if res.Parsed() {
		t.Fatal("expected widest-span extraction to fail on multiple objects")
	}
	if !apperr.Is(res.Err, apperr.MalformedModelOutput) {
		t.Errorf("error kind = %v, want malformed_model_output", apperr.KindOf(res.Err))
	}
}
