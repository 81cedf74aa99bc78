package llm

import (
	"errors"
	"testing"
)

type verdict struct {
	Verified   bool    `json:"verified"`
	Confidence float64 `json:"confidence"`
	Notes      string  `json:"notes"`
}

func TestExtractJSON_Bare(t *testing.T) {
	var v verdict
	if err := ExtractJSON(`{"verified": true, "confidence": 0.95}`, &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Verified || v.Confidence != 0.95 {
		t.Errorf("unexpected verdict: %+v", v)
	}
}

func TestExtractJSON_FencedBlock(t *testing.T) {
	text := "Here is my assessment:\n```json\n{\"verified\": false, \"confidence\": 0.4}\n```\nLet me know if you need more."

	var v verdict
	if err := ExtractJSON(text, &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Verified || v.Confidence != 0.4 {
		t.Errorf("unexpected verdict: %+v", v)
	}
}

func TestExtractJSON_FenceWithoutLanguageTag(t *testing.T) {
	text := "```\n{\"confidence\": 0.7}\n```"

	var v verdict
	if err := ExtractJSON(text, &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Confidence != 0.7 {
		t.Errorf("confidence = %v, want 0.7", v.Confidence)
	}
}

func TestExtractJSON_ProseWrapped(t *testing.T) {
	text := `Based on my search, the claim checks out. {"verified": true, "confidence": 0.92, "notes": "matches vendor pricing page"} Hope that helps!`

	var v verdict
	if err := ExtractJSON(text, &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Verified || v.Notes == "" {
		t.Errorf("unexpected verdict: %+v", v)
	}
}

func TestExtractJSON_NestedBraces(t *testing.T) {
	text := `{"verified": true, "confidence": 0.9, "notes": "see {figure 2}"}`

	var v verdict
	if err := ExtractJSON(text, &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractJSON_Failures(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"prose only", "I could not verify this claim."},
		{"broken JSON", `{"verified": tru`},
		{"unbalanced", `some text } with { reversed braces`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v verdict
			err := ExtractJSON(tt.text, &v)
			if err == nil {
				t.Fatal("expected error")
			}
			var pf *ParseFailure
			if !errors.As(err, &pf) {
				t.Errorf("expected *ParseFailure, got %T: %v", err, err)
			}
		})
	}
}

func TestExtractJSON_FencePreferredOverProse(t *testing.T) {
	text := "The schema is {\"confidence\": 0.1} but my answer is:\n```json\n{\"confidence\": 0.8}\n```"

	var v verdict
	if err := ExtractJSON(text, &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Confidence != 0.8 {
		t.Errorf("confidence = %v, want fenced value 0.8", v.Confidence)
	}
}
