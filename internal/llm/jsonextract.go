package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseFailure reports that no usable JSON object could be pulled out of a
// collaborator response. It is claim-local: callers degrade the affected
// claim or question instead of aborting the batch.
type ParseFailure struct {
	Reason string
}

func (e *ParseFailure) Error() string {
	return "parse failure: " + e.Reason
}

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractJSON pulls the single JSON object a collaborator response is
// expected to embed and unmarshals it into v.
//
// Two stages: a fenced ```json block is tried first, then the
// first-`{`-to-last-`}` heuristic over the raw text. Any failure comes back
// as a *ParseFailure; this function never panics and callers never see a
// raw json error.
func ExtractJSON(text string, v interface{}) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return &ParseFailure{Reason: "empty response"}
	}

	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		if err := json.Unmarshal([]byte(m[1]), v); err == nil {
			return nil
		}
		// Fall through: a malformed fenced block may still have a valid
		// object elsewhere in the prose.
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return &ParseFailure{Reason: "no JSON object found"}
	}

	candidate := text[start : end+1]
	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return &ParseFailure{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return nil
}
