// Package extract enforces the claim-extraction contract. Extraction
// itself is done by the generation collaborator; this package validates
// the collaborator's output shape and drops anything that violates the
// contract, so downstream verification only ever sees well-formed claims.
package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kks0488/aionda-sub000/internal/llm"
	"github.com/kks0488/aionda-sub000/internal/model"
)

// Extractor turns raw collaborator output into contract-conforming claims
type Extractor struct {
	now func() time.Time
}

// NewExtractor creates a new extractor
func NewExtractor() *Extractor {
	return &Extractor{now: time.Now}
}

type draftEnvelope struct {
	Claims []model.ClaimDraft `json:"claims"`
}

// Parse validates collaborator output against the article text.
//
// Contract enforced here:
//   - claim text must be an exact, literal substring of the article
//     (no translation, no paraphrase)
//   - sentences inside a labeled hypothetical-example paragraph are excluded
//   - product/version facts that look stale relative to now are
//     down-prioritized
//
// Malformed output yields an empty claim list, never an error.
func (e *Extractor) Parse(article, raw string) []model.Claim {
	var envelope draftEnvelope
	if err := llm.ExtractJSON(raw, &envelope); err != nil {
		return nil
	}

	hypothetical := hypotheticalParagraphs(article)

	var claims []model.Claim
	for _, draft := range envelope.Claims {
		text := strings.TrimSpace(draft.Text)
		if text == "" || !strings.Contains(article, text) {
			continue
		}
		if insideHypothetical(hypothetical, text) {
			continue
		}

		priority := normalizePriority(draft.Priority)
		if e.looksStale(draft.Type, text) {
			priority = downgrade(priority)
		}

		claims = append(claims, model.Claim{
			ID:       uuid.NewString(),
			Text:     text,
			Type:     draft.Type,
			Entities: draft.Entities,
			Priority: priority,
		})
	}

	return dedupeClaims(claims)
}

// hypotheticalMarkers label paragraphs whose contents are illustrative, not
// factual. Both locales of the blog are covered.
var hypotheticalMarkers = []string{
	"for example", "for instance", "e.g.", "hypothetical",
	"imagine", "suppose", "let's say",
	"예를 들어", "예시", "가령", "가정해",
}

func hypotheticalParagraphs(article string) []string {
	var out []string
	for _, para := range strings.Split(article, "\n\n") {
		lead := strings.ToLower(strings.TrimSpace(para))
		if lead == "" {
			continue
		}
		// Only a marker near the start labels the paragraph; a marker
		// buried mid-paragraph does not make the whole paragraph
		// hypothetical.
		head := lead
		if len(head) > 80 {
			head = head[:80]
		}
		for _, marker := range hypotheticalMarkers {
			if strings.Contains(head, marker) {
				out = append(out, para)
				break
			}
		}
	}
	return out
}

func insideHypothetical(paragraphs []string, text string) bool {
	for _, para := range paragraphs {
		if strings.Contains(para, text) {
			return true
		}
	}
	return false
}

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// looksStale flags version/pricing facts anchored to a year at least two
// years behind now. Those change fast enough that a stale mention is more
// likely wrong than right.
func (e *Extractor) looksStale(claimType model.ClaimType, text string) bool {
	switch claimType {
	case model.ClaimTypeVersion, model.ClaimTypePricing:
	default:
		return false
	}

	cutoff := e.now().Year() - 1
	for _, match := range yearPattern.FindAllString(text, -1) {
		year := 0
		for _, ch := range match {
			year = year*10 + int(ch-'0')
		}
		if year < cutoff {
			return true
		}
	}
	return false
}

func normalizePriority(p model.ClaimPriority) model.ClaimPriority {
	switch p {
	case model.PriorityHigh, model.PriorityMedium, model.PriorityLow:
		return p
	default:
		return model.PriorityMedium
	}
}

func downgrade(p model.ClaimPriority) model.ClaimPriority {
	switch p {
	case model.PriorityHigh:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

func dedupeClaims(claims []model.Claim) []model.Claim {
	seen := make(map[string]bool, len(claims))
	var out []model.Claim
	for _, c := range claims {
		if seen[c.Text] {
			continue
		}
		seen[c.Text] = true
		out = append(out, c)
	}
	return out
}

// Prompt builds the extraction prompt sent to the collaborator
func Prompt(article string) string {
	return `Extract the verifiable factual claims from the article below.

Rules:
- "text" MUST be copied verbatim from the article. Never translate,
  paraphrase, or fix typos.
- Skip sentences inside example or hypothetical paragraphs.
- type is one of: fact, statistic, pricing, version, attribution, date.
- priority is one of: high, medium, low. Use high for claims that would
  embarrass us if wrong (prices, version numbers, quoted statistics).

Respond with exactly one JSON object:
{"claims": [{"text": "...", "type": "...", "entities": ["..."], "priority": "..."}]}

Article:
` + article
}
