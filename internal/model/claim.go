package model

// ClaimPriority ranks how damaging a wrong claim would be if published
type ClaimPriority string

const (
	PriorityHigh   ClaimPriority = "high"
	PriorityMedium ClaimPriority = "medium"
	PriorityLow    ClaimPriority = "low"
)

// ClaimType categorizes the nature of the claim
type ClaimType string

const (
	ClaimTypeFact        ClaimType = "fact"        // General factual assertion
	ClaimTypeStatistic   ClaimType = "statistic"   // Numbers, percentages, benchmarks
	ClaimTypePricing     ClaimType = "pricing"     // Product cost or plan details
	ClaimTypeVersion     ClaimType = "version"     // Product/version/release facts
	ClaimTypeAttribution ClaimType = "attribution" // Who said/made/announced something
	ClaimTypeDate        ClaimType = "date"        // When something happened
)

// ClaimDraft is what the extraction collaborator hands back before any
// verification happened. Text must be an exact substring of the article.
type ClaimDraft struct {
	Text     string        `json:"text"`
	Type     ClaimType     `json:"type"`
	Entities []string      `json:"entities,omitempty"`
	Priority ClaimPriority `json:"priority"`
}

// Claim is a factual assertion extracted from a draft article.
// It is created by extraction, mutated exactly once by verification via
// ApplyVerification, and is immutable afterwards.
type Claim struct {
	ID            string           `json:"id"`
	Text          string           `json:"text"`
	Type          ClaimType        `json:"type"`
	Entities      []string         `json:"entities,omitempty"`
	Priority      ClaimPriority    `json:"priority"`
	Verified      bool             `json:"verified"`
	Confidence    float64          `json:"confidence"`
	Notes         string           `json:"notes,omitempty"`
	CorrectedText string           `json:"correctedText,omitempty"`
	Sources       []VerifiedSource `json:"sources"`
}

// VerificationResult is the post-processed outcome of verifying one claim
type VerificationResult struct {
	Verified      bool             `json:"verified"`
	Confidence    float64          `json:"confidence"`
	Notes         string           `json:"notes,omitempty"`
	CorrectedText string           `json:"correctedText,omitempty"`
	Sources       []VerifiedSource `json:"sources"`
}

// ApplyVerification performs the claim's single allowed mutation
func (c *Claim) ApplyVerification(r VerificationResult) {
	c.Verified = r.Verified
	c.Confidence = r.Confidence
	c.Notes = r.Notes
	c.CorrectedText = r.CorrectedText
	c.Sources = r.Sources
}
