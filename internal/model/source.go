package model

// TrustTier classifies how much weight a source domain carries
type TrustTier string

const (
	TierS TrustTier = "S" // Academic, standards bodies, specifications
	TierA TrustTier = "A" // Official vendor docs, reputable news
	TierB TrustTier = "B" // Known but treat with caution
	TierC TrustTier = "C" // Community content or unclassified
)

// Trusted reports whether the tier is strong enough to count as evidence
func (t TrustTier) Trusted() bool {
	return t == TierS || t == TierA
}

func (t TrustTier) String() string {
	switch t {
	case TierS, TierA, TierB, TierC:
		return string(t)
	default:
		return string(TierC)
	}
}

// VerifiedSource is a citation that survived trust classification and a
// liveness probe. Identity is the normalized URL; instances are never
// mutated after construction.
type VerifiedSource struct {
	URL     string    `json:"url"`
	Title   string    `json:"title,omitempty"`
	Tier    TrustTier `json:"tier"`
	Domain  string    `json:"domain"`
	Snippet string    `json:"snippet,omitempty"`
}

// HasTrusted reports whether any source in the list is tier S or A
func HasTrusted(sources []VerifiedSource) bool {
	for _, s := range sources {
		if s.Tier.Trusted() {
			return true
		}
	}
	return false
}
