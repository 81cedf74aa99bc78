// Package trust maps source URLs to trust tiers.
//
// Classification is pure and deterministic for a given configuration:
// the same URL always yields the same tier within one run.
package trust

import (
	"net/url"
	"strings"

	"github.com/kks0488/aionda-sub000/internal/model"
)

// Classifier classifies source domains into trust tiers S/A/B/C
type Classifier struct {
	overrides map[string]model.TrustTier
	standards map[string]bool
	official  map[string]bool
	news      map[string]bool
	lowTrust  map[string]bool
}

// NewClassifier builds a classifier from the curated domain lists
func NewClassifier(cfg *model.TrustConfig) *Classifier {
	if cfg == nil {
		cfg = &model.DefaultConfig().Trust
	}

	c := &Classifier{
		overrides: make(map[string]model.TrustTier),
		standards: make(map[string]bool),
		official:  make(map[string]bool),
		news:      make(map[string]bool),
		lowTrust:  make(map[string]bool),
	}

	for domain, tier := range cfg.DomainMap {
		c.overrides[canonicalHost(domain)] = parseTier(tier)
	}
	for _, domain := range cfg.Standards {
		c.standards[canonicalHost(domain)] = true
	}
	for _, domain := range cfg.Official {
		c.official[canonicalHost(domain)] = true
	}
	for _, domain := range cfg.News {
		c.news[canonicalHost(domain)] = true
	}
	for _, domain := range cfg.LowTrust {
		c.lowTrust[canonicalHost(domain)] = true
	}

	return c
}

// Classify maps a URL to its trust tier.
//
// Precedence: explicit overrides, then low-trust (community platforms win
// even when they sit under a reputable parent domain), then standards (S),
// official vendor docs (A), news (A). Everything else is C.
func (c *Classifier) Classify(rawURL string) model.TrustTier {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return model.TierC
	}

	host := canonicalHost(parsed.Host)

	if tier, ok := c.lookupSuffix(c.overrides, host); ok {
		return tier
	}
	if matchSuffix(c.lowTrust, host) {
		return model.TierC
	}
	if matchSuffix(c.standards, host) {
		return model.TierS
	}
	if matchSuffix(c.official, host) {
		return model.TierA
	}
	if matchSuffix(c.news, host) {
		return model.TierA
	}

	// Government and academic TLDs count as standards-grade even when not
	// individually curated.
	if strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".edu") ||
		strings.HasSuffix(host, ".ac.kr") || strings.HasSuffix(host, ".ac.uk") {
		return model.TierS
	}

	return model.TierC
}

// Domain returns the canonical host used as VerifiedSource.Domain
func Domain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return canonicalHost(parsed.Host)
}

func (c *Classifier) lookupSuffix(m map[string]model.TrustTier, host string) (model.TrustTier, bool) {
	if tier, ok := m[host]; ok {
		return tier, true
	}
	for domain, tier := range m {
		if strings.HasSuffix(host, "."+domain) {
			return tier, true
		}
	}
	return model.TierC, false
}

func matchSuffix(m map[string]bool, host string) bool {
	if m[host] {
		return true
	}
	for domain := range m {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// canonicalHost lower-cases, strips a leading www., and drops any port
func canonicalHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}
	host = strings.TrimPrefix(host, "www.")
	return host
}

func parseTier(tier string) model.TrustTier {
	switch strings.ToUpper(strings.TrimSpace(tier)) {
	case "S":
		return model.TierS
	case "A":
		return model.TierA
	case "B":
		return model.TierB
	default:
		return model.TierC
	}
}
