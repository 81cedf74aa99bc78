package model

import "time"

// Config is the full pipeline configuration
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Trust    TrustConfig    `yaml:"trust"`
	LLM      LLMConfig      `yaml:"llm"`
	Verify   VerifyConfig   `yaml:"verify"`
	Research ResearchConfig `yaml:"research"`
	Gate     GateConfig     `yaml:"gate"`
}

// HTTPConfig controls outbound reachability probes and title lookups
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	RatePerDomain float64       `yaml:"rate_per_domain"` // requests/sec per host
	RateBurst     int           `yaml:"rate_burst"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty"`  // overrides HTTP_PROXY
	HTTPSProxy    string        `yaml:"https_proxy,omitempty"` // overrides HTTPS_PROXY
}

// TrustConfig holds the curated domain lists behind tier classification.
// Matching is by host suffix after lower-casing and stripping "www.".
type TrustConfig struct {
	// DomainMap overrides everything: explicit host -> tier
	DomainMap map[string]string `yaml:"domain_map,omitempty"`
	// Standards bodies, academic publishers -> S
	Standards []string `yaml:"standards,omitempty"`
	// Official vendor/product documentation -> A
	Official []string `yaml:"official,omitempty"`
	// Reputable news outlets -> A
	News []string `yaml:"news,omitempty"`
	// Community platforms and UGC hosts -> C, checked first
	LowTrust []string `yaml:"low_trust,omitempty"`
}

// LLMConfig configures the generation collaborator
type LLMConfig struct {
	Provider    string        `yaml:"provider"` // "openai" or "" (disabled)
	Model       string        `yaml:"model"`
	SearchModel string        `yaml:"search_model"` // model used for search-grounded calls
	APIKey      string        `yaml:"-"`            // env only, never written to disk
	BaseURL     string        `yaml:"base_url,omitempty"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxTokens   int           `yaml:"max_tokens"`
}

// VerifyConfig holds the claim-verification thresholds.
// ConfidenceThreshold and the research publish threshold are deliberately
// independent knobs; do not derive one from the other.
type VerifyConfig struct {
	ConfidenceThreshold float64 `yaml:"confidence_threshold"` // verified forced false below this
	NoSourceCap         float64 `yaml:"no_source_cap"`        // confidence cap with zero surviving sources
	UntrustedCap        float64 `yaml:"untrusted_cap"`        // cap when no S/A source survives
	SourceWorkers       int     `yaml:"source_workers"`       // fan-out width for source validation
	SearchAttempts      int     `yaml:"search_attempts"`      // retry budget for grounded calls
	GenerateAttempts    int     `yaml:"generate_attempts"`    // retry budget for plain generation
}

// ResearchConfig controls per-topic research aggregation
type ResearchConfig struct {
	PublishThreshold float64       `yaml:"publish_threshold"`
	QuestionDelay    time.Duration `yaml:"question_delay"` // pause between per-question calls
}

// GateConfig controls the publication gate orchestrator
type GateConfig struct {
	ContentDir          string        `yaml:"content_dir"`
	LedgerPath          string        `yaml:"ledger_path"`
	ReportDir           string        `yaml:"report_dir"`
	QuarantineDir       string        `yaml:"quarantine_dir"`
	LockPath            string        `yaml:"lock_path"`
	MaxRepairPasses     int           `yaml:"max_repair_passes"`
	MaxTransientRetries int           `yaml:"max_transient_retries"`
	TransientBackoff    time.Duration `yaml:"transient_backoff"` // doubles per retry
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       8 * time.Second,
			UserAgent:     "aionda-gate/0.1 (+https://github.com/kks0488/aionda-sub000)",
			MaxBodyBytes:  1 << 20,
			RatePerDomain: 2,
			RateBurst:     4,
		},
		Trust: TrustConfig{
			Standards: []string{
				"ietf.org", "rfc-editor.org", "w3.org", "iso.org",
				"ecma-international.org", "arxiv.org", "acm.org", "ieee.org",
				"nist.gov", "unicode.org",
			},
			Official: []string{
				"go.dev", "golang.org", "nodejs.org", "python.org",
				"developer.mozilla.org", "kubernetes.io", "docker.com",
				"aws.amazon.com", "cloud.google.com", "learn.microsoft.com",
				"azure.microsoft.com", "developer.apple.com", "android.com",
				"openai.com", "anthropic.com", "deepmind.google",
				"github.blog", "gitlab.com", "huggingface.co",
				"postgresql.org", "redis.io", "sqlite.org",
			},
			News: []string{
				"reuters.com", "apnews.com", "bbc.com", "bloomberg.com",
				"theverge.com", "arstechnica.com", "techcrunch.com",
				"wired.com", "zdnet.com", "theregister.com",
			},
			LowTrust: []string{
				"reddit.com", "news.ycombinator.com", "medium.com",
				"quora.com", "stackoverflow.com", "dev.to", "hashnode.dev",
				"substack.com", "tistory.com", "velog.io", "blog.naver.com",
				"brunch.co.kr", "note.com", "qiita.com",
			},
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			SearchModel: "gpt-4o-search-preview",
			Timeout:     60 * time.Second,
			MaxTokens:   2000,
		},
		Verify: VerifyConfig{
			ConfidenceThreshold: 0.9,
			NoSourceCap:         0.2,
			UntrustedCap:        0.75,
			SourceWorkers:       3,
			SearchAttempts:      6,
			GenerateAttempts:    3,
		},
		Research: ResearchConfig{
			PublishThreshold: 0.6,
			QuestionDelay:    2 * time.Second,
		},
		Gate: GateConfig{
			ContentDir:          "content",
			LedgerPath:          ".aionda/ledger.json",
			ReportDir:           ".aionda/reports",
			QuarantineDir:       ".aionda/quarantine",
			LockPath:            ".aionda/gate.lock",
			MaxRepairPasses:     3,
			MaxTransientRetries: 2,
			TransientBackoff:    30 * time.Second,
		},
	}
}
