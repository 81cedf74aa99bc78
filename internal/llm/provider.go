// Package llm wraps the generation collaborator: the external model that
// extracts, judges, and answers. This system never generates prose itself;
// it only sends prompts and post-processes what comes back.
package llm

import (
	"context"

	"github.com/kks0488/aionda-sub000/internal/model"
)

// Provider defines the interface for generation collaborators
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate runs a plain (ungrounded) generation call
	Generate(ctx context.Context, req Request) (*Response, error)

	// GroundedSearch runs a search-grounded generation call: the model may
	// consult the web and is expected to return candidate source URLs.
	GroundedSearch(ctx context.Context, req Request) (*Response, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Request is one prompt sent to the collaborator
type Request struct {
	// System sets the collaborator's role and output contract
	System string

	// Prompt is the claim/question plus trimmed context
	Prompt string

	// Model overrides the configured model (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// Response is the collaborator's raw output. Callers must treat Text as
// free text that merely embeds JSON; see ExtractJSON.
type Response struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model for plain generation calls
	Model string

	// SearchModel for search-grounded calls
	SearchModel string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for one API request
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:    mc.Provider,
		Model:       mc.Model,
		SearchModel: mc.SearchModel,
		APIKey:      mc.APIKey,
		BaseURL:     mc.BaseURL,
		Timeout:     int(mc.Timeout.Seconds()),
		MaxTokens:   mc.MaxTokens,
	}
}
