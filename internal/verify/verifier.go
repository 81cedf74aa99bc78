// Package verify implements claim verification: one search-grounded
// collaborator call per claim, followed by strict post-processing that the
// collaborator's own verdict can never override.
package verify

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kks0488/aionda-sub000/internal/llm"
	"github.com/kks0488/aionda-sub000/internal/model"
	"github.com/kks0488/aionda-sub000/internal/retry"
	"github.com/kks0488/aionda-sub000/internal/trust"
	"github.com/kks0488/aionda-sub000/internal/urlcheck"
)

// ErrProviderAuth marks a fatal provider misconfiguration. It propagates
// immediately; nothing downstream should retry it.
var ErrProviderAuth = errors.New("provider auth/config error")

// Verifier verifies claims against the live web
type Verifier struct {
	provider   llm.Provider
	classifier *trust.Classifier
	checker    *urlcheck.Checker
	titles     *urlcheck.TitleLookup
	cfg        model.VerifyConfig
	policy     retry.Policy
}

// NewVerifier creates a claim verifier
func NewVerifier(provider llm.Provider, classifier *trust.Classifier, checker *urlcheck.Checker, titles *urlcheck.TitleLookup, cfg model.VerifyConfig) *Verifier {
	policy := retry.DefaultPolicy()
	if cfg.SearchAttempts > 0 {
		policy = policy.WithAttempts(cfg.SearchAttempts)
	}

	return &Verifier{
		provider:   provider,
		classifier: classifier,
		checker:    checker,
		titles:     titles,
		cfg:        cfg,
		policy:     policy,
	}
}

// rawVerdict is the shape the collaborator is asked to embed in its reply
type rawVerdict struct {
	Verified      bool        `json:"verified"`
	Answer        string      `json:"answer"`
	Confidence    interface{} `json:"confidence"`
	Sources       []rawSource `json:"sources"`
	Notes         string      `json:"notes"`
	CorrectedText string      `json:"correctedText"`
	Unverified    []string    `json:"unverified"`
}

type rawSource struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Verify verifies one claim. The returned error is non-nil only for fatal
// provider auth/config failures; every other problem degrades into an
// unverified result whose notes carry the failure signature.
func (v *Verifier) Verify(ctx context.Context, claim model.Claim, articleContext string, preferredSources []string) (model.VerificationResult, error) {
	prompt := verifyPrompt(claim, articleContext, preferredSources)

	verdict, err := v.grounded(ctx, prompt)
	if err != nil {
		if errors.Is(err, ErrProviderAuth) {
			return model.VerificationResult{}, err
		}
		// Exhausted transient retries or a local parse failure: degrade.
		return model.VerificationResult{
			Verified:   false,
			Confidence: 0,
			Notes:      err.Error(),
		}, nil
	}

	confidence := coerceConfidence(verdict.Confidence)
	sources := v.validateSources(ctx, verdict.Sources)

	// Evidence caps apply regardless of what the collaborator claims.
	if len(sources) == 0 {
		confidence = math.Min(confidence, v.cfg.NoSourceCap)
	} else if !model.HasTrusted(sources) {
		confidence = math.Min(confidence, v.cfg.UntrustedCap)
	}

	return model.VerificationResult{
		Verified:      verdict.Verified && confidence >= v.cfg.ConfidenceThreshold,
		Confidence:    confidence,
		Notes:         verdict.Notes,
		CorrectedText: verdict.CorrectedText,
		Sources:       sources,
	}, nil
}

// AnswerQuestion runs the claim-verification protocol for one open
// research question. Same grounded call, same evidence caps; the verdict's
// answer text becomes the finding.
func (v *Verifier) AnswerQuestion(ctx context.Context, question, topicContext string) (model.ResearchFinding, error) {
	finding := model.ResearchFinding{Question: question}

	verdict, err := v.grounded(ctx, researchPrompt(question, topicContext))
	if err != nil {
		if errors.Is(err, ErrProviderAuth) {
			return finding, err
		}
		finding.Unverified = []string{err.Error()}
		return finding, nil
	}

	confidence := coerceConfidence(verdict.Confidence)
	sources := v.validateSources(ctx, verdict.Sources)

	if len(sources) == 0 {
		confidence = math.Min(confidence, v.cfg.NoSourceCap)
	} else if !model.HasTrusted(sources) {
		confidence = math.Min(confidence, v.cfg.UntrustedCap)
	}

	finding.Answer = verdict.Answer
	if finding.Answer == "" {
		finding.Answer = verdict.Notes
	}
	finding.Confidence = confidence
	finding.Sources = sources
	finding.Unverified = verdict.Unverified
	return finding, nil
}

func researchPrompt(question, topicContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Research question: %s\n", question)
	if trimmed := trimContext(topicContext, 1200); trimmed != "" {
		fmt.Fprintf(&b, "\nTopic context:\n%s\n", trimmed)
	}
	b.WriteString(`
Answer from current, authoritative web sources. Respond with exactly one
JSON object: {"answer": "...", "confidence": 0.0-1.0,
"sources": [{"url": "...", "title": "...", "snippet": "..."}],
"unverified": ["statements you could not confirm"]}`)
	return b.String()
}

// grounded runs one search-grounded call under the retry policy and parses
// the embedded JSON verdict.
func (v *Verifier) grounded(ctx context.Context, prompt string) (rawVerdict, error) {
	var verdict rawVerdict

	err := v.policy.Do(ctx, func(ctx context.Context) error {
		resp, err := v.provider.GroundedSearch(ctx, llm.Request{
			System: verifySystemPrompt,
			Prompt: prompt,
		})
		if err != nil {
			if retry.ClassifyProviderError(err) == retry.ClassAuth {
				return fmt.Errorf("%w: %w", ErrProviderAuth, err)
			}
			return err
		}

		verdict = rawVerdict{}
		if perr := llm.ExtractJSON(resp.Text, &verdict); perr != nil {
			// Local to this response: do not burn the retry budget on it.
			return perr
		}
		return nil
	})
	if err != nil {
		return rawVerdict{}, err
	}
	return verdict, nil
}

// coerceConfidence forces the collaborator's confidence into a finite value
// in [0,1]. Anything unusable becomes the 0.5 default before the evidence
// caps apply.
func coerceConfidence(raw interface{}) float64 {
	var c float64
	switch val := raw.(type) {
	case float64:
		c = val
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0.5
		}
		c = parsed
	default:
		return 0.5
	}

	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 0.5
	}
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

const verifySystemPrompt = `You are a fact checker for a technical blog. Verify the claim against
current, authoritative web sources. Respond with exactly one JSON object:
{"verified": bool, "confidence": 0.0-1.0, "sources": [{"url": "...", "title": "...", "snippet": "..."}],
 "notes": "...", "correctedText": "only when the claim is wrong and a minimal fix exists"}`

func verifyPrompt(claim model.Claim, articleContext string, preferred []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Claim (%s, priority %s): %s\n", claim.Type, claim.Priority, claim.Text)
	if len(claim.Entities) > 0 {
		fmt.Fprintf(&b, "Entities: %s\n", strings.Join(claim.Entities, ", "))
	}
	if len(preferred) > 0 {
		b.WriteString("Prefer these primary/official sources when they settle the question:\n")
		for _, url := range preferred {
			fmt.Fprintf(&b, "- %s\n", url)
		}
	}
	if trimmed := trimContext(articleContext, 1200); trimmed != "" {
		fmt.Fprintf(&b, "\nSurrounding context:\n%s\n", trimmed)
	}

	return b.String()
}

// trimContext caps text at max bytes, backing up so the cut never lands
// inside a multi-byte rune.
func trimContext(text string, max int) string {
	text = strings.TrimSpace(text)
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "…"
}
