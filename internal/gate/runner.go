package gate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kks0488/aionda-sub000/internal/extract"
	"github.com/kks0488/aionda-sub000/internal/llm"
	"github.com/kks0488/aionda-sub000/internal/model"
	"github.com/kks0488/aionda-sub000/internal/retry"
	"github.com/kks0488/aionda-sub000/internal/verify"
)

// Runner produces one verification attempt across a set of files
type Runner interface {
	VerifyFiles(ctx context.Context, files []string) (model.VerifyReport, error)
}

// ClaimRunner is the production Runner: for each file it extracts claims
// through the generation collaborator, verifies each claim against the
// live web, and folds the results into per-file reports.
type ClaimRunner struct {
	provider  llm.Provider
	extractor *extract.Extractor
	verifier  *verify.Verifier
	policy    retry.Policy
}

func NewClaimRunner(provider llm.Provider, extractor *extract.Extractor, verifier *verify.Verifier, cfg model.VerifyConfig) *ClaimRunner {
	policy := retry.DefaultPolicy()
	if cfg.GenerateAttempts > 0 {
		policy = policy.WithAttempts(cfg.GenerateAttempts)
	}
	return &ClaimRunner{
		provider:  provider,
		extractor: extractor,
		verifier:  verifier,
		policy:    policy,
	}
}

func (r *ClaimRunner) VerifyFiles(ctx context.Context, files []string) (model.VerifyReport, error) {
	var report model.VerifyReport
	for _, file := range files {
		fileReport, err := r.verifyFile(ctx, file)
		if err != nil {
			return model.VerifyReport{}, err
		}
		report.Reports = append(report.Reports, fileReport)
	}
	return report, nil
}

func (r *ClaimRunner) verifyFile(ctx context.Context, file string) (model.FileReport, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return model.FileReport{}, fmt.Errorf("read %s: %w", file, err)
	}
	article := stripFrontmatter(string(raw))

	claims, err := r.extractClaims(ctx, article)
	if err != nil {
		if errors.Is(err, verify.ErrProviderAuth) {
			return model.FileReport{}, fmt.Errorf("extract claims from %s: %w", file, err)
		}
		// Degrade into a failing report so the gate's retry ladder, not
		// the whole run, absorbs the failure.
		return model.FileReport{
			File:               file,
			ClaimsChecked:      1,
			FailedHighPriority: 1,
			Results: []model.ClaimResult{{
				Priority: model.PriorityHigh,
				Verified: false,
				Notes:    err.Error(),
			}},
		}, nil
	}

	for i := range claims {
		result, err := r.verifier.Verify(ctx, claims[i], article, nil)
		if err != nil {
			// Only provider auth failures surface here; abort the run.
			return model.FileReport{}, fmt.Errorf("verify %s: %w", file, err)
		}
		claims[i].ApplyVerification(result)
	}

	return model.BuildFileReport(file, claims), nil
}

// extractClaims asks the collaborator for candidate claims and validates
// them against the contract. A response that yields no parseable claims is
// a legitimate outcome, not an error.
func (r *ClaimRunner) extractClaims(ctx context.Context, article string) ([]model.Claim, error) {
	var text string
	err := r.policy.Do(ctx, func(ctx context.Context) error {
		resp, err := r.provider.Generate(ctx, llm.Request{
			Prompt: extract.Prompt(article),
		})
		if err != nil {
			if retry.ClassifyProviderError(err) == retry.ClassAuth {
				return fmt.Errorf("%w: %w", verify.ErrProviderAuth, err)
			}
			return err
		}
		text = resp.Text
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.extractor.Parse(article, text), nil
}

// stripFrontmatter removes a leading YAML frontmatter block so claim
// substring matching runs against the article body only.
func stripFrontmatter(content string) string {
	if !strings.HasPrefix(content, "---\n") && !strings.HasPrefix(content, "---\r\n") {
		return content
	}
	rest := content[strings.Index(content, "\n")+1:]
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return content
	}
	body := rest[idx+len("\n---"):]
	if nl := strings.Index(body, "\n"); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = ""
	}
	return body
}
