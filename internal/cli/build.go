package cli

import (
	"fmt"

	"github.com/kks0488/aionda-sub000/internal/cache"
	"github.com/kks0488/aionda-sub000/internal/extract"
	"github.com/kks0488/aionda-sub000/internal/llm"
	"github.com/kks0488/aionda-sub000/internal/model"
	"github.com/kks0488/aionda-sub000/internal/trust"
	"github.com/kks0488/aionda-sub000/internal/urlcheck"
	"github.com/kks0488/aionda-sub000/internal/verify"
)

// toolchain bundles the verification collaborators one run shares.
// The cache is per-run: every URL is probed at most once, and nothing
// survives into the next invocation.
type toolchain struct {
	provider   llm.Provider
	classifier *trust.Classifier
	checker    *urlcheck.Checker
	titles     *urlcheck.TitleLookup
	extractor  *extract.Extractor
	verifier   *verify.Verifier
}

func buildToolchain(cfg *model.Config) (*toolchain, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("configure provider: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("no LLM provider configured; set llm.provider and OPENAI_API_KEY")
	}

	runCache := cache.NewRunCache()
	classifier := trust.NewClassifier(&cfg.Trust)
	checker := urlcheck.NewChecker(cfg.HTTP, runCache)
	titles := urlcheck.NewTitleLookup(cfg.HTTP, runCache)

	return &toolchain{
		provider:   provider,
		classifier: classifier,
		checker:    checker,
		titles:     titles,
		extractor:  extract.NewExtractor(),
		verifier:   verify.NewVerifier(provider, classifier, checker, titles, cfg.Verify),
	}, nil
}
