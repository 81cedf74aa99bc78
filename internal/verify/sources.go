package verify

import (
	"context"

	"github.com/kks0488/aionda-sub000/internal/model"
	"github.com/kks0488/aionda-sub000/internal/trust"
	"github.com/kks0488/aionda-sub000/internal/urlcheck"
	"github.com/kks0488/aionda-sub000/internal/worker"
)

// validateSources runs the candidate sources through normalize → classify →
// dedupe → reachability with bounded fan-out, then fans back in. Sources
// failing any step are dropped silently; only URLs that survive everything
// become evidence.
func (v *Verifier) validateSources(ctx context.Context, candidates []rawSource) []model.VerifiedSource {
	if len(candidates) == 0 {
		return nil
	}

	// Normalize and dedupe up front so each URL is probed at most once.
	seen := make(map[string]bool, len(candidates))
	var unique []rawSource
	for _, candidate := range candidates {
		if !urlcheck.IsHTTP(candidate.URL) {
			continue
		}
		resolved := v.checker.ResolveRedirect(ctx, candidate.URL)
		normalized := urlcheck.Normalize(resolved)
		if !urlcheck.IsHTTP(normalized) || seen[normalized] {
			continue
		}
		seen[normalized] = true
		candidate.URL = normalized
		unique = append(unique, candidate)
	}
	if len(unique) == 0 {
		return nil
	}

	workers := v.cfg.SourceWorkers
	if workers <= 0 {
		workers = 3
	}

	jobs := make([]worker.Job, 0, len(unique))
	for _, candidate := range unique {
		jobs = append(jobs, &sourceJob{verifier: v, candidate: candidate})
	}

	var sources []model.VerifiedSource
	for _, result := range worker.NewPool(workers).Process(ctx, jobs) {
		if sr, ok := result.(*sourceResult); ok && sr.source != nil {
			sources = append(sources, *sr.source)
		}
	}
	return sources
}

// sourceJob validates a single candidate source
type sourceJob struct {
	verifier  *Verifier
	candidate rawSource
}

// Execute classifies and probes one URL
func (j *sourceJob) Execute(ctx context.Context) worker.Result {
	v := j.verifier
	candidate := j.candidate

	if !v.checker.IsReachable(ctx, candidate.URL) {
		return &sourceResult{}
	}

	title := candidate.Title
	if title == "" && v.titles != nil {
		title = v.titles.Lookup(ctx, candidate.URL)
	}

	return &sourceResult{source: &model.VerifiedSource{
		URL:     candidate.URL,
		Title:   title,
		Tier:    v.classifier.Classify(candidate.URL),
		Domain:  trust.Domain(candidate.URL),
		Snippet: candidate.Snippet,
	}}
}

type sourceResult struct {
	source *model.VerifiedSource
}

func (r *sourceResult) GetError() error { return nil }
