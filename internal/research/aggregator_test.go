package research

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/kks0488/aionda-sub000/internal/model"
	"github.com/kks0488/aionda-sub000/internal/trust"
)

func init() {
	sleepFunc = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
}

type fakeAnswerer struct {
	findings map[string]model.ResearchFinding
	err      error
	calls    []string
}

func (f *fakeAnswerer) AnswerQuestion(ctx context.Context, question, topicContext string) (model.ResearchFinding, error) {
	f.calls = append(f.calls, question)
	if f.err != nil {
		return model.ResearchFinding{}, f.err
	}
	finding := f.findings[question]
	finding.Question = question
	return finding, nil
}

func trustedSource() []model.VerifiedSource {
	return []model.VerifiedSource{{URL: "https://go.dev/doc", Tier: model.TierA, Domain: "go.dev"}}
}

func untrustedSource() []model.VerifiedSource {
	return []model.VerifiedSource{{URL: "https://some.blog/post", Tier: model.TierC, Domain: "some.blog"}}
}

func newAggregator(answerer QuestionAnswerer) *Aggregator {
	cfg := model.DefaultConfig()
	return NewAggregator(answerer, trust.NewClassifier(&cfg.Trust), cfg.Research)
}

func topic(questions ...string) model.Topic {
	return model.Topic{
		TopicID:   "t1",
		SourceID:  "s1",
		SourceURL: "https://some.blog/announcement",
		Title:     "Topic",
		Questions: questions,
	}
}

func TestResearch_MeanConfidenceAndPublish(t *testing.T) {
	answerer := &fakeAnswerer{findings: map[string]model.ResearchFinding{
		"q1": {Confidence: 0.9, Sources: trustedSource()},
		"q2": {Confidence: 0.5, Sources: untrustedSource()},
	}}

	researched, err := newAggregator(answerer).Research(context.Background(), topic("q1", "q2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := researched.OverallConfidence; math.Abs(got-0.7) > 1e-9 {
		t.Errorf("overallConfidence = %v, want 0.7", got)
	}
	if !researched.CanPublish {
		t.Error("expected canPublish=true (confidence 0.7 with a trusted source)")
	}
	if len(answerer.calls) != 2 || answerer.calls[0] != "q1" || answerer.calls[1] != "q2" {
		t.Errorf("questions must run sequentially in order, got %v", answerer.calls)
	}
}

func TestResearch_LowConfidenceBlocksPublish(t *testing.T) {
	answerer := &fakeAnswerer{findings: map[string]model.ResearchFinding{
		"q1": {Confidence: 0.5, Sources: trustedSource()},
	}}

	researched, err := newAggregator(answerer).Research(context.Background(), topic("q1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if researched.CanPublish {
		t.Error("confidence below threshold must block publish")
	}
}

func TestResearch_NoTrustedAnchorBlocksPublish(t *testing.T) {
	answerer := &fakeAnswerer{findings: map[string]model.ResearchFinding{
		"q1": {Confidence: 0.95, Sources: untrustedSource()},
	}}

	researched, err := newAggregator(answerer).Research(context.Background(), topic("q1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if researched.CanPublish {
		t.Error("no trusted source and untrusted primary URL must block publish")
	}
}

func TestResearch_TrustedPrimaryURLUnblocks(t *testing.T) {
	answerer := &fakeAnswerer{findings: map[string]model.ResearchFinding{
		"q1": {Confidence: 0.95, Sources: untrustedSource()},
	}}

	tp := topic("q1")
	tp.SourceURL = "https://go.dev/blog/release"

	researched, err := newAggregator(answerer).Research(context.Background(), tp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !researched.CanPublish {
		t.Error("trusted primary source URL should satisfy the anchor requirement")
	}
}

func TestResearch_ZeroQuestions(t *testing.T) {
	answerer := &fakeAnswerer{}

	researched, err := newAggregator(answerer).Research(context.Background(), topic())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if researched.OverallConfidence != 0 {
		t.Errorf("overallConfidence = %v, want 0", researched.OverallConfidence)
	}
	if researched.CanPublish {
		t.Error("zero questions must not be publishable")
	}
}

func TestResearch_ErrorPropagates(t *testing.T) {
	answerer := &fakeAnswerer{err: errors.New("provider auth/config error: bad key")}

	if _, err := newAggregator(answerer).Research(context.Background(), topic("q1")); err == nil {
		t.Fatal("expected error")
	}
}
