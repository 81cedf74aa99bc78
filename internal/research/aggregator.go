// Package research rolls per-question verification up into a per-topic
// publish decision.
package research

import (
	"context"
	"fmt"
	"time"

	"github.com/kks0488/aionda-sub000/internal/model"
	"github.com/kks0488/aionda-sub000/internal/trust"
)

// QuestionAnswerer runs the claim-verification protocol for one question
type QuestionAnswerer interface {
	AnswerQuestion(ctx context.Context, question, topicContext string) (model.ResearchFinding, error)
}

// sleepFunc is the inter-question pause (injectable for tests)
var sleepFunc = func(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Aggregator researches topics question by question
type Aggregator struct {
	answerer   QuestionAnswerer
	classifier *trust.Classifier
	cfg        model.ResearchConfig
}

// NewAggregator creates a research aggregator
func NewAggregator(answerer QuestionAnswerer, classifier *trust.Classifier, cfg model.ResearchConfig) *Aggregator {
	return &Aggregator{
		answerer:   answerer,
		classifier: classifier,
		cfg:        cfg,
	}
}

// Research answers every open question for the topic and derives the
// publish decision. Questions run sequentially with a fixed inter-call
// delay; the rollup is always computed from scratch, never patched.
func (a *Aggregator) Research(ctx context.Context, topic model.Topic) (*model.ResearchedTopic, error) {
	researched := &model.ResearchedTopic{
		TopicID:   topic.TopicID,
		SourceID:  topic.SourceID,
		SourceURL: topic.SourceURL,
	}

	topicContext := topic.Title
	if topic.Summary != "" {
		topicContext += "\n" + topic.Summary
	}

	for i, question := range topic.Questions {
		if i > 0 && a.cfg.QuestionDelay > 0 {
			if err := sleepFunc(ctx, a.cfg.QuestionDelay); err != nil {
				return nil, err
			}
		}

		finding, err := a.answerer.AnswerQuestion(ctx, question, topicContext)
		if err != nil {
			return nil, fmt.Errorf("research question %d: %w", i+1, err)
		}
		researched.Findings = append(researched.Findings, finding)
	}

	researched.OverallConfidence = meanConfidence(researched.Findings)
	researched.CanPublish = a.canPublish(researched)
	return researched, nil
}

func meanConfidence(findings []model.ResearchFinding) float64 {
	if len(findings) == 0 {
		return 0
	}
	var sum float64
	for _, f := range findings {
		sum += f.Confidence
	}
	return sum / float64(len(findings))
}

// canPublish requires both enough aggregate confidence and at least one
// trusted anchor: an S/A source among the findings, or a primary source
// URL that itself classifies S/A.
func (a *Aggregator) canPublish(researched *model.ResearchedTopic) bool {
	if researched.OverallConfidence < a.cfg.PublishThreshold {
		return false
	}

	for _, finding := range researched.Findings {
		if model.HasTrusted(finding.Sources) {
			return true
		}
	}

	return researched.SourceURL != "" && a.classifier.Classify(researched.SourceURL).Trusted()
}
