package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kks0488/aionda-sub000/internal/model"
	"github.com/kks0488/aionda-sub000/internal/research"
)

var (
	researchTimeout time.Duration
	researchOut     string
)

// researchCmd represents the research command
var researchCmd = &cobra.Command{
	Use:   "research <topic-file>",
	Short: "Research a topic's open questions against the live web",
	Long: `Research reads a topic definition (JSON with topicId, sourceId,
sourceUrl and a list of open questions), answers each question
through a search-grounded call, validates every cited source, and
aggregates the findings into an overall confidence and a publish
decision.

A topic can be published only when the overall confidence clears the
threshold and at least one finding (or the topic's primary source)
rests on a trusted domain.

Example:
  aionda research topic.json
  aionda research topic.json --out researched.json`,
	Args: cobra.ExactArgs(1),
	RunE: runResearch,
}

func init() {
	rootCmd.AddCommand(researchCmd)

	researchCmd.Flags().DurationVar(&researchTimeout, "timeout", 15*time.Minute, "overall research timeout")
	researchCmd.Flags().StringVar(&researchOut, "out", "", "write the researched topic JSON to this path")
}

func runResearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), researchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read topic: %w", err)
	}
	var topic model.Topic
	if err := json.Unmarshal(data, &topic); err != nil {
		return fmt.Errorf("parse topic %s: %w", args[0], err)
	}

	tc, err := buildToolchain(cfg)
	if err != nil {
		return err
	}
	aggregator := research.NewAggregator(tc.verifier, tc.classifier, cfg.Research)

	if verbose {
		fmt.Fprintf(os.Stderr, "Researching %q (%d questions)...\n", topic.TopicID, len(topic.Questions))
	}
	researched, err := aggregator.Research(ctx, topic)
	if err != nil {
		return fmt.Errorf("research: %w", err)
	}

	renderFindingsTable(os.Stdout, *researched)

	if researchOut != "" {
		out, err := json.MarshalIndent(researched, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(researchOut, out, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", researchOut, err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Researched topic written: %s\n", researchOut)
		}
	}

	if !researched.CanPublish {
		return fmt.Errorf("topic %q does not meet the publish bar (confidence %.2f)", topic.TopicID, researched.OverallConfidence)
	}
	return nil
}
