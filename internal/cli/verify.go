package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kks0488/aionda-sub000/internal/gate"
	"github.com/kks0488/aionda-sub000/internal/store"
)

var (
	verifyTimeout time.Duration
	verifyNoSave  bool
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [file ...]",
	Short: "Verify the claims in content files",
	Long: `Verify extracts the factual claims from each file and checks them
against current authoritative web sources. With no arguments it
verifies every file in the generation ledger.

The resulting report is stored under the report directory and
summarized on stdout. It does not repair or quarantine anything;
use 'aionda gate' for the full pipeline.

Example:
  aionda verify
  aionda verify content/ko/new-post.md content/en/new-post.md`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 30*time.Minute, "overall verification timeout")
	verifyCmd.Flags().BoolVar(&verifyNoSave, "no-save", false, "print the report without storing it")
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repo := store.NewFileStore(cfg.Gate)

	files := args
	if len(files) == 0 {
		ledger, err := repo.ReadLedger()
		if err != nil {
			return err
		}
		files = ledger.Files
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "nothing to verify")
		return nil
	}

	tc, err := buildToolchain(cfg)
	if err != nil {
		return err
	}
	runner := gate.NewClaimRunner(tc.provider, tc.extractor, tc.verifier, cfg.Verify)

	if verbose {
		fmt.Fprintf(os.Stderr, "Verifying %d file(s)...\n", len(files))
	}
	report, err := runner.VerifyFiles(ctx, files)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	if !verifyNoSave {
		path, err := repo.WriteReport(report)
		if err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Report written: %s\n", path)
		}
	}

	renderReportTable(os.Stdout, report)

	failing := 0
	for _, fr := range report.Reports {
		if fr.FailedHighPriority > 0 {
			failing++
		}
	}
	if failing > 0 {
		return fmt.Errorf("%d file(s) have failing high-priority claims", failing)
	}
	return nil
}
