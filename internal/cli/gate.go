package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kks0488/aionda-sub000/internal/gate"
	"github.com/kks0488/aionda-sub000/internal/lint"
	"github.com/kks0488/aionda-sub000/internal/store"
)

var (
	gateStrict    bool
	gateVerify    bool
	gateTimeout   time.Duration
	gateFixCmd    string
	gateRepairCmd string
)

// gateCmd represents the gate command
var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Run the publication gate over the current ledger",
	Long: `Gate runs the full pre-publish pipeline over the files recorded in
the generation ledger:

1. FIX    - deterministic content auto-correctors (idempotent)
2. LINT   - frontmatter and link structure checks
3. VERIFY - claim extraction and evidence-gated verification

Files whose high-priority claims fail get bounded repair passes;
transient failures get bounded backoff retries; everything still
failing is quarantined together with its locale sibling. Files that
are already tracked in git are never quarantined - a failure there
fails the run instead.

All three stages run by default. Pass --verify=false to skip the
VERIFY stage for a fast fix-and-lint-only pass.

Example:
  aionda gate
  aionda gate --strict
  aionda gate --verify=false --strict`,
	Args: cobra.NoArgs,
	RunE: runGate,
}

func init() {
	rootCmd.AddCommand(gateCmd)

	gateCmd.Flags().BoolVar(&gateStrict, "strict", false, "lint failures become fatal after one auto-fix pass")
	gateCmd.Flags().BoolVar(&gateVerify, "verify", true, "run the claim-verification stage (on by default; pass --verify=false to skip it)")
	gateCmd.Flags().DurationVar(&gateTimeout, "timeout", 45*time.Minute, "overall gate timeout")
	gateCmd.Flags().StringVar(&gateFixCmd, "fix-cmd", "", "external auto-fix command (receives the run's files)")
	gateCmd.Flags().StringVar(&gateRepairCmd, "repair-cmd", "", "external content-repair command (receives the failing files)")
}

func runGate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), gateTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repo := store.NewFileStore(cfg.Gate)

	var runner gate.Runner
	if gateVerify {
		tc, err := buildToolchain(cfg)
		if err != nil {
			return err
		}
		runner = gate.NewClaimRunner(tc.provider, tc.extractor, tc.verifier, cfg.Verify)
	}

	var fixer gate.Fixer = gate.NopHook{}
	if gateFixCmd != "" {
		fixer = gate.CommandHook{Name: gateFixCmd}
	}
	var repairer gate.Repairer = gate.NopHook{}
	if gateRepairCmd != "" {
		repairer = gate.CommandHook{Name: gateRepairCmd}
	}

	orchestrator := gate.NewOrchestrator(
		cfg.Gate,
		repo,
		runner,
		fixer,
		lint.New(0),
		repairer,
		gate.NewGitTracker("."),
		gate.Options{Strict: gateStrict, Verify: gateVerify},
	)

	outcome, err := orchestrator.Run(ctx)
	if err != nil {
		return fmt.Errorf("gate: %w", err)
	}

	if verbose || outcome == gate.OutcomeSkip {
		fmt.Fprintf(os.Stderr, "gate finished: %s\n", outcome)
	}
	return nil
}
