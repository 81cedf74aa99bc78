// Package gate runs the publication gate: deterministic fixes, lint,
// then claim verification with a bounded self-heal ladder. Content that
// cannot be healed is quarantined; already-published content is never
// touched.
package gate

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gofrs/flock"

	"github.com/kks0488/aionda-sub000/internal/model"
	"github.com/kks0488/aionda-sub000/internal/store"
)

// Outcome is the terminal state of a gate run
type Outcome string

const (
	// OutcomeDone: the run completed; every remaining ledger file passed.
	OutcomeDone Outcome = "done"
	// OutcomeSkip: nothing to verify, the run was a no-op.
	OutcomeSkip Outcome = "skip"
)

// sleep between transient retries, replaceable in tests
var sleepFunc = time.Sleep

// Options configures one gate run
type Options struct {
	// Strict promotes lint failures to fatal after one auto-fix pass
	Strict bool
	// Verify enables the claim-verification stage
	Verify bool
}

// Orchestrator drives the fix, lint, and verify stages over the current
// ledger. It owns the self-heal ladder: hard failures get bounded repair
// passes, transient failures get bounded backoff retries, everything else
// escalates to quarantine.
type Orchestrator struct {
	cfg      model.GateConfig
	repo     store.Repository
	runner   Runner
	fixer    Fixer
	linter   Linter
	repairer Repairer
	tracker  Tracker
	opts     Options
	logOut   io.Writer
}

func NewOrchestrator(cfg model.GateConfig, repo store.Repository, runner Runner, fixer Fixer, linter Linter, repairer Repairer, tracker Tracker, opts Options) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		repo:     repo,
		runner:   runner,
		fixer:    fixer,
		linter:   linter,
		repairer: repairer,
		tracker:  tracker,
		opts:     opts,
		logOut:   os.Stderr,
	}
}

// SetLogOutput redirects run progress messages
func (o *Orchestrator) SetLogOutput(w io.Writer) { o.logOut = w }

func (o *Orchestrator) logf(format string, args ...interface{}) {
	if o.logOut != nil {
		fmt.Fprintf(o.logOut, format+"\n", args...)
	}
}

// Run executes one gate pass. It returns an error only when no further
// automated progress is possible: a held lock, a provider auth failure, a
// corrupt on-disk record, or a tracked file that failed verification.
func (o *Orchestrator) Run(ctx context.Context) (Outcome, error) {
	if o.cfg.LockPath != "" {
		lock := flock.New(o.cfg.LockPath)
		locked, err := lock.TryLock()
		if err != nil {
			return "", fmt.Errorf("acquire gate lock: %w", err)
		}
		if !locked {
			return "", fmt.Errorf("another gate run holds %s", o.cfg.LockPath)
		}
		defer lock.Unlock()
	}

	ledger, err := o.repo.ReadLedger()
	if err != nil {
		return "", err
	}
	files := ledger.Files

	if err := o.fixer.Fix(ctx, files); err != nil {
		return "", fmt.Errorf("fix stage: %w", err)
	}
	o.logf("fix stage complete (%d files)", len(files))

	if err := o.lintStage(ctx, files); err != nil {
		return "", err
	}

	if !o.opts.Verify {
		o.logf("verification disabled, done")
		return OutcomeDone, nil
	}
	if len(files) == 0 {
		o.logf("ledger is empty, nothing to verify")
		return OutcomeSkip, nil
	}
	return o.verifyStage(ctx, ledger)
}

// lintStage validates structure. Outside strict mode a lint failure is
// reported and tolerated; in strict mode it gets exactly one auto-fix
// pass before becoming fatal.
func (o *Orchestrator) lintStage(ctx context.Context, files []string) error {
	err := o.linter.Lint(ctx, files)
	if err == nil {
		o.logf("lint stage complete")
		return nil
	}
	if !o.opts.Strict {
		o.logf("lint failed (non-strict, continuing): %v", err)
		return nil
	}

	o.logf("lint failed, attempting auto-fix: %v", err)
	if fixErr := o.fixer.Fix(ctx, files); fixErr != nil {
		return fmt.Errorf("lint auto-fix: %w", fixErr)
	}
	if err := o.linter.Lint(ctx, files); err != nil {
		return fmt.Errorf("lint failed after auto-fix: %w", err)
	}
	o.logf("lint stage complete after auto-fix")
	return nil
}

// verifyStage runs the self-heal ladder until every remaining file passes
// or the budgets are exhausted and the survivors are quarantined.
func (o *Orchestrator) verifyStage(ctx context.Context, ledger model.Ledger) (Outcome, error) {
	current := ledger.Files
	repairs := 0
	retries := 0
	backoff := o.cfg.TransientBackoff

	for {
		report, err := o.runner.VerifyFiles(ctx, current)
		if err != nil {
			return "", err
		}
		reportPath, err := o.repo.WriteReport(report)
		if err != nil {
			return "", err
		}

		var hard, transient, other []string
		for _, fileReport := range report.Reports {
			switch classifyFile(fileReport) {
			case classHard:
				hard = append(hard, fileReport.File)
			case classTransient:
				transient = append(transient, fileReport.File)
			case classNonActionable:
				other = append(other, fileReport.File)
			}
		}
		failing := append(append(append([]string{}, hard...), transient...), other...)

		if len(failing) == 0 {
			o.logf("verification passed (%d files)", len(current))
			return OutcomeDone, nil
		}
		o.logf("verification: %d hard, %d transient, %d non-actionable", len(hard), len(transient), len(other))

		if len(hard) > 0 && repairs < o.cfg.MaxRepairPasses {
			repairs++
			o.logf("repair pass %d/%d on %d files", repairs, o.cfg.MaxRepairPasses, len(hard))
			if err := o.repairer.Repair(ctx, hard); err != nil {
				return "", fmt.Errorf("repair stage: %w", err)
			}
			current = failing
			continue
		}

		if len(hard) == 0 && len(other) == 0 && retries < o.cfg.MaxTransientRetries {
			retries++
			o.logf("transient failures, retry %d/%d after %s", retries, o.cfg.MaxTransientRetries, backoff)
			sleepFunc(backoff)
			backoff *= 2
			current = transient
			continue
		}

		moved, err := o.quarantine(ledger, failing, report, reportPath)
		if err != nil {
			return "", err
		}

		var tracked []string
		movedSet := make(map[string]bool, len(moved))
		for _, file := range moved {
			movedSet[file] = true
		}
		for _, file := range failing {
			if !movedSet[file] {
				tracked = append(tracked, file)
			}
		}
		if len(tracked) > 0 {
			return "", fmt.Errorf("tracked files failed verification and cannot be quarantined: %v", tracked)
		}

		rebuilt, err := o.repo.ReadLedger()
		if err != nil {
			return "", err
		}
		if len(rebuilt.Files) == 0 {
			o.logf("quarantined %d files, nothing left to verify", len(moved))
			return OutcomeSkip, nil
		}
		o.logf("quarantined %d files, %d remain published", len(moved), len(rebuilt.Files))
		return OutcomeDone, nil
	}
}
