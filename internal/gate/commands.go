package gate

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Fixer runs deterministic, idempotent content auto-correctors. It is
// invoked unconditionally at the start of every run and again as the
// single lint auto-fix pass in strict mode.
type Fixer interface {
	Fix(ctx context.Context, files []string) error
}

// Linter validates content structure. In strict mode a lint failure is
// allowed one auto-fix pass before it becomes fatal.
type Linter interface {
	Lint(ctx context.Context, files []string) error
}

// Repairer rewrites content whose high-priority claims failed
// verification. It must be deterministic for a given report.
type Repairer interface {
	Repair(ctx context.Context, files []string) error
}

// CommandHook adapts an external command into any of the three hook
// roles. The target files are appended to the argument list.
type CommandHook struct {
	Name string
	Args []string
	Dir  string
}

func (h CommandHook) run(ctx context.Context, files []string) error {
	if h.Name == "" {
		return nil
	}
	args := append(append([]string{}, h.Args...), files...)
	cmd := exec.CommandContext(ctx, h.Name, args...)
	cmd.Dir = h.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return fmt.Errorf("%s: %w", h.Name, err)
		}
		return fmt.Errorf("%s: %w: %s", h.Name, err, msg)
	}
	return nil
}

func (h CommandHook) Fix(ctx context.Context, files []string) error {
	return h.run(ctx, files)
}

func (h CommandHook) Lint(ctx context.Context, files []string) error {
	return h.run(ctx, files)
}

func (h CommandHook) Repair(ctx context.Context, files []string) error {
	return h.run(ctx, files)
}

// NopHook satisfies all three roles and does nothing. Used when a stage
// has no external tool configured.
type NopHook struct{}

func (NopHook) Fix(context.Context, []string) error    { return nil }
func (NopHook) Lint(context.Context, []string) error   { return nil }
func (NopHook) Repair(context.Context, []string) error { return nil }
