package gate

import (
	"strings"

	"github.com/kks0488/aionda-sub000/internal/model"
)

// fileClass is the verdict the orchestrator derives from one FileReport
type fileClass int

const (
	classPassing fileClass = iota
	// classHard: at least one high-priority claim genuinely failed; the
	// content needs repair before re-verification.
	classHard
	// classTransient: every failure looks like infrastructure, not
	// content; back off and re-verify unchanged.
	classTransient
	// classNonActionable: claims exist, none verified, and no signature
	// points at either content or infrastructure. No retry helps.
	classNonActionable
)

func (c fileClass) String() string {
	switch c {
	case classPassing:
		return "passing"
	case classHard:
		return "hard"
	case classTransient:
		return "transient"
	default:
		return "non-actionable"
	}
}

// transientSignatures mark failure notes attributable to retryable
// infrastructure faults rather than wrong content.
var transientSignatures = []string{
	"timeout", "timed out", "abort",
	"network", "connection", "econn", "no such host",
	"rate limit", "quota",
	"parse failure", "parse", "unable to verify",
	"server", "unavailable",
}

func isTransientNote(note string) bool {
	s := strings.ToLower(note)
	for _, sig := range transientSignatures {
		if strings.Contains(s, sig) {
			return true
		}
	}
	return false
}

// classifyFile reduces a file's verification outcome to a class.
//
// A file fails when a high-priority claim failed or when nothing at all
// verified. High-priority failures decide hard vs transient; with no
// high-priority failures, a transient note anywhere rescues the file into
// a retry, otherwise it is non-actionable.
func classifyFile(report model.FileReport) fileClass {
	if report.ClaimsChecked == 0 {
		return classPassing
	}

	var failedHigh []model.ClaimResult
	for _, result := range report.Results {
		if !result.Verified && result.Priority == model.PriorityHigh {
			failedHigh = append(failedHigh, result)
		}
	}

	if len(failedHigh) > 0 {
		for _, result := range failedHigh {
			if !isTransientNote(result.Notes) {
				return classHard
			}
		}
		return classTransient
	}

	if report.VerifiedClaims == 0 {
		for _, result := range report.Results {
			if !result.Verified && isTransientNote(result.Notes) {
				return classTransient
			}
		}
		return classNonActionable
	}

	return classPassing
}
