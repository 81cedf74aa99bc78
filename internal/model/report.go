package model

import "time"

// VerifyReport is the write-once artifact of one verification attempt
// across the ledger's files. The newest report (by modification time) is
// the one the gate acts on.
type VerifyReport struct {
	Reports []FileReport `json:"reports"`
}

// FileReport summarizes claim verification for a single file
type FileReport struct {
	File               string        `json:"file"`
	ClaimsChecked      int           `json:"claimsChecked"`
	VerifiedClaims     int           `json:"verifiedClaims"`
	FailedHighPriority int           `json:"failedHighPriority"`
	AvgConfidence      float64       `json:"avgConfidence"`
	Results            []ClaimResult `json:"results"`
}

// ClaimResult is the per-claim row inside a FileReport
type ClaimResult struct {
	Priority ClaimPriority `json:"priority"`
	Verified bool          `json:"verified"`
	Notes    string        `json:"notes,omitempty"`
}

// Metrics extracts the per-file numbers recorded in a quarantine manifest
func (r FileReport) Metrics() FileMetrics {
	return FileMetrics{
		ClaimsChecked:      r.ClaimsChecked,
		VerifiedClaims:     r.VerifiedClaims,
		FailedHighPriority: r.FailedHighPriority,
		AvgConfidence:      r.AvgConfidence,
	}
}

// BuildFileReport computes the summary rows for one file's verified claims
func BuildFileReport(file string, claims []Claim) FileReport {
	report := FileReport{File: file, ClaimsChecked: len(claims)}

	var confidenceSum float64
	for _, c := range claims {
		if c.Verified {
			report.VerifiedClaims++
		} else if c.Priority == PriorityHigh {
			report.FailedHighPriority++
		}
		confidenceSum += c.Confidence
		report.Results = append(report.Results, ClaimResult{
			Priority: c.Priority,
			Verified: c.Verified,
			Notes:    c.Notes,
		})
	}
	if len(claims) > 0 {
		report.AvgConfidence = confidenceSum / float64(len(claims))
	}
	return report
}

// QuarantineManifest documents one quarantine batch: which files were
// pulled, the report that triggered it, and per-file failure metrics.
// Manifests are append-only; one is written per quarantine event.
type QuarantineManifest struct {
	GeneratedAt time.Time              `json:"generatedAt"`
	Reason      string                 `json:"reason"`
	Report      string                 `json:"report"`
	Files       []string               `json:"files"`
	Details     map[string]FileMetrics `json:"details"`
}

// FileMetrics is the failure summary recorded per quarantined file
type FileMetrics struct {
	ClaimsChecked      int     `json:"claimsChecked"`
	VerifiedClaims     int     `json:"verifiedClaims"`
	FailedHighPriority int     `json:"failedHighPriority"`
	AvgConfidence      float64 `json:"avgConfidence"`
}
