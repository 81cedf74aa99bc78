// Package store keeps the pipeline's on-disk records: the Ledger, the
// VerifyReports, and the QuarantineManifests. Files are the system of
// record; the Repository interface keeps the backend swappable without
// touching orchestration logic. Single writer per run is assumed.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/kks0488/aionda-sub000/internal/model"
)

// ValidationError reports a malformed record on disk. It aborts the run
// with a diagnostic; no repair is attempted.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid record %s: %s", e.Path, e.Reason)
}

// Repository is the narrow storage surface the orchestrator depends on
type Repository interface {
	// ReadLedger loads the current ledger. A missing ledger reads as empty.
	ReadLedger() (model.Ledger, error)

	// WriteLedger rewrites the ledger wholesale
	WriteLedger(ledger model.Ledger) error

	// WriteReport stores one verification attempt and returns its path
	WriteReport(report model.VerifyReport) (string, error)

	// FindLatestReport returns the newest report by modification time
	FindLatestReport() (model.VerifyReport, string, error)

	// NewQuarantineBatch creates a timestamped quarantine directory
	NewQuarantineBatch(at time.Time) (string, error)

	// AppendManifest writes the manifest for one quarantine batch
	AppendManifest(batchDir string, manifest model.QuarantineManifest) (string, error)
}

// FileStore implements Repository on the local filesystem
type FileStore struct {
	ledgerPath    string
	reportDir     string
	quarantineDir string
}

// NewFileStore creates a file-backed repository
func NewFileStore(cfg model.GateConfig) *FileStore {
	return &FileStore{
		ledgerPath:    cfg.LedgerPath,
		reportDir:     cfg.ReportDir,
		quarantineDir: cfg.QuarantineDir,
	}
}

// ReadLedger loads the ledger; a missing file is an empty ledger
func (s *FileStore) ReadLedger() (model.Ledger, error) {
	data, err := os.ReadFile(s.ledgerPath)
	if os.IsNotExist(err) {
		return model.Ledger{}, nil
	}
	if err != nil {
		return model.Ledger{}, fmt.Errorf("read ledger: %w", err)
	}

	var ledger model.Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return model.Ledger{}, &ValidationError{Path: s.ledgerPath, Reason: err.Error()}
	}
	for i, entry := range ledger.Entries {
		if len(entry.Files) == 0 {
			return model.Ledger{}, &ValidationError{
				Path:   s.ledgerPath,
				Reason: fmt.Sprintf("entry %d (%s) has no files", i, entry.Slug),
			}
		}
	}
	return ledger, nil
}

// WriteLedger rewrites the ledger on disk
func (s *FileStore) WriteLedger(ledger model.Ledger) error {
	return writeJSON(s.ledgerPath, ledger)
}

// WriteReport stores one verification attempt under a timestamped name
func (s *FileStore) WriteReport(report model.VerifyReport) (string, error) {
	if err := os.MkdirAll(s.reportDir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	stamp := time.Now().UTC().Format("20060102-150405.000000")
	path := filepath.Join(s.reportDir, fmt.Sprintf("verify-%s.json", stamp))
	for n := 1; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		path = filepath.Join(s.reportDir, fmt.Sprintf("verify-%s-%d.json", stamp, n))
	}
	if err := writeJSON(path, report); err != nil {
		return "", err
	}
	return path, nil
}

// FindLatestReport returns the newest verify report by modification time
func (s *FileStore) FindLatestReport() (model.VerifyReport, string, error) {
	matches, err := filepath.Glob(filepath.Join(s.reportDir, "verify-*.json"))
	if err != nil {
		return model.VerifyReport{}, "", fmt.Errorf("list reports: %w", err)
	}
	if len(matches) == 0 {
		return model.VerifyReport{}, "", fmt.Errorf("no verify reports in %s", s.reportDir)
	}

	sort.Slice(matches, func(i, j int) bool {
		return modTime(matches[i]).After(modTime(matches[j]))
	})

	path := matches[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return model.VerifyReport{}, "", fmt.Errorf("read report: %w", err)
	}

	var report model.VerifyReport
	if err := json.Unmarshal(data, &report); err != nil {
		return model.VerifyReport{}, "", &ValidationError{Path: path, Reason: err.Error()}
	}
	return report, path, nil
}

// NewQuarantineBatch creates the holding directory for one quarantine event
func (s *FileStore) NewQuarantineBatch(at time.Time) (string, error) {
	dir := filepath.Join(s.quarantineDir, at.UTC().Format("20060102-150405"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create quarantine dir: %w", err)
	}
	return dir, nil
}

// AppendManifest writes the batch manifest and returns its path
func (s *FileStore) AppendManifest(batchDir string, manifest model.QuarantineManifest) (string, error) {
	path := filepath.Join(batchDir, "manifest.json")
	if err := writeJSON(path, manifest); err != nil {
		return "", err
	}
	return path, nil
}

func writeJSON(path string, v interface{}) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
