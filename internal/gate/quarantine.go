package gate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/kks0488/aionda-sub000/internal/model"
)

// quarantine pulls failing untracked files out of the publish set.
//
// Ledger entries are atomic: when any file of an entry is doomed, every
// untracked file of that entry moves to the batch directory and the whole
// entry leaves the ledger. Tracked files are never moved; their presence
// among the failing set is reported back as an error by the caller.
func (o *Orchestrator) quarantine(ledger model.Ledger, failing []string, report model.VerifyReport, reportPath string) ([]string, error) {
	doomed := make(map[string]bool)
	for _, file := range failing {
		doomed[file] = true
		if entry, ok := ledger.EntryFor(file); ok {
			for _, sibling := range entry.Files {
				doomed[sibling] = true
			}
		}
	}

	var moved []string
	for file := range doomed {
		if o.tracker.IsTracked(file) {
			// Never quarantine a published file, even as a sibling.
			delete(doomed, file)
			continue
		}
		moved = append(moved, file)
	}
	sort.Strings(moved)

	if len(moved) == 0 {
		return nil, nil
	}

	batchDir, err := o.repo.NewQuarantineBatch(time.Now().UTC())
	if err != nil {
		return nil, err
	}

	for _, file := range moved {
		if err := moveIntoBatch(batchDir, file); err != nil {
			return nil, fmt.Errorf("quarantine %s: %w", file, err)
		}
		o.logf("quarantined %s", file)
	}

	manifest := model.QuarantineManifest{
		GeneratedAt: time.Now().UTC(),
		Reason:      "verify_failed",
		Report:      reportPath,
		Files:       moved,
		Details:     make(map[string]model.FileMetrics),
	}
	for _, fileReport := range report.Reports {
		for _, file := range moved {
			if fileReport.File == file {
				manifest.Details[file] = fileReport.Metrics()
			}
		}
	}
	if _, err := o.repo.AppendManifest(batchDir, manifest); err != nil {
		return nil, err
	}

	rebuilt := ledger.RemoveFiles(moved)
	if err := o.repo.WriteLedger(rebuilt); err != nil {
		return nil, err
	}

	return moved, nil
}

// moveIntoBatch relocates a file under the batch directory, mirroring its
// relative path so locale pairs stay recognizable.
func moveIntoBatch(batchDir, file string) error {
	rel := file
	if filepath.IsAbs(file) {
		if r, err := filepath.Rel(string(filepath.Separator), file); err == nil {
			rel = r
		}
	}
	dest := filepath.Join(batchDir, rel)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	if err := os.Rename(file, dest); err == nil {
		return nil
	}
	// Rename fails across filesystems; fall back to copy and delete.
	return copyAndRemove(file, dest)
}

func copyAndRemove(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
