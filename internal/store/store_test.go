package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kks0488/aionda-sub000/internal/model"
)

func testStore(t *testing.T) *FileStore {
	t.Helper()
	dir := t.TempDir()
	return NewFileStore(model.GateConfig{
		LedgerPath:    filepath.Join(dir, "ledger.json"),
		ReportDir:     filepath.Join(dir, "reports"),
		QuarantineDir: filepath.Join(dir, "quarantine"),
	})
}

func TestLedger_RoundTrip(t *testing.T) {
	s := testStore(t)

	ledger := model.Ledger{
		GeneratedAt:  time.Now().UTC().Truncate(time.Second),
		WrittenCount: 2,
		Files:        []string{"content/ko/a.mdx", "content/en/a.mdx"},
		Entries: []model.LedgerEntry{{
			TopicID: "t1", SourceID: "s1", Slug: "a",
			Files:     []string{"content/ko/a.mdx", "content/en/a.mdx"},
			WrittenAt: time.Now().UTC().Truncate(time.Second),
		}},
	}

	if err := s.WriteLedger(ledger); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := s.ReadLedger()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.WrittenCount != 2 || len(got.Entries) != 1 || got.Entries[0].Slug != "a" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestLedger_MissingReadsEmpty(t *testing.T) {
	s := testStore(t)

	ledger, err := s.ReadLedger()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ledger.Files) != 0 || len(ledger.Entries) != 0 {
		t.Errorf("expected empty ledger, got %+v", ledger)
	}
}

func TestLedger_MalformedIsValidationError(t *testing.T) {
	s := testStore(t)
	if err := os.WriteFile(s.ledgerPath, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := s.ReadLedger()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestLedger_EmptyEntryIsValidationError(t *testing.T) {
	s := testStore(t)
	raw := `{"generatedAt": "2026-01-01T00:00:00Z", "writtenCount": 0, "files": [], "entries": [{"topicId": "t", "sourceId": "s", "slug": "x", "files": [], "writtenAt": "2026-01-01T00:00:00Z"}]}`
	if err := os.WriteFile(s.ledgerPath, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := s.ReadLedger()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestReports_LatestByModTime(t *testing.T) {
	s := testStore(t)

	first, err := s.WriteReport(model.VerifyReport{Reports: []model.FileReport{{File: "old.mdx"}}})
	if err != nil {
		t.Fatalf("write first: %v", err)
	}
	second, err := s.WriteReport(model.VerifyReport{Reports: []model.FileReport{{File: "new.mdx"}}})
	if err != nil {
		t.Fatalf("write second: %v", err)
	}
	if first == second {
		t.Fatalf("report paths must be unique, both %s", first)
	}

	// Force distinct modification times regardless of filesystem resolution.
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(first, old, old); err != nil {
		t.Fatal(err)
	}

	report, path, err := s.FindLatestReport()
	if err != nil {
		t.Fatalf("find latest: %v", err)
	}
	if path != second {
		t.Errorf("latest = %s, want %s", path, second)
	}
	if len(report.Reports) != 1 || report.Reports[0].File != "new.mdx" {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestReports_NoneFound(t *testing.T) {
	s := testStore(t)
	if _, _, err := s.FindLatestReport(); err == nil {
		t.Fatal("expected error with no reports on disk")
	}
}

func TestQuarantine_BatchAndManifest(t *testing.T) {
	s := testStore(t)

	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	dir, err := s.NewQuarantineBatch(at)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if filepath.Base(dir) != "20260301-123000" {
		t.Errorf("batch dir = %s, want timestamped name", dir)
	}

	manifest := model.QuarantineManifest{
		GeneratedAt: at,
		Reason:      "verify_failed",
		Report:      "reports/verify-x.json",
		Files:       []string{"content/ko/a.mdx"},
		Details: map[string]model.FileMetrics{
			"content/ko/a.mdx": {ClaimsChecked: 3, VerifiedClaims: 1, FailedHighPriority: 1, AvgConfidence: 0.4},
		},
	}

	path, err := s.AppendManifest(dir, manifest)
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("manifest not written: %v", err)
	}
}
