package lint

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const goodPost = `---
title: Go 1.24 release notes
date: 2026-08-01
---

# Go 1.24

See the [official notes](https://go.dev/doc/go1.24) for details.
`

func TestLintCleanFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "good.md", goodPost)

	if err := New(4).Lint(context.Background(), []string{path}); err != nil {
		t.Errorf("Lint() = %v, want nil", err)
	}
}

func TestLintMissingFrontmatter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bare.md", "# No metadata\n\nBody.\n")

	issues := New(4).Check(context.Background(), []string{path})
	if len(issues) != 1 || !strings.Contains(issues[0].Reason, "frontmatter") {
		t.Errorf("issues = %v, want one frontmatter issue", issues)
	}
}

func TestLintMissingTitle(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "untitled.md", "---\ndate: 2026-08-01\n---\n\nBody.\n")

	issues := New(4).Check(context.Background(), []string{path})
	if len(issues) != 1 || !strings.Contains(issues[0].Reason, "title") {
		t.Errorf("issues = %v, want a missing-title issue", issues)
	}
}

func TestLintEmptyBody(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.md", "---\ntitle: T\n---\n")

	issues := New(4).Check(context.Background(), []string{path})
	if len(issues) != 1 || !strings.Contains(issues[0].Reason, "empty body") {
		t.Errorf("issues = %v, want an empty-body issue", issues)
	}
}

func TestLintMalformedLink(t *testing.T) {
	dir := t.TempDir()
	content := "---\ntitle: T\n---\n\nSee [docs](ftp://example.com/file) here.\n"
	path := writeFile(t, dir, "badlink.md", content)

	issues := New(4).Check(context.Background(), []string{path})
	if len(issues) != 1 || !strings.Contains(issues[0].Reason, "malformed link") {
		t.Errorf("issues = %v, want a malformed-link issue", issues)
	}
}

func TestLintRelativeLinksIgnored(t *testing.T) {
	dir := t.TempDir()
	content := "---\ntitle: T\n---\n\nSee [other post](/ko/other-post/) too.\n"
	path := writeFile(t, dir, "relative.md", content)

	if issues := New(4).Check(context.Background(), []string{path}); len(issues) != 0 {
		t.Errorf("issues = %v, want none for relative links", issues)
	}
}

func TestLintUnreadableFile(t *testing.T) {
	issues := New(4).Check(context.Background(), []string{"/does/not/exist.md"})
	if len(issues) != 1 || !strings.Contains(issues[0].Reason, "unreadable") {
		t.Errorf("issues = %v, want an unreadable issue", issues)
	}
}

func TestLintManyFilesSorted(t *testing.T) {
	dir := t.TempDir()
	var files []string
	files = append(files, writeFile(t, dir, "b.md", "# no frontmatter\n"))
	files = append(files, writeFile(t, dir, "a.md", "# no frontmatter\n"))
	files = append(files, writeFile(t, dir, "c.md", goodPost))

	issues := New(2).Check(context.Background(), files)
	if len(issues) != 2 {
		t.Fatalf("issues = %d, want 2", len(issues))
	}
	if !strings.HasSuffix(issues[0].File, "a.md") || !strings.HasSuffix(issues[1].File, "b.md") {
		t.Errorf("issues not sorted by file: %v", issues)
	}
}
