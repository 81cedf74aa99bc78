package gate

import (
	"os/exec"
	"strings"
	"sync"
)

// Tracker reports whether a path is already part of the published tree.
// Tracked files are never quarantined; they fail the run loudly instead.
type Tracker interface {
	IsTracked(path string) bool
}

// GitTracker asks git whether a path is committed to the index.
type GitTracker struct {
	dir string

	mu    sync.Mutex
	known map[string]bool
}

func NewGitTracker(dir string) *GitTracker {
	return &GitTracker{dir: dir, known: make(map[string]bool)}
}

func (t *GitTracker) IsTracked(path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tracked, ok := t.known[path]; ok {
		return tracked
	}
	cmd := exec.Command("git", "ls-files", "--error-unmatch", "--", path)
	cmd.Dir = t.dir
	err := cmd.Run()
	tracked := err == nil
	t.known[path] = tracked
	return tracked
}

// StaticTracker holds a fixed set of tracked paths. Useful when the
// content tree is not a git checkout.
type StaticTracker struct {
	paths map[string]bool
}

func NewStaticTracker(paths []string) *StaticTracker {
	m := make(map[string]bool, len(paths))
	for _, p := range paths {
		m[strings.TrimSpace(p)] = true
	}
	return &StaticTracker{paths: m}
}

func (t *StaticTracker) IsTracked(path string) bool {
	return t.paths[path]
}
