// Package lint validates generated posts before they are verified:
// frontmatter shape, required fields, and well-formed outbound links.
// It is structural only; factual checking belongs to the verify stage.
package lint

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/kks0488/aionda-sub000/internal/urlcheck"
)

// Issue is one structural problem found in a file
type Issue struct {
	File   string
	Reason string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.File, i.Reason)
}

// Linter checks files concurrently with a bounded worker count
type Linter struct {
	maxWorkers int
}

func New(maxWorkers int) *Linter {
	if maxWorkers <= 0 {
		maxWorkers = 8
	}
	return &Linter{maxWorkers: maxWorkers}
}

// Lint checks every file and returns an error describing all issues found
func (l *Linter) Lint(ctx context.Context, files []string) error {
	issues := l.Check(ctx, files)
	if len(issues) == 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d lint issue(s):", len(issues))
	for _, issue := range issues {
		b.WriteString("\n  " + issue.String())
	}
	return fmt.Errorf("%s", b.String())
}

// Check lints all files concurrently and returns the issues sorted by file
func (l *Linter) Check(ctx context.Context, files []string) []Issue {
	var (
		mu     sync.Mutex
		issues []Issue
		wg     sync.WaitGroup
	)
	semaphore := make(chan struct{}, l.maxWorkers)

	for _, file := range files {
		wg.Add(1)
		go func(file string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				mu.Lock()
				issues = append(issues, Issue{File: file, Reason: "lint cancelled"})
				mu.Unlock()
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			found := lintFile(file)
			if len(found) > 0 {
				mu.Lock()
				issues = append(issues, found...)
				mu.Unlock()
			}
		}(file)
	}
	wg.Wait()

	sort.Slice(issues, func(i, j int) bool {
		if issues[i].File != issues[j].File {
			return issues[i].File < issues[j].File
		}
		return issues[i].Reason < issues[j].Reason
	})
	return issues
}

// frontmatter is the subset of post metadata the linter cares about
type frontmatter struct {
	Title string `yaml:"title"`
	Date  string `yaml:"date"`
}

func lintFile(file string) []Issue {
	data, err := os.ReadFile(file)
	if err != nil {
		return []Issue{{File: file, Reason: fmt.Sprintf("unreadable: %v", err)}}
	}
	content := string(data)

	var issues []Issue
	meta, body, ok := splitFrontmatter(content)
	switch {
	case !ok:
		issues = append(issues, Issue{File: file, Reason: "missing or unterminated frontmatter"})
		body = content
	default:
		var fm frontmatter
		if err := yaml.Unmarshal([]byte(meta), &fm); err != nil {
			issues = append(issues, Issue{File: file, Reason: fmt.Sprintf("invalid frontmatter: %v", err)})
		} else if strings.TrimSpace(fm.Title) == "" {
			issues = append(issues, Issue{File: file, Reason: "frontmatter missing title"})
		}
	}

	if strings.TrimSpace(body) == "" {
		issues = append(issues, Issue{File: file, Reason: "empty body"})
	}

	for _, link := range markdownLinks(body) {
		if !urlcheck.IsHTTP(link) {
			issues = append(issues, Issue{File: file, Reason: fmt.Sprintf("malformed link: %s", link)})
		}
	}

	return issues
}

// splitFrontmatter separates a leading YAML block from the body
func splitFrontmatter(content string) (meta, body string, ok bool) {
	if !strings.HasPrefix(content, "---\n") && !strings.HasPrefix(content, "---\r\n") {
		return "", content, false
	}
	rest := content[strings.Index(content, "\n")+1:]
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return "", content, false
	}
	meta = rest[:idx]
	body = rest[idx+len("\n---"):]
	if nl := strings.Index(body, "\n"); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = ""
	}
	return meta, body, true
}

// linkPattern matches inline markdown links with an absolute target.
// Relative links are site-internal and not the linter's business.
var linkPattern = regexp.MustCompile(`\]\(([a-zA-Z][a-zA-Z0-9+.-]*://[^)\s]+)\)`)

func markdownLinks(body string) []string {
	var links []string
	for _, match := range linkPattern.FindAllStringSubmatch(body, -1) {
		links = append(links, match[1])
	}
	return links
}
