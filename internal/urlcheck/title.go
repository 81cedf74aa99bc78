package urlcheck

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/kks0488/aionda-sub000/internal/cache"
	"github.com/kks0488/aionda-sub000/internal/model"
)

// TitleLookup fetches page titles for verified sources. Lookups are cached
// per URL for the process run; a failed lookup caches the empty string so
// each URL is fetched at most once.
type TitleLookup struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	store      cache.Cache
}

// NewTitleLookup creates a title lookup backed by the given per-run cache
func NewTitleLookup(cfg model.HTTPConfig, store cache.Cache) *TitleLookup {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}

	return &TitleLookup{
		httpClient: &http.Client{Timeout: timeout, Transport: newTransport(cfg)},
		userAgent:  cfg.UserAgent,
		maxBytes:   maxBytes,
		store:      store,
	}
}

// Lookup returns the page <title> for the URL, or "" if it cannot be read
func (t *TitleLookup) Lookup(ctx context.Context, rawURL string) string {
	key := cache.Key("title:" + rawURL)
	if data, ok := t.store.Get(key); ok {
		return string(data)
	}

	title := t.fetchTitle(ctx, rawURL)
	_ = t.store.Set(key, []byte(title), cache.NoExpiry)
	return title
}

func (t *TitleLookup) fetchTitle(ctx context.Context, rawURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ""
	}

	body := io.LimitReader(resp.Body, t.maxBytes)
	doc, err := html.Parse(body)
	if err != nil {
		return ""
	}

	return findTitle(doc)
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		var buf strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				buf.WriteString(c.Data)
			}
		}
		return strings.Join(strings.Fields(buf.String()), " ")
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}
	return ""
}
