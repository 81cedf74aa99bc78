package urlcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kks0488/aionda-sub000/internal/cache"
	"github.com/kks0488/aionda-sub000/internal/model"
	"github.com/kks0488/aionda-sub000/internal/worker"
)

// Result is the outcome of one liveness probe
type Result struct {
	URL        string `json:"url"`
	Reachable  bool   `json:"reachable"`
	StatusCode int    `json:"status_code,omitempty"`
	Restricted bool   `json:"restricted,omitempty"` // alive but gated (401/403/429/robots)
	Error      string `json:"error,omitempty"`
}

// Checker probes URLs for liveness. Results are cached for the lifetime of
// the process run; the cache is injected so each run starts fresh.
type Checker struct {
	httpClient *http.Client
	userAgent  string
	store      cache.Cache
	limiter    *worker.Limiter
	robots     *RobotsChecker
}

// NewChecker creates a reachability checker backed by the given per-run cache
func NewChecker(cfg model.HTTPConfig, store cache.Cache) *Checker {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	return &Checker{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: newTransport(cfg),
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after 5 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		store:     store,
		limiter:   worker.NewLimiter(cfg.RatePerDomain, cfg.RateBurst),
		robots:    NewRobotsChecker(cfg.UserAgent, timeout),
	}
}

// IsReachable reports whether the URL answered a probe with a status that
// does not indicate a dead link.
func (c *Checker) IsReachable(ctx context.Context, rawURL string) bool {
	return c.Check(ctx, rawURL).Reachable
}

// Check probes the URL, consulting and filling the per-run cache.
// Each URL is probed at most once per run.
func (c *Checker) Check(ctx context.Context, rawURL string) Result {
	key := cache.Key(rawURL)
	if data, ok := c.store.Get(key); ok {
		var cached Result
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached
		}
	}

	result := c.probe(ctx, rawURL)

	if data, err := json.Marshal(result); err == nil {
		_ = c.store.Set(key, data, cache.NoExpiry)
	}
	return result
}

// probe issues a HEAD request and falls back to a ranged GET on 405
func (c *Checker) probe(ctx context.Context, rawURL string) Result {
	result := Result{URL: rawURL}

	if err := c.limiter.Wait(ctx, rawURL); err != nil {
		result.Error = fmt.Sprintf("rate wait: %v", err)
		return result
	}

	status, err := c.request(ctx, http.MethodHead, rawURL, false)
	if err != nil {
		// Network error or timeout: dead.
		result.Error = err.Error()
		return result
	}

	if status == http.StatusMethodNotAllowed {
		// Some servers reject HEAD outright; retry with a one-byte GET,
		// but only where robots.txt permits fetching the page body.
		if allowed := c.robots.IsAllowed(ctx, rawURL); !allowed {
			result.StatusCode = status
			result.Reachable = true
			result.Restricted = true
			return result
		}
		status, err = c.request(ctx, http.MethodGet, rawURL, true)
		if err != nil {
			result.Error = err.Error()
			return result
		}
	}

	result.StatusCode = status
	result.Reachable, result.Restricted = interpretStatus(status)
	return result
}

func (c *Checker) request(ctx context.Context, method, rawURL string, ranged bool) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "*/*")
	if ranged {
		req.Header.Set("Range", "bytes=0-0")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode, nil
}

// interpretStatus applies the liveness policy: 2xx alive, auth/rate gates
// alive-but-restricted, 404/410 dead, other 4xx alive, 5xx dead at probe
// time.
func interpretStatus(status int) (reachable, restricted bool) {
	switch {
	case status >= 200 && status < 300:
		return true, false
	case status == http.StatusUnauthorized,
		status == http.StatusForbidden,
		status == http.StatusTooManyRequests:
		return true, true
	case status == http.StatusNotFound, status == http.StatusGone:
		return false, false
	case status < 500:
		return true, false
	default:
		return false, false
	}
}

// ResolveRedirect follows an opaque grounding wrapper to its final URL.
// For anything that is not a known opaque wrapper it returns the input
// unchanged.
func (c *Checker) ResolveRedirect(ctx context.Context, rawURL string) string {
	if !IsOpaqueWrapper(rawURL) {
		return rawURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return rawURL
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return rawURL
	}
	defer func() { _ = resp.Body.Close() }()

	if final := resp.Request.URL.String(); final != "" {
		return final
	}
	return rawURL
}
