package urlcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kks0488/aionda-sub000/internal/cache"
	"github.com/kks0488/aionda-sub000/internal/model"
)

func testChecker() *Checker {
	cfg := model.DefaultConfig().HTTP
	cfg.Timeout = 3 * time.Second
	cfg.RatePerDomain = 1000
	cfg.RateBurst = 1000
	return NewChecker(cfg, cache.NewRunCache())
}

func TestCheck_StatusPolicy(t *testing.T) {
	tests := []struct {
		status         int
		wantReachable  bool
		wantRestricted bool
	}{
		{200, true, false},
		{204, true, false},
		{301, true, false}, // client follows; a bare 301 without Location stays <400
		{401, true, true},
		{403, true, true},
		{429, true, true},
		{404, false, false},
		{410, false, false},
		{418, true, false},
		{500, false, false},
		{503, false, false},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		result := testChecker().Check(context.Background(), server.URL)
		if result.Reachable != tt.wantReachable {
			t.Errorf("status %d: reachable = %v, want %v", tt.status, result.Reachable, tt.wantReachable)
		}
		if result.Restricted != tt.wantRestricted {
			t.Errorf("status %d: restricted = %v, want %v", tt.status, result.Restricted, tt.wantRestricted)
		}
		server.Close()
	}
}

func TestCheck_HeadFallsBackToRangedGet(t *testing.T) {
	var sawGet atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/robots.txt":
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodHead:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case r.Method == http.MethodGet:
			if r.Header.Get("Range") != "bytes=0-0" {
				t.Errorf("expected ranged GET, got Range=%q", r.Header.Get("Range"))
			}
			sawGet.Store(true)
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	result := testChecker().Check(context.Background(), server.URL+"/page")
	if !result.Reachable {
		t.Errorf("expected reachable after GET fallback, got %+v", result)
	}
	if !sawGet.Load() {
		t.Error("expected GET fallback to be issued")
	}
}

func TestCheck_RobotsDisallowBlocksGetFallback(t *testing.T) {
	var sawPageGet atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/robots.txt":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /\n"))
		case r.Method == http.MethodHead:
			w.WriteHeader(http.StatusMethodNotAllowed)
		default:
			sawPageGet.Store(true)
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	result := testChecker().Check(context.Background(), server.URL+"/page")
	if !result.Reachable || !result.Restricted {
		t.Errorf("robots-blocked probe should be reachable+restricted, got %+v", result)
	}
	if sawPageGet.Load() {
		t.Error("GET fallback must not fetch a robots-disallowed page")
	}
}

func TestCheck_NetworkErrorUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	result := testChecker().Check(context.Background(), server.URL)
	if result.Reachable {
		t.Error("expected unreachable on connection error")
	}
	if result.Error == "" {
		t.Error("expected error to be recorded")
	}
}

func TestCheck_CachedPerRun(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checker := testChecker()
	for i := 0; i < 5; i++ {
		if !checker.IsReachable(context.Background(), server.URL) {
			t.Fatal("expected reachable")
		}
	}

	if got := hits.Load(); got != 1 {
		t.Errorf("expected 1 probe for 5 checks, got %d", got)
	}
}

func TestResolveRedirect_PassThrough(t *testing.T) {
	checker := testChecker()
	url := "https://example.com/a"
	if got := checker.ResolveRedirect(context.Background(), url); got != url {
		t.Errorf("non-wrapper URL changed: %q", got)
	}
}
