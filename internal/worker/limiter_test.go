package worker

import (
	"context"
	"testing"
)

func TestLimiter_Defaults(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(0, -1)
	if l2.defaultBurst != 4 {
		t.Errorf("expected default burst 4, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://example.com/foo"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "http://other.com"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_PerDomainTokens(t *testing.T) {
	limiter := NewLimiter(1, 1)
	url := "http://example.com"

	if err := limiter.Wait(context.Background(), url); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}
	if limiter.Allow(url) {
		t.Error("expected exhausted tokens for same domain")
	}
	if !limiter.Allow("http://other.com") {
		t.Error("expected fresh tokens for other domain")
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Burn the token so the second wait must block.
	_ = limiter.Wait(context.Background(), "http://example.com")
	if err := limiter.Wait(ctx, "http://example.com"); err == nil {
		t.Error("expected cancellation error")
	}
}

func TestExtractDomain(t *testing.T) {
	domain, err := extractDomain("http://example.com/foo")
	if err != nil {
		t.Fatalf("extractDomain failed: %v", err)
	}
	if domain != "example.com" {
		t.Errorf("expected example.com, got %s", domain)
	}

	if _, err := extractDomain("::invalid"); err == nil {
		t.Error("expected error for invalid URL")
	}
}
