// Package retry is the single retry-policy abstraction shared by every
// network-calling component. Callers classify errors into a small taxonomy;
// only transient classes are retried, with exponential backoff plus jitter.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Class buckets an error for retry purposes
type Class int

const (
	ClassNone      Class = iota
	ClassAuth            // bad credentials or misconfigured provider: fatal
	ClassRateLimit       // 429/quota: retryable
	ClassNetwork         // DNS, refused, reset: retryable
	ClassServer          // provider 5xx: retryable
	ClassTimeout         // deadline or abort: retryable
	ClassParse           // local parse failure: degrade, never retry the call
	ClassUnknown
)

func (c Class) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassAuth:
		return "auth"
	case ClassRateLimit:
		return "rate_limit"
	case ClassNetwork:
		return "network"
	case ClassServer:
		return "server"
	case ClassTimeout:
		return "timeout"
	case ClassParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Retryable reports whether the class is worth another attempt
func (c Class) Retryable() bool {
	switch c {
	case ClassRateLimit, ClassNetwork, ClassServer, ClassTimeout:
		return true
	default:
		return false
	}
}

// Classifier maps an error to a Class
type Classifier func(error) Class

// Policy bounds a retry loop
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Classify    Classifier
}

// DefaultPolicy covers search-grounded generation calls
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 6,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		Classify:    ClassifyProviderError,
	}
}

// WithAttempts returns a copy of the policy with a different attempt budget
func (p Policy) WithAttempts(attempts int) Policy {
	p.MaxAttempts = attempts
	return p
}

// sleepFunc is injectable for tests
var sleepFunc = sleep

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Do runs fn until it succeeds, a non-retryable error occurs, or the
// attempt budget is exhausted. The last error is returned wrapped with its
// class.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	classify := p.Classify
	if classify == nil {
		classify = ClassifyProviderError
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if serr := sleepFunc(ctx, p.backoff(attempt)); serr != nil {
				return serr
			}
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}

		class := classify(err)
		if !class.Retryable() {
			return fmt.Errorf("%s: %w", class, err)
		}
	}

	return fmt.Errorf("%s after %d attempts: %w", classifyOrUnknown(classify, err), attempts, err)
}

func classifyOrUnknown(classify Classifier, err error) Class {
	if err == nil {
		return ClassNone
	}
	return classify(err)
}

// backoff computes the delay before the given (1-based) retry attempt:
// base doubled per attempt, capped, with up to 25% random jitter.
func (p Policy) backoff(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = time.Second
	}
	d := base << uint(attempt-1)
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(d)/4 + 1))
	return d + jitter
}

// ClassifyProviderError classifies errors from generation-collaborator and
// HTTP calls. Auth failures are fatal; rate limits, network faults, 5xx and
// timeouts are transient.
func ClassifyProviderError(err error) Class {
	if err == nil {
		return ClassNone
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ClassTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ClassTimeout
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 401 || apiErr.HTTPStatusCode == 403:
			return ClassAuth
		case apiErr.HTTPStatusCode == 429:
			return ClassRateLimit
		case apiErr.HTTPStatusCode >= 500:
			return ClassServer
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ClassTimeout
		}
		return ClassNetwork
	}

	// String matching as a last resort: wrapped errors from transports and
	// SDKs do not always expose typed causes.
	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "api key"),
		strings.Contains(s, "unauthorized"),
		strings.Contains(s, "invalid authentication"),
		strings.Contains(s, "status code: 401"),
		strings.Contains(s, "status code: 403"):
		return ClassAuth
	case strings.Contains(s, "rate limit"),
		strings.Contains(s, "quota"),
		strings.Contains(s, "status code: 429"):
		return ClassRateLimit
	case strings.Contains(s, "timeout"),
		strings.Contains(s, "timed out"),
		strings.Contains(s, "deadline exceeded"),
		strings.Contains(s, "abort"):
		return ClassTimeout
	case strings.Contains(s, "connection refused"),
		strings.Contains(s, "connection reset"),
		strings.Contains(s, "no such host"),
		strings.Contains(s, "network"),
		strings.Contains(s, "eof"):
		return ClassNetwork
	case strings.Contains(s, "status code: 5"),
		strings.Contains(s, "internal server error"),
		strings.Contains(s, "bad gateway"),
		strings.Contains(s, "service unavailable"):
		return ClassServer
	}

	return ClassUnknown
}
