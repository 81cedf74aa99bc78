// Package urlcheck normalizes source URLs and probes them for liveness.
package urlcheck

import (
	"fmt"
	"net/url"
	"strings"
)

func parseAbs(rawURL string) (*url.URL, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("not an absolute URL: %s", rawURL)
	}
	return parsed, nil
}

// wrapperParams maps known redirect-wrapper hosts to the query parameter
// carrying the real target. Search engines and LLM grounding layers hand
// back these wrappers instead of the destination URL.
var wrapperParams = map[string]string{
	"google.com":        "q",
	"news.google.com":   "url",
	"bing.com":          "u",
	"duckduckgo.com":    "uddg",
	"l.facebook.com":    "u",
	"out.reddit.com":    "url",
	"t.umblr.com":       "z",
	"safelinks.protection.outlook.com": "url",
}

// Normalize canonicalizes a URL for identity comparison: known redirect
// wrappers are unwrapped, the host is lower-cased, default ports and the
// fragment are stripped. Identity is scheme+host+path+query.
//
// Normalize is idempotent: Normalize(Normalize(u)) == Normalize(u).
func Normalize(rawURL string) string {
	current := strings.TrimSpace(rawURL)
	// Unwrap to a fixed point. Each unwrap extracts a query parameter
	// value, which is strictly shorter than the wrapper URL, so the loop
	// terminates.
	for {
		next, changed := unwrapOnce(current)
		if !changed {
			break
		}
		current = next
	}
	return canonicalize(current)
}

// unwrapOnce resolves one layer of redirect wrapper, if present
func unwrapOnce(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL, false
	}

	host := strings.ToLower(parsed.Host)
	host = strings.TrimPrefix(host, "www.")

	param, ok := wrapperParams[host]
	if !ok {
		return rawURL, false
	}

	target := parsed.Query().Get(param)
	if target == "" {
		return rawURL, false
	}
	if decoded, err := url.QueryUnescape(target); err == nil {
		target = decoded
	}
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		return rawURL, false
	}
	return target, true
}

func canonicalize(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return strings.TrimSpace(rawURL)
	}

	parsed.Fragment = ""
	parsed.Host = strings.ToLower(parsed.Host)

	// Strip default ports
	if parsed.Scheme == "http" {
		parsed.Host = strings.TrimSuffix(parsed.Host, ":80")
	} else if parsed.Scheme == "https" {
		parsed.Host = strings.TrimSuffix(parsed.Host, ":443")
	}

	return parsed.String()
}

// IsHTTP reports whether the URL has an http or https scheme — the only
// schemes accepted as claim evidence.
func IsHTTP(rawURL string) bool {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// OpaqueWrapperHosts are grounding redirectors whose target is not
// recoverable from the URL itself; resolving them requires following the
// redirect over HTTP (see Checker.ResolveRedirect).
var opaqueWrapperHosts = map[string]bool{
	"vertexaisearch.cloud.google.com": true,
}

// IsOpaqueWrapper reports whether the URL needs network resolution before
// it can be classified.
func IsOpaqueWrapper(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return opaqueWrapperHosts[strings.ToLower(parsed.Host)]
}
