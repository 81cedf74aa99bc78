// Package cache provides the process-scoped caches shared by the pipeline
// (reachability results, page titles). Caches are explicit, injectable
// objects created at orchestrator start and discarded at process exit;
// nothing here persists across runs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// NoExpiry keeps an entry alive for the rest of the process run
const NoExpiry time.Duration = -1

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a URL
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "aionda:v1:" + hex.EncodeToString(hash[:])
}
