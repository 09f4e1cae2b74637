// Package cache holds resolved evidence between evaluations. Keys are
// bound to the truthpack snapshot digest, so a regenerated truthpack can
// never serve stale evidence; eviction is purely TTL-based and nothing
// needs to invalidate an entry by hand.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the read-through store the evidence resolver uses.
// Misses are recomputed and re-set; there is no delete.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
}

// Key generates a cache key for one claim lookup
func Key(snapshotID, claimType, value string) string {
	hash := sha256.Sum256([]byte(snapshotID + "\x00" + claimType + "\x00" + value))
	return "truthgate:v1:" + hex.EncodeToString(hash[:])
}
