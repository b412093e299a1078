// Package cache provides an expiring key-value store for indicator series
// with lazy, read-time eviction and prefix-based bulk invalidation.
package cache

import (
	"encoding/json"
	"time"
)

// DefaultTTL is how long an entry stays fresh unless the caller says otherwise.
const DefaultTTL = time.Hour

// Store is the caching contract the rest of the application depends on.
//
// A Store is a performance optimization, never a correctness dependency:
// implementations must absorb every storage failure (quota, serialization,
// unavailable backend) and degrade to a miss or a no-op instead of returning
// an error.
type Store interface {
	// Set stores data under key, overwriting any existing entry and
	// stamping the current time. A non-positive ttl means DefaultTTL.
	Set(key string, data []byte, ttl time.Duration)

	// Get returns the stored data and true while the entry is fresh.
	// An expired entry is deleted on read and reported as a miss.
	Get(key string) ([]byte, bool)

	// Remove deletes the entry under key, if any.
	Remove(key string)

	// ClearByPrefix removes every entry whose key starts with prefix.
	ClearByPrefix(prefix string)
}

// Entry is the serialized envelope stored under each key.
type Entry struct {
	StoredAt time.Time       `json:"stored_at"`
	TTL      time.Duration   `json:"ttl"`
	Data     json.RawMessage `json:"data"`
}

// Expired reports whether the entry's TTL has elapsed at the given instant.
func (e *Entry) Expired(now time.Time) bool {
	return now.Sub(e.StoredAt) > e.TTL
}

func normalizeTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
