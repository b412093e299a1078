package cache

import (
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process Store. It is the fallback when no cache
// directory is configured, and the backend of choice in tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// Set implements Store.
func (m *MemoryStore) Set(key string, data []byte, ttl time.Duration) {
	cp := make([]byte, len(data))
	copy(cp, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = Entry{
		StoredAt: m.now(),
		TTL:      normalizeTTL(ttl),
		Data:     cp,
	}
}

// Get implements Store. Expired entries are deleted on read.
func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if entry.Expired(m.now()) {
		delete(m.entries, key)
		return nil, false
	}
	return entry.Data, true
}

// Remove implements Store.
func (m *MemoryStore) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// ClearByPrefix implements Store.
func (m *MemoryStore) ClearByPrefix(prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
}
