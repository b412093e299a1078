package cache

import (
	"bytes"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	payload := []byte(`[{"date":"2024-03-15T12:00:00Z","value":1234.56}]`)

	s.Set("indicator_uf_2024-01-01_2024-03-15", payload, time.Hour)

	got, ok := s.Get("indicator_uf_2024-01-01_2024-03-15")
	if !ok {
		t.Fatal("expected a cache hit immediately after Set")
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Get returned %q, want %q", got, payload)
	}
}

func TestMemoryStoreMiss(t *testing.T) {
	s := NewMemoryStore()
	if _, ok := s.Get("never_set"); ok {
		t.Error("expected a miss for a key that was never set")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	clock := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	s.Set("k", []byte("v"), time.Hour)

	clock = clock.Add(59 * time.Minute)
	if _, ok := s.Get("k"); !ok {
		t.Error("entry expired before its TTL elapsed")
	}

	clock = clock.Add(2 * time.Minute)
	if _, ok := s.Get("k"); ok {
		t.Error("expected a miss after the TTL elapsed")
	}

	// Expired entries are physically removed on read, so the entry stays
	// gone even if the clock were to move backwards.
	clock = clock.Add(-time.Hour)
	if _, ok := s.Get("k"); ok {
		t.Error("expired entry was not removed on read")
	}
}

func TestMemoryStoreSetRefreshesStoredAt(t *testing.T) {
	s := NewMemoryStore()
	clock := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	s.Set("k", []byte("old"), time.Hour)
	clock = clock.Add(50 * time.Minute)
	s.Set("k", []byte("new"), time.Hour)

	clock = clock.Add(30 * time.Minute)
	got, ok := s.Get("k")
	if !ok {
		t.Fatal("overwritten entry should be fresh for a full TTL")
	}
	if string(got) != "new" {
		t.Errorf("Get returned %q, want %q", got, "new")
	}
}

func TestMemoryStoreRemove(t *testing.T) {
	s := NewMemoryStore()
	s.Set("k", []byte("v"), time.Hour)
	s.Remove("k")
	if _, ok := s.Get("k"); ok {
		t.Error("expected a miss after Remove")
	}
}

func TestMemoryStoreClearByPrefix(t *testing.T) {
	s := NewMemoryStore()
	s.Set("indicator_uf_a_b", []byte("1"), time.Hour)
	s.Set("indicator_usd_a_b", []byte("2"), time.Hour)
	s.Set("session_token", []byte("3"), time.Hour)

	s.ClearByPrefix(IndicatorPrefix)

	if _, ok := s.Get("indicator_uf_a_b"); ok {
		t.Error("indicator_uf_a_b should have been cleared")
	}
	if _, ok := s.Get("indicator_usd_a_b"); ok {
		t.Error("indicator_usd_a_b should have been cleared")
	}
	if _, ok := s.Get("session_token"); !ok {
		t.Error("keys with other prefixes must be untouched")
	}
}
