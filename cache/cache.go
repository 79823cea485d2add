package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value      V
	insertedAt time.Time
}

// Store is a TTL-bounded key-value store. A zero or negative TTL disables
// storage entirely: Put becomes a no-op and Get always misses.
type Store[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
}

// New creates a Store with the given TTL.
func New[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
	}
}

// Get returns the value for key if it was inserted less than TTL ago.
// Expired entries are evicted on lookup.
func (s *Store[V]) Get(key string) (V, bool) {
	var zero V
	if s.ttl <= 0 {
		return zero, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}

	if time.Since(e.insertedAt) >= s.ttl {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Put may have refreshed it.
		if cur, ok := s.entries[key]; ok && time.Since(cur.insertedAt) >= s.ttl {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return zero, false
	}

	return e.value, true
}

// Put stores value under key, overwriting any previous entry.
func (s *Store[V]) Put(key string, value V) {
	if s.ttl <= 0 {
		return
	}
	s.mu.Lock()
	s.entries[key] = entry[V]{value: value, insertedAt: time.Now()}
	s.mu.Unlock()
}

// Clear empties the store.
func (s *Store[V]) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]entry[V])
	s.mu.Unlock()
}

// Len returns the number of entries currently held, including any that
// have expired but not yet been evicted.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// TTL returns the configured entry lifetime.
func (s *Store[V]) TTL() time.Duration {
	return s.ttl
}
