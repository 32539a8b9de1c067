package cache

import (
	"context"
	"sync"
	"time"
)

// entry represents a cached value with expiration
type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore provides a thread-safe in-process cache
type MemoryStore struct {
	entries map[string]entry
	mutex   sync.RWMutex
}

// NewMemoryStore creates a new in-process store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
	}
}

// Get retrieves a value if available and not expired
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	e, exists := s.entries[key]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, false, nil
	}

	return e.value, true, nil
}

// Set stores a value for ttl
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)

	s.entries[key] = entry{
		value:     stored,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Clear clears all entries from the store
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.entries = make(map[string]entry)
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

// Size returns the number of entries, expired ones included
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.entries)
}

// CleanExpired removes expired entries and returns how many were removed
func (s *MemoryStore) CleanExpired() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	count := 0
	now := time.Now()

	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
			count++
		}
	}

	return count
}
