package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value   []byte
	expires time.Time
	seq     uint64
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// Memory is a process-local cache with a fixed TTL and a bounded number of
// entries.
type Memory struct {
	mu         sync.RWMutex
	data       map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	seq        uint64
	now        func() time.Time
}

// NewMemory creates a memory cache. A non-positive ttl keeps entries forever
// and a non-positive maxEntries leaves the size unbounded.
func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	return &Memory{
		data:       make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns a copy of the stored value.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	entry, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if entry.expired(m.now()) {
		m.mu.Lock()
		// A concurrent Set may have refreshed the key since the read.
		if current, ok := m.data[key]; ok && current.expired(m.now()) {
			delete(m.data, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), entry.value...), true, nil
}

// Set stores a copy of value. When the cache is full, expired entries are
// dropped first and then the oldest stored entries.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	now := m.now()
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if m.ttl > 0 {
		entry.expires = now.Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; !exists && m.maxEntries > 0 && len(m.data) >= m.maxEntries {
		m.evictLocked(now)
	}
	m.seq++
	entry.seq = m.seq
	m.data[key] = entry
	return nil
}

// evictLocked frees at least one slot. The caller holds the write lock.
func (m *Memory) evictLocked(now time.Time) {
	for key, entry := range m.data {
		if entry.expired(now) {
			delete(m.data, key)
		}
	}

	for len(m.data) >= m.maxEntries {
		var (
			oldestKey string
			oldestSeq uint64
			found     bool
		)
		for key, entry := range m.data {
			if !found || entry.seq < oldestSeq {
				oldestKey, oldestSeq, found = key, entry.seq, true
			}
		}
		delete(m.data, oldestKey)
	}
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
