package matchcache

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process TTL cache.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

type entry struct {
	score   int
	expires time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok || m.now().After(e.expires) {
		return 0, false
	}
	return e.score, true
}

func (m *Memory) Set(_ context.Context, key string, score int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{score: score, expires: m.now().Add(m.ttl)}
}

// Purge drops expired entries and returns how many were removed.
func (m *Memory) Purge() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	n := 0
	for k, e := range m.entries {
		if now.After(e.expires) {
			delete(m.entries, k)
			n++
		}
	}
	return n
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
