// Package rate throttles requests per client key over a sliding window.
package rate

import (
	"sync"
	"time"
)

type Limiter interface {
	// Allow records a request for key. When the request is rejected the
	// duration tells how long until a slot frees up.
	Allow(key string) (bool, time.Duration)
}

// MemoryLimiter keeps the request times of every key in process memory.
type MemoryLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	store  map[string][]time.Time
	now    func() time.Time
}

func NewMemory(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:  limit,
		window: window,
		store:  make(map[string][]time.Time),
		now:    time.Now,
	}
}

func (m *MemoryLimiter) Allow(key string) (bool, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	hits := prune(m.store[key], now.Add(-m.window))

	if len(hits) >= m.limit {
		m.store[key] = hits
		return false, hits[0].Add(m.window).Sub(now)
	}

	m.store[key] = append(hits, now)
	return true, 0
}

// Cleanup drops keys with no request inside the window.
func (m *MemoryLimiter) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.window)
	for key, hits := range m.store {
		hits = prune(hits, cutoff)
		if len(hits) == 0 {
			delete(m.store, key)
			continue
		}
		m.store[key] = hits
	}
}

// prune drops the times not after cutoff. hits is sorted ascending.
func prune(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}
