// internal/infra/ratelimit/memory.go
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process sliding-window store. Each store is independent, so tests and
// separate limiters never share state. Expired keys are only dropped by Cleanup; callers decide
// what triggers it (a cron job in production, direct calls in tests).
type MemoryStore struct {
	mu      sync.Mutex
	now     Clock
	hits    map[string][]time.Time
	windows map[string]time.Duration
}

type MemoryOption func(*MemoryStore)

func WithClock(clock Clock) MemoryOption {
	return func(s *MemoryStore) {
		s.now = clock
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		now:     time.Now,
		hits:    make(map[string][]time.Time),
		windows: make(map[string]time.Duration),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	kept := prune(s.hits[key], now.Add(-window))
	kept = append(kept, now)
	s.hits[key] = kept
	s.windows[key] = window

	return len(kept), kept[0], nil
}

// Cleanup drops hits that have left their window and forgets keys with none left. It returns
// the number of keys removed.
func (s *MemoryStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, hits := range s.hits {
		kept := prune(hits, now.Add(-s.windows[key]))
		if len(kept) == 0 {
			delete(s.hits, key)
			delete(s.windows, key)
			removed++
			continue
		}
		s.hits[key] = kept
	}
	return removed
}

// Len is the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hits)
}

// prune keeps hits strictly after cutoff. hits is sorted oldest first.
func prune(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return hits
	}
	return append(hits[:0:0], hits[i:]...)
}
