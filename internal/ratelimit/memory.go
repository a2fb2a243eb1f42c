package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	count   int
	resetAt time.Time
}

// MemoryStore keeps buckets in process memory. It is correct for a single
// instance only; use RedisStore when several instances serve the same users.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]*bucket), now: time.Now}
}

// WithClock replaces the time source, used by tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Touch(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	current, found := s.buckets[key]

	if !found || !now.Before(current.resetAt) {
		current = &bucket{count: 1, resetAt: now.Add(window)}
		s.buckets[key] = current
		return Result{OK: true, Remaining: limit - 1, ResetAt: current.resetAt}, nil
	}

	if current.count >= limit {
		return Result{
			OK:            false,
			Remaining:     0,
			ResetAt:       current.resetAt,
			RetryAfterSec: retryAfter(current.resetAt, now),
		}, nil
	}

	current.count++
	return Result{OK: true, Remaining: limit - current.count, ResetAt: current.resetAt}, nil
}

// Sweep drops expired buckets and reports how many were removed. An expired
// bucket behaves exactly like a missing one, so sweeping never changes results.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, b := range s.buckets {
		if !now.Before(b.resetAt) {
			delete(s.buckets, key)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}
