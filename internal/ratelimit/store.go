// Package ratelimit keeps token bucket limiters keyed by caller identity.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Store holds one limiter per key. Keys are principals, client IPs or anything comparable.
type Store[K comparable] struct {
	limiters sync.Map // map[K]*entry
	rps      float64
	burst    int
}

type entry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

// NewStore creates a store whose limiters allow rps requests per second with the given burst.
func NewStore[K comparable](rps float64, burst int) *Store[K] {
	return &Store[K]{rps: rps, burst: burst}
}

// Allow consumes one token for key. When the limit is exceeded it returns false and the
// whole number of seconds the caller should wait before retrying.
func (s *Store[K]) Allow(key K) (bool, int) {
	limiter := s.limiter(key)
	if limiter.Allow() {
		return true, 0
	}

	reservation := limiter.Reserve()
	retryAfter := int(math.Ceil(reservation.Delay().Seconds()))
	reservation.Cancel()
	return false, retryAfter
}

func (s *Store[K]) limiter(key K) *rate.Limiter {
	now := time.Now()
	if val, ok := s.limiters.Load(key); ok {
		e := val.(*entry)
		e.mu.Lock()
		e.lastAccess = now
		e.mu.Unlock()
		return e.limiter
	}

	e := &entry{
		limiter:    rate.NewLimiter(rate.Limit(s.rps), s.burst),
		lastAccess: now,
	}
	actual, _ := s.limiters.LoadOrStore(key, e)
	return actual.(*entry).limiter
}

// Cleanup removes limiters idle for longer than maxIdle every interval until ctx is done.
func (s *Store[K]) Cleanup(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evictIdle(time.Now().Add(-maxIdle))
		}
	}
}

func (s *Store[K]) evictIdle(threshold time.Time) {
	s.limiters.Range(func(key, value any) bool {
		e := value.(*entry)
		e.mu.Lock()
		stale := e.lastAccess.Before(threshold)
		e.mu.Unlock()

		if stale {
			s.limiters.Delete(key)
		}
		return true
	})
}

// Len returns the number of tracked keys.
func (s *Store[K]) Len() int {
	n := 0
	s.limiters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
