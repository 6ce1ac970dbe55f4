// Package ratelimit provides a per-key token bucket. Each key gets its own
// bucket that refills continuously; Allow consumes one token without blocking.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter rate-limits callers per key
type Limiter struct {
	mu       sync.Mutex
	buckets  map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	lastSeen map[string]time.Time
}

// New creates a Limiter that grants up to burst tokens per key, refilling at
// maxTokens tokens per window.
func New(maxTokens int, window time.Duration) *Limiter {
	if maxTokens < 1 {
		maxTokens = 1
	}
	if window <= 0 {
		window = time.Second
	}
	return &Limiter{
		buckets:  make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		limit:    rate.Every(window / time.Duration(maxTokens)),
		burst:    maxTokens,
	}
}

// Allow consumes one token for the key if available. It never blocks and
// consumes nothing when the bucket is empty.
func (l *Limiter) Allow(key string) bool {
	return l.bucket(key).Allow()
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastSeen[key] = time.Now()
	if b, ok := l.buckets[key]; ok {
		return b
	}

	b := rate.NewLimiter(l.limit, l.burst)
	l.buckets[key] = b
	return b
}

// Sweep discards buckets idle for longer than maxIdle so the key map does not
// grow without bound under churn.
func (l *Limiter) Sweep(maxIdle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	for key, seen := range l.lastSeen {
		if seen.Before(cutoff) {
			delete(l.buckets, key)
			delete(l.lastSeen, key)
		}
	}
}
