// Package dedup remembers recently processed request ids so duplicate webhook
// deliveries can be answered from the recorded result instead of reprocessed.
package dedup

import (
	"sync"
	"time"
)

// DefaultTTL is how long a recorded result stays valid
const DefaultTTL = 60 * time.Second

type record struct {
	result    interface{}
	expiresAt time.Time
}

// Deduplicator is a TTL-bounded in-memory idempotency store. Expired entries
// are treated as absent even before the lazy purge removes them. Safe for
// concurrent use.
type Deduplicator struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]record
	now     func() time.Time
}

// New creates a Deduplicator with the given TTL (DefaultTTL if ttl <= 0)
func New(ttl time.Duration) *Deduplicator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Deduplicator{
		ttl:     ttl,
		entries: make(map[string]record),
		now:     time.Now,
	}
}

// SetClock overrides the time source (used for testing)
func (d *Deduplicator) SetClock(now func() time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.now = now
}

// Record stores the result for a request id
func (d *Deduplicator) Record(requestID string, result interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	d.entries[requestID] = record{result: result, expiresAt: now.Add(d.ttl)}
	d.purgeLocked(now)
}

// IsDuplicate reports whether a non-expired record exists for the request id
func (d *Deduplicator) IsDuplicate(requestID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.entries[requestID]
	return ok && d.now().Before(rec.expiresAt)
}

// Result returns the recorded result for a non-expired request id
func (d *Deduplicator) Result(requestID string) (interface{}, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.entries[requestID]
	if !ok || !d.now().Before(rec.expiresAt) {
		return nil, false
	}
	return rec.result, true
}

// purgeLocked opportunistically drops stale entries. Caller holds mu.
func (d *Deduplicator) purgeLocked(now time.Time) {
	for id, rec := range d.entries {
		if !now.Before(rec.expiresAt) {
			delete(d.entries, id)
		}
	}
}
