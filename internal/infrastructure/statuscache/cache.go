// Package statuscache keeps the last known payment status per key and fans
// status changes out to subscribed streaming connections. It is a derived,
// process-local layer: the invoice ledger stays authoritative and the cache
// mirrors exactly what it is told.
package statuscache

import (
	"sync"
	"time"

	"buffzone.backend/internal/domain/entities"
)

// Entry is the cached status payload delivered to subscribers.
type Entry struct {
	Status      entities.InvoiceStatus `json:"status"`
	OrderCode   int64                  `json:"orderCode,omitempty"`
	UUID        string                 `json:"uuid,omitempty"`
	Amount      int64                  `json:"amount,omitempty"`
	PaymentDate *time.Time             `json:"paymentDate,omitempty"`
	// Cached marks a replayed warm entry, as opposed to a live update.
	Cached bool `json:"cached,omitempty"`
}

// Terminal reports whether the entry carries a final status.
func (e Entry) Terminal() bool {
	return e.Status.IsTerminal()
}

type subscriber struct {
	id uint64
	fn func(Entry)
}

type keyState struct {
	// mu serializes Set delivery for the key so a subscriber sees updates in
	// call order.
	mu       sync.Mutex
	entry    Entry
	hasEntry bool
	subs     []subscriber
}

// Cache is a mutex-guarded status map with per-key pub/sub.
type Cache struct {
	mu     sync.RWMutex
	keys   map[string]*keyState
	nextID uint64
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{keys: make(map[string]*keyState)}
}

// Get returns the last known entry for key.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	ks, ok := c.keys[key]
	c.mu.RUnlock()
	if !ok {
		return Entry{}, false
	}

	ks.mu.Lock()
	defer ks.mu.Unlock()
	return ks.entry, ks.hasEntry
}

// Set records the entry for key and synchronously notifies every subscriber
// in registration order. Callbacks run under the key's delivery lock and must
// not call back into the cache for the same key.
func (c *Cache) Set(key string, e Entry) {
	ks := c.state(key)

	ks.mu.Lock()
	defer ks.mu.Unlock()

	ks.entry = e
	ks.hasEntry = true
	for _, sub := range ks.subs {
		sub.fn(e)
	}
}

// Subscribe registers fn for future Set calls on key and returns an
// idempotent unsubscribe function. Disconnecting clients must call it to
// avoid leaking subscriber slots.
func (c *Cache) Subscribe(key string, fn func(Entry)) func() {
	ks := c.state(key)

	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.mu.Unlock()

	ks.mu.Lock()
	ks.subs = append(ks.subs, subscriber{id: id, fn: fn})
	ks.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			ks.mu.Lock()
			defer ks.mu.Unlock()
			for i, sub := range ks.subs {
				if sub.id == id {
					ks.subs = append(ks.subs[:i], ks.subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Subscribers reports the live subscriber count for key.
func (c *Cache) Subscribers(key string) int {
	c.mu.RLock()
	ks, ok := c.keys[key]
	c.mu.RUnlock()
	if !ok {
		return 0
	}

	ks.mu.Lock()
	defer ks.mu.Unlock()
	return len(ks.subs)
}

func (c *Cache) state(key string) *keyState {
	c.mu.RLock()
	ks, ok := c.keys[key]
	c.mu.RUnlock()
	if ok {
		return ks
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ks, ok = c.keys[key]; ok {
		return ks
	}
	ks = &keyState{}
	c.keys[key] = ks
	return ks
}
