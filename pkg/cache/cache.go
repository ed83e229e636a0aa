package cache

import (
	"sync"
	"time"
)

// Cache is a process-local TTL store. It memoizes availability results,
// listing pages and aggregate counts, and must always be safely ignorable:
// every caller has to behave correctly when each lookup is a miss.
//
// Expiry is checked lazily on read and eagerly by a background sweep so
// entries that are never re-read cannot accumulate. Entries are replaced
// wholesale, never mutated in place.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	maxEntries int
	now        func() time.Time
	sweepEvery time.Duration
	stopCh     chan struct{}
	stopOnce   sync.Once
}

type entry struct {
	value     any
	expiresAt time.Time
	storedAt  time.Time
}

type Option func(*Cache)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithMaxEntries caps the entry count. On insert beyond the cap the sweep
// removes expired entries first, then the oldest-stored one.
func WithMaxEntries(n int) Option {
	return func(c *Cache) { c.maxEntries = n }
}

func New(sweepInterval time.Duration, opts ...Option) *Cache {
	c := &Cache{
		entries:    make(map[string]entry),
		now:        time.Now,
		sweepEvery: sweepInterval,
		stopCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.sweepEvery > 0 {
		go c.sweep()
	}
	return c
}

// Get returns the cached value, treating an expired entry as a miss and
// evicting it on the spot.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have
		// replaced the entry with a fresh one.
		if cur, still := c.entries[key]; still && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		if _, exists := c.entries[key]; !exists {
			c.evictLocked()
		}
	}
	c.entries[key] = entry{
		value:     value,
		expiresAt: now.Add(ttl),
		storedAt:  now,
	}
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// DeleteFunc removes every entry whose key matches the predicate and
// returns how many were removed.
func (c *Cache) DeleteFunc(match func(key string) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if match(key) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stop terminates the background sweep. Safe to call more than once.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

func (c *Cache) sweep() {
	ticker := time.NewTicker(c.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.removeExpiredLocked()
			c.mu.Unlock()
		case <-c.stopCh:
			return
		}
	}
}

func (c *Cache) removeExpiredLocked() int {
	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

func (c *Cache) evictLocked() {
	if c.removeExpiredLocked() > 0 {
		return
	}
	var oldestKey string
	var oldest time.Time
	for key, e := range c.entries {
		if oldestKey == "" || e.storedAt.Before(oldest) {
			oldestKey = key
			oldest = e.storedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
