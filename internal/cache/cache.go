// Package cache provides the in-process TTL cache used to memoize report
// generation. It is not shared across processes.
package cache

import (
	"sync"
	"time"
)

// Defaults for report caching.
const (
	DefaultTTL      = 5 * time.Minute
	CleanupInterval = time.Minute
)

type entry struct {
	value     any
	storedAt  time.Time
	expiresAt time.Time
}

// Cache is a mutex-guarded map with per-entry expiry. Expired entries are
// dropped lazily on access and swept periodically by a background ticker.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

// New builds a Cache with the given default TTL (DefaultTTL when ttl <= 0)
// and starts the background sweep.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

func (c *Cache) sweep() {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Cleanup()
		case <-c.done:
			return
		}
	}
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key with an explicit TTL.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, storedAt: now, expiresAt: now.Add(ttl)}
}

// Get returns the live value for key. Expired entries are removed and
// reported as absent.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.live(key)
	if !ok {
		return nil, false
	}
	return e.value, true
}

// GetWithTimestamp returns the live value for key along with the time it
// was stored.
func (c *Cache) GetWithTimestamp(key string) (any, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.live(key)
	if !ok {
		return nil, time.Time{}, false
	}
	return e.value, e.storedAt, true
}

// Has reports whether key holds a live entry.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.live(key)
	return ok
}

// RefreshTTL extends a live entry's expiry by the default TTL from now.
// It reports whether the entry existed.
func (c *Cache) RefreshTTL(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.live(key)
	if !ok {
		return false
	}
	e.expiresAt = time.Now().Add(c.ttl)
	c.entries[key] = e
	return true
}

// Remove deletes key.
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Keys returns the keys of all live entries.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	keys := make([]string, 0, len(c.entries))
	for k, e := range c.entries {
		if now.Before(e.expiresAt) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Size returns the number of live entries.
func (c *Cache) Size() int {
	return len(c.Keys())
}

// Cleanup removes every expired entry.
func (c *Cache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// Dispose stops the background sweep and drops all entries. The cache is
// unusable for caching afterwards only in the sense that nothing expires
// it; callers are expected to discard it.
func (c *Cache) Dispose() {
	c.once.Do(func() { close(c.done) })
	c.Clear()
}

// live returns the entry for key if present and unexpired, deleting it
// when expired. Callers must hold mu.
func (c *Cache) live(key string) (entry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return entry{}, false
	}
	if !time.Now().Before(e.expiresAt) {
		delete(c.entries, key)
		return entry{}, false
	}
	return e, true
}
