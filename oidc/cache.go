package oidc

import (
	"sync"
	"time"
)

// Clock returns the current time. Tests swap it for a fake.
type Clock func() time.Time

// CacheStats reports the state of a TokenCache
type CacheStats struct {
	Cached    bool      `json:"cached"`
	ExpiresAt time.Time `json:"expires_at"`
	Hits      uint64    `json:"hits"`
	Misses    uint64    `json:"misses"`
}

// TokenCache holds a single value with an absolute expiry.
// An entry is a hit only while now < expiresAt; expired entries are treated as
// absent and are replaced by the next Set.
type TokenCache[T any] struct {
	mu        sync.RWMutex
	value     T
	expiresAt time.Time
	present   bool
	now       Clock
	hits      uint64
	misses    uint64
}

// NewTokenCache creates an empty cache. A nil clock defaults to time.Now.
func NewTokenCache[T any](clock Clock) *TokenCache[T] {
	if clock == nil {
		clock = time.Now
	}
	return &TokenCache[T]{now: clock}
}

// Get returns the cached value if present and not expired
func (c *TokenCache[T]) Get() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.present || !c.now().Before(c.expiresAt) {
		c.misses++
		var zero T
		return zero, false
	}

	c.hits++
	return c.value, true
}

// Set replaces the entry wholesale, expiring ttl from now
func (c *TokenCache[T]) Set(value T, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = value
	c.expiresAt = c.now().Add(ttl)
	c.present = true
}

// Clear drops the entry so the next Get misses
func (c *TokenCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	c.value = zero
	c.expiresAt = time.Time{}
	c.present = false
}

// Stats returns hit/miss counters and the current entry state
func (c *TokenCache[T]) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return CacheStats{
		Cached:    c.present && c.now().Before(c.expiresAt),
		ExpiresAt: c.expiresAt,
		Hits:      c.hits,
		Misses:    c.misses,
	}
}
