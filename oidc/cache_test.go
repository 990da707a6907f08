package oidc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenCache(t *testing.T) {
	t.Run("empty cache misses", func(t *testing.T) {
		cache := NewTokenCache[string](newFakeClock().Now)

		value, ok := cache.Get()
		assert.False(t, ok)
		assert.Equal(t, "", value)
	})

	t.Run("hit before expiry, miss at expiry", func(t *testing.T) {
		clock := newFakeClock()
		cache := NewTokenCache[string](clock.Now)
		cache.Set("doc", 30*time.Second)

		clock.Advance(29 * time.Second)
		value, ok := cache.Get()
		assert.True(t, ok)
		assert.Equal(t, "doc", value)

		clock.Advance(time.Second)
		_, ok = cache.Get()
		assert.False(t, ok)
	})

	t.Run("set replaces entry wholesale", func(t *testing.T) {
		clock := newFakeClock()
		cache := NewTokenCache[string](clock.Now)
		cache.Set("first", time.Minute)
		clock.Advance(50 * time.Second)
		cache.Set("second", time.Minute)
		clock.Advance(50 * time.Second)

		value, ok := cache.Get()
		assert.True(t, ok)
		assert.Equal(t, "second", value)
	})

	t.Run("clear drops entry", func(t *testing.T) {
		cache := NewTokenCache[string](newFakeClock().Now)
		cache.Set("doc", time.Minute)
		cache.Clear()

		_, ok := cache.Get()
		assert.False(t, ok)
		assert.False(t, cache.Stats().Cached)
	})

	t.Run("stats", func(t *testing.T) {
		clock := newFakeClock()
		cache := NewTokenCache[int](clock.Now)
		cache.Get()
		cache.Set(7, time.Minute)
		cache.Get()
		cache.Get()

		stats := cache.Stats()
		assert.True(t, stats.Cached)
		assert.Equal(t, uint64(2), stats.Hits)
		assert.Equal(t, uint64(1), stats.Misses)
		assert.Equal(t, clock.Now().Add(time.Minute), stats.ExpiresAt)
	})

	t.Run("nil clock defaults to wall time", func(t *testing.T) {
		cache := NewTokenCache[string](nil)
		cache.Set("doc", time.Hour)

		_, ok := cache.Get()
		assert.True(t, ok)
	})
}
