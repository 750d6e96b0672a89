// Package cache memoizes expensive recommendation results in process.
package cache

import (
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	DefaultTTL           = time.Hour
	DefaultCheckInterval = 2 * time.Minute
)

// Cache is a TTL map safe for concurrent use. Entries are never mutated after
// Set, so concurrent writers to the same key simply race to the last value.
type Cache[V any] struct {
	c *gocache.Cache
}

func New[V any](ttl, checkInterval time.Duration) *Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if checkInterval <= 0 {
		checkInterval = DefaultCheckInterval
	}
	return &Cache[V]{c: gocache.New(ttl, checkInterval)}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	v, ok := c.c.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(V)
	if !ok {
		return zero, false
	}
	return typed, true
}

func (c *Cache[V]) Set(key string, value V) {
	c.c.SetDefault(key, value)
}

func (c *Cache[V]) Len() int {
	return c.c.ItemCount()
}

// Key builds the recommendation cache key "<skills>_<min>_<max>".
func Key(skills string, minStipend, maxStipend int) string {
	return fmt.Sprintf("%s_%d_%d", strings.TrimSpace(skills), minStipend, maxStipend)
}
