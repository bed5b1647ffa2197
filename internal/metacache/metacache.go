// Package metacache is an expiring in-memory cache for file metadata,
// keyed by file identity. Repeated validations of an unchanged file hit
// the cache and skip re-parsing.
package metacache

import (
	"fmt"
	"os"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	// DefaultTTL bounds how long an entry is trusted even when the key
	// still matches; mtime granularity is a whole second on some
	// filesystems, so identity alone is not proof of freshness.
	DefaultTTL = 10 * time.Minute

	cleanupInterval = 5 * time.Minute
)

// Cache is a typed wrapper over an expiring store. A nil *Cache is valid
// and behaves as always-miss, so callers don't need to branch.
type Cache[V any] struct {
	c *gocache.Cache
}

// New returns a cache whose entries expire after ttl. A non-positive ttl
// selects DefaultTTL.
func New[V any](ttl time.Duration) *Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[V]{c: gocache.New(ttl, cleanupInterval)}
}

// Key derives the identity key for a file: absolute path, byte size, and
// modification time. Rewriting the file changes the key.
func Key(path string, info os.FileInfo) string {
	return fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
}

func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
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

func (c *Cache[V]) Set(key string, v V) {
	if c == nil {
		return
	}
	c.c.SetDefault(key, v)
}

// Flush drops every entry.
func (c *Cache[V]) Flush() {
	if c == nil {
		return
	}
	c.c.Flush()
}

// Len reports how many entries are resident, expired ones included until
// the next sweep.
func (c *Cache[V]) Len() int {
	if c == nil {
		return 0
	}
	return c.c.ItemCount()
}
