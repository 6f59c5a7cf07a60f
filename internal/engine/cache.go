// cache.go provides an in-memory cache of converted doc bodies.
// This is the L1 cache: it avoids re-running Markdown conversion on every
// request. Entries are keyed by page key and source checksum, so a
// re-imported doc automatically produces a cache miss.
package engine

import (
	"log/slog"
	"sync"
)

// cacheKey uniquely identifies one version of a doc body.
type cacheKey struct {
	page     string
	checksum string
}

// bodyCache is a concurrency-safe in-memory cache of converted bodies.
type bodyCache struct {
	mu      sync.RWMutex
	entries map[cacheKey]string
}

// newBodyCache creates an empty body cache.
func newBodyCache() *bodyCache {
	return &bodyCache{
		entries: make(map[cacheKey]string),
	}
}

// get retrieves a converted body from cache.
func (c *bodyCache) get(page, checksum string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	html, ok := c.entries[cacheKey{page: page, checksum: checksum}]
	return html, ok
}

// put stores a converted body, replacing older versions of the page.
func (c *bodyCache) put(page, checksum, html string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.page == page {
			delete(c.entries, k)
		}
	}
	c.entries[cacheKey{page: page, checksum: checksum}] = html
	slog.Debug("doc body cached", "page", page, "size", len(c.entries))
}

// invalidate removes all cached versions of a page.
func (c *bodyCache) invalidate(page string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.page == page {
			delete(c.entries, k)
		}
	}
}

// invalidateAll clears the entire cache.
func (c *bodyCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]string)
	slog.Debug("doc body cache fully cleared")
}
