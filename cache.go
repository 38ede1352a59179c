package portfolio

import (
	"sync"
	"time"

	"github.com/aurorascharff/aurorascharff.no/content"
)

// ContentCache holds the last loaded content snapshot and reloads it from
// disk once the TTL has passed or after Invalidate.
type ContentCache struct {
	mu      sync.RWMutex
	site    *content.Site
	fetched time.Time
	ttl     time.Duration
	loader  *content.Loader
}

// NewContentCache creates a ContentCache backed by the given loader.
func NewContentCache(l *content.Loader, ttl time.Duration) *ContentCache {
	return &ContentCache{loader: l, ttl: ttl}
}

func (c *ContentCache) valid() bool {
	return c.site != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.site = nil
	c.mu.Unlock()
}

// Site returns the current snapshot, loading it if the cache is stale.
// It tries a read lock first; only takes a write lock if a reload is needed.
// A failed load leaves the cache empty, so the next call retries.
func (c *ContentCache) Site() (*content.Site, error) {
	c.mu.RLock()
	if c.valid() {
		site := c.site
		c.mu.RUnlock()
		return site, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.site, nil
	}
	site, err := c.loader.Load()
	if err != nil {
		return nil, err
	}
	c.site = site
	c.fetched = time.Now()
	return site, nil
}
