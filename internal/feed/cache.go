package feed

import (
	"sync"
	"time"

	"NewsPulse/internal/domain"
)

// Cache keeps the last successful response per feed URL for a freshness
// window. Writes are whole-record replacements, so a race between two
// callers missing the cache at once costs at most one duplicated fetch.
type Cache struct {
	mu    sync.Mutex
	items map[string]domain.RawFeedResponse
	ttl   time.Duration
	now   func() time.Time
}

// NewCache creates a cache with the provided freshness window.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &Cache{
		items: make(map[string]domain.RawFeedResponse),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the cached response for url when it is still fresh.
func (c *Cache) Get(url string) (domain.RawFeedResponse, bool) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	resp, ok := c.items[url]
	if !ok {
		return domain.RawFeedResponse{}, false
	}
	if now.UnixMilli()-resp.FetchedAtMs > c.ttl.Milliseconds() {
		delete(c.items, url)
		return domain.RawFeedResponse{}, false
	}
	return resp, true
}

// Put records a successful fetch, replacing any previous entry.
func (c *Cache) Put(url string, resp domain.RawFeedResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[url] = resp
}
