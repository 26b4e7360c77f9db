package completion

import (
	"sync"
	"time"
)

// sweepThreshold is the entry count above which Put drops expired entries.
const sweepThreshold = 512

type cacheEntry struct {
	text    string
	expires time.Time
}

// responseCache is a process-wide TTL cache of completion text.
type responseCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func newResponseCache(ttl time.Duration, now func() time.Time) *responseCache {
	return &responseCache{entries: make(map[string]cacheEntry), ttl: ttl, now: now}
}

func (c *responseCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return "", false
	}
	return e.text, true
}

func (c *responseCache) put(key, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if len(c.entries) >= sweepThreshold {
		for k, e := range c.entries {
			if !now.Before(e.expires) {
				delete(c.entries, k)
			}
		}
	}
	c.entries[key] = cacheEntry{text: text, expires: now.Add(c.ttl)}
}

// len counts live entries.
func (c *responseCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for _, e := range c.entries {
		if now.Before(e.expires) {
			n++
		}
	}
	return n
}
