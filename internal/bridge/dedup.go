package bridge

import (
	"sync"
	"time"
)

// SeenCache remembers event IDs for a retention window so the same event
// arriving via multiple relay endpoints is processed exactly once. Entries
// expire to bound memory; the window must exceed realistic multi-relay
// delivery skew.
type SeenCache struct {
	mu     sync.Mutex
	window time.Duration
	seen   map[string]time.Time
	now    func() time.Time
}

func NewSeenCache(window time.Duration) *SeenCache {
	return &SeenCache{
		window: window,
		seen:   make(map[string]time.Time),
		now:    time.Now,
	}
}

// Insert records id and reports whether this is its first sighting within
// the retention window. Expired entries are pruned as a side effect.
func (c *SeenCache) Insert(id string) bool {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, at := range c.seen {
		if now.Sub(at) > c.window {
			delete(c.seen, k)
		}
	}
	if _, ok := c.seen[id]; ok {
		return false
	}
	c.seen[id] = now
	return true
}

// Len returns the number of retained entries.
func (c *SeenCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}
