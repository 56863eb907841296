package server

import (
	"sync"
	"time"

	"github.com/mj1618/backtick/internal/model"
	"github.com/mj1618/backtick/internal/platform"
)

// cacheEntry holds a window listing with its timestamp.
type cacheEntry struct {
	windows   []model.Window
	timestamp time.Time
}

// WindowCache provides a TTL-based cache for window server listings.
type WindowCache struct {
	mu      sync.Mutex
	entries map[platform.ListOptions]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewWindowCache creates a new cache. A ttl of 0 disables caching.
func NewWindowCache(ttl time.Duration) *WindowCache {
	return &WindowCache{
		entries: make(map[platform.ListOptions]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// ListWindows returns cached windows if within TTL, otherwise lists fresh.
// The caller must hold the provider mutex.
func (c *WindowCache) ListWindows(reader platform.Reader, opts platform.ListOptions) ([]model.Window, error) {
	if c.ttl == 0 {
		return reader.ListWindows(opts)
	}

	c.mu.Lock()
	if entry, ok := c.entries[opts]; ok && c.now().Sub(entry.timestamp) < c.ttl {
		windows := entry.windows
		c.mu.Unlock()
		return windows, nil
	}
	c.mu.Unlock()

	windows, err := reader.ListWindows(opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[opts] = cacheEntry{windows: windows, timestamp: c.now()}
	c.mu.Unlock()

	return windows, nil
}

// InvalidateAll clears the entire cache. Window order changes after every
// activation, so callers invalidate rather than patch entries.
func (c *WindowCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[platform.ListOptions]cacheEntry)
}
