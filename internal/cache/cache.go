package cache

import (
	"context"
	"sync"
	"time"
)

// View is a rendered page as stored in the cache.
type View struct {
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// ViewCache holds rendered pages keyed by opaque path keys. Mutations in the
// action layer invalidate the keys of every view derived from the changed
// post.
type ViewCache interface {
	Get(ctx context.Context, key string) (*View, bool, error)
	Set(ctx context.Context, key string, view *View) error
	Invalidate(ctx context.Context, keys ...string) error
}

type memoryEntry struct {
	view      View
	expiresAt time.Time
}

// MemoryCache is the default in-process ViewCache with per-entry TTL.
type MemoryCache struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]memoryEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl: ttl,
		m:   make(map[string]memoryEntry),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*View, bool, error) {
	c.mu.RLock()
	entry, ok := c.m[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	view := entry.view
	return &view, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, view *View) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = memoryEntry{view: *view, expiresAt: time.Now().Add(c.ttl)}
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.m, key)
	}
	return nil
}
