package cache

import "sync"

// ImageCache memoizes rendered code images keyed by the encoded URL. Rendering
// is deterministic for a given URL, so entries never need invalidation.
type ImageCache struct {
	mu    sync.RWMutex
	store map[string]string
}

func NewImageCache() *ImageCache {
	return &ImageCache{
		store: make(map[string]string),
	}
}

func (c *ImageCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.store[key]
	return val, ok
}

func (c *ImageCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = value
}
