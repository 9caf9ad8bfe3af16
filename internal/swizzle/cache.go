package swizzle

import "sync"

// Cache is a concurrency-safe store of CTR maps keyed by image size.
// Maps are read-only once built, so every caller shares the same value.
type Cache struct {
	mu   sync.RWMutex
	maps map[[2]int]*Map
}

// NewCache creates an empty map cache.
func NewCache() *Cache {
	return &Cache{maps: make(map[[2]int]*Map)}
}

// Default is shared by the texture codec.
var Default = NewCache()

// Get returns the CTR map for width×height, building it on first use.
func (c *Cache) Get(width, height int) (*Map, error) {
	key := [2]int{width, height}

	// Fast path: read lock
	c.mu.RLock()
	m, ok := c.maps[key]
	c.mu.RUnlock()
	if ok {
		return m, nil
	}

	built, err := CTR(width, height)
	if err != nil {
		return nil, err
	}

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.maps[key]; ok {
		return m, nil
	}
	c.maps[key] = built
	return built, nil
}

// Len returns the number of cached maps.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.maps)
}
