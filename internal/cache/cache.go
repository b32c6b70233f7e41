// Package cache keeps loaded arrays keyed by source file. Each file is
// loaded at most once per Cache; entries are never evicted or refreshed.
package cache

import (
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache maps a normalized file path to its loaded value.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]V
	group   singleflight.Group
}

// New returns an empty cache.
func New[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[string]V)}
}

// Key normalizes file to the form entries are stored under.
func Key(file string) (string, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// Lookup returns the entry for file without loading it.
func (c *Cache[V]) Lookup(file string) (V, bool) {
	var zero V
	key, err := Key(file)
	if err != nil {
		return zero, false
	}
	return c.get(key)
}

func (c *Cache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Contains reports whether file has been loaded.
func (c *Cache[V]) Contains(file string) bool {
	_, ok := c.Lookup(file)
	return ok
}

// Len is the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// GetOrLoad returns the entry for file, calling load with the normalized
// key on a miss. Concurrent misses on one key share a single load; misses
// on different keys load in parallel. A failed load stores nothing. hit
// is false only for the call whose load produced the value.
func (c *Cache[V]) GetOrLoad(file string, load func(key string) (V, error)) (v V, hit bool, err error) {
	key, err := Key(file)
	if err != nil {
		return v, false, err
	}
	if v, ok := c.get(key); ok {
		return v, true, nil
	}
	return c.fill(key, load)
}

// fill loads key through the single-flight group. Callers that share
// another caller's load, or find the entry stored once inside the group,
// report a hit.
func (c *Cache[V]) fill(key string, load func(key string) (V, error)) (v V, hit bool, err error) {
	loaded := false
	res, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.get(key); ok {
			return v, nil
		}
		loaded = true
		v, err := load(key)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = v
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return v, false, err
	}
	return res.(V), !loaded, nil
}
