// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cache

import (
	"sync"
	"sync/atomic"
)

// Cache is a generic thread-safe memoizing cache without eviction.
//
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]V

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates an empty cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]V),
	}
}

// Get retrieves a value from the cache.
// Returns (value, true) if found, (zero, false) otherwise.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[key]
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// GetOrCreate returns the cached value for key or creates it.
// create is called under lock, so it runs at most once per key even when
// callers overlap. create must not call back into the same cache.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.entries[key]; ok {
		c.hits.Add(1)
		return v
	}
	c.misses.Add(1)

	v := create()
	c.entries[key] = v
	return v
}

// Delete removes an entry from the cache.
// Returns true if the entry was found and removed.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		return true
	}
	return false
}

// CompareAndDelete removes the entry for key only if match reports true
// for the stored value. Used to clear a failed pending entry without
// clobbering a newer one stored under the same key.
func (c *Cache[K, V]) CompareAndDelete(key K, match func(V) bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[key]
	if !ok || !match(v) {
		return false
	}
	delete(c.entries, key)
	return true
}

// Len returns the number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Len:    c.Len(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Hits is the number of lookups served from the cache.
	Hits uint64
	// Misses is the number of lookups that found no entry.
	Misses uint64
}
