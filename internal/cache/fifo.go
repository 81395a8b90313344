// Package cache provides the bounded result caches of the engine.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// FIFO is a bounded map that evicts the oldest-inserted entry when full.
// It sits on an LRU whose recency is never refreshed: reads use Peek and
// writes only add absent keys, so the least recently used entry is always
// the oldest inserted one. Setting an existing key keeps the first value.
// Safe for concurrent use.
type FIFO[K comparable, V any] struct {
	lru *lru.Cache[K, V] // nil when caching is disabled
}

// NewFIFO creates a cache holding at most capacity entries.
// A non-positive capacity disables caching.
func NewFIFO[K comparable, V any](capacity int) *FIFO[K, V] {
	if capacity <= 0 {
		return &FIFO[K, V]{}
	}
	c, err := lru.New[K, V](capacity)
	if err != nil {
		// lru.New only fails on a non-positive size
		panic(err)
	}
	return &FIFO[K, V]{lru: c}
}

// Get returns the cached value for key without refreshing its position.
func (c *FIFO[K, V]) Get(key K) (V, bool) {
	if c.lru == nil {
		var zero V
		return zero, false
	}
	return c.lru.Peek(key)
}

// Set stores value under key, evicting the oldest entry if the cache is full.
// An existing key is left untouched.
func (c *FIFO[K, V]) Set(key K, value V) {
	if c.lru == nil {
		return
	}
	c.lru.ContainsOrAdd(key, value)
}

// Len returns the number of cached entries.
func (c *FIFO[K, V]) Len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}

// Keys returns the cached keys from oldest to newest.
func (c *FIFO[K, V]) Keys() []K {
	if c.lru == nil {
		return []K{}
	}
	return c.lru.Keys()
}

// Clear drops every entry.
func (c *FIFO[K, V]) Clear() {
	if c.lru != nil {
		c.lru.Purge()
	}
}
