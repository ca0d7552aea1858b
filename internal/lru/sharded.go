// Package lru provides a sharded, concurrency-safe LRU cache.
package lru

import (
	"hash/maphash"
	"sync"
	"sync/atomic"
)

const (
	// ShardCount must be a power of 2.
	ShardCount = 16
	shardMask  = ShardCount - 1

	// DefaultCapacity is the default number of entries per shard.
	DefaultCapacity = 256
)

// Hasher computes the shard hash of a key.
type Hasher[K any] func(K) uint64

var seed = maphash.MakeSeed()

// StringHash hashes s with a process-wide seed.
func StringHash(s string) uint64 {
	return maphash.String(seed, s)
}

// Sharded is an LRU cache split into ShardCount independently locked
// shards.
type Sharded[K comparable, V any] struct {
	shards   [ShardCount]shard[K, V]
	hasher   Hasher[K]
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type shard[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*node[K, V]
	order   list[K, V]
}

// New creates a cache holding at most capacity entries per shard.
// If capacity <= 0, DefaultCapacity is used.
func New[K comparable, V any](capacity int, hasher Hasher[K]) *Sharded[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Sharded[K, V]{hasher: hasher, capacity: capacity}
	for i := range c.shards {
		c.shards[i].entries = make(map[K]*node[K, V])
	}
	return c
}

func (c *Sharded[K, V]) shardFor(key K) *shard[K, V] {
	return &c.shards[c.hasher(key)&shardMask]
}

// Get returns the cached value for key and marks it most recently used.
func (c *Sharded[K, V]) Get(key K) (V, bool) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.entries[key]
	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	s.order.moveToFront(n)
	c.hits.Add(1)
	return n.value, true
}

// GetOrCreate returns the cached value for key, calling create with the
// shard lock held on a miss. Keep create fast.
func (c *Sharded[K, V]) GetOrCreate(key K, create func() V) V {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.entries[key]; ok {
		s.order.moveToFront(n)
		c.hits.Add(1)
		return n.value
	}
	c.misses.Add(1)

	value := create()
	for s.order.len >= c.capacity {
		oldest := s.order.removeOldest()
		if oldest == nil {
			break
		}
		delete(s.entries, oldest.key)
		c.evictions.Add(1)
	}
	n := &node[K, V]{key: key, value: value}
	s.order.pushFront(n)
	s.entries[key] = n
	return value
}

// Clear removes all entries.
func (c *Sharded[K, V]) Clear() {
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		clear(s.entries)
		s.order.clear()
		s.mu.Unlock()
	}
}

// Len returns the total number of entries.
func (c *Sharded[K, V]) Len() int {
	total := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		total += len(s.entries)
		s.mu.Unlock()
	}
	return total
}

// Stats holds cache statistics.
type Stats struct {
	Len       int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Stats returns current cache statistics.
func (c *Sharded[K, V]) Stats() Stats {
	return Stats{
		Len:       c.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
