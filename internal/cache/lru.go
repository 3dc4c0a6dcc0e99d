package cache

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// lruPool implements BufferPool on top of an LRU cache keyed by release
// order. When the pool is full, adding a buffer evicts the oldest one.
type lruPool struct {
	cache      *lru.Cache[uint64, []byte]
	size       int
	seq        atomic.Uint64
	hits       atomic.Int64
	misses     atomic.Int64
	maxEntries int
}

// NewLRU creates a new LRU-backed buffer pool.
//
// Parameters:
//   - size: length of each buffer in bytes
//   - maxEntries: maximum number of freed buffers retained for reuse
func NewLRU(size, maxEntries int) (BufferPool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("buffer size must be positive, got %d", size)
	}
	cache, err := lru.New[uint64, []byte](maxEntries)
	if err != nil {
		return nil, err
	}
	return &lruPool{
		cache:      cache,
		size:       size,
		maxEntries: maxEntries,
	}, nil
}

// Get returns the oldest retained buffer, zeroed, or a fresh one.
func (p *lruPool) Get() []byte {
	if _, buf, ok := p.cache.RemoveOldest(); ok {
		p.hits.Add(1)
		clear(buf)
		return buf
	}
	p.misses.Add(1)
	return make([]byte, p.size)
}

// Put retains buf for a later Get.
func (p *lruPool) Put(buf []byte) {
	if len(buf) != p.size {
		return
	}
	p.cache.Add(p.seq.Add(1), buf)
}

func (p *lruPool) BufferSize() int {
	return p.size
}

// Purge drops every retained buffer.
func (p *lruPool) Purge() {
	p.cache.Purge()
}

// Stats returns pool statistics.
func (p *lruPool) Stats() Stats {
	return Stats{
		Hits:       p.hits.Load(),
		Misses:     p.misses.Load(),
		Entries:    p.cache.Len(),
		MaxEntries: p.maxEntries,
	}
}
