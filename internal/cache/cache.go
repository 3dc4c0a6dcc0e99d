// Package cache provides block buffer recycling for userfs.
package cache

// BufferPool hands out fixed-size byte buffers and takes freed ones back.
type BufferPool interface {
	// Get returns a zeroed buffer of BufferSize bytes, reusing a
	// recycled buffer when one is available.
	Get() []byte

	// Put offers a buffer for reuse. Buffers of the wrong size are dropped.
	Put(buf []byte)

	// BufferSize returns the length of the buffers handed out by Get.
	BufferSize() int

	// Purge drops every retained buffer.
	Purge()

	// Stats returns pool statistics.
	Stats() Stats
}

// Stats contains pool performance statistics.
type Stats struct {
	Hits       int64 // Get calls served from a recycled buffer
	Misses     int64 // Get calls that had to allocate
	Entries    int   // Buffers currently retained
	MaxEntries int   // Maximum number of retained buffers
}

// HitRate returns the reuse rate as a percentage (0-100).
// Returns 0 if Get has never been called.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// nopPool allocates on every Get and never retains anything.
type nopPool struct {
	size   int
	misses int64
}

// NewNop returns a BufferPool that performs no recycling.
func NewNop(size int) BufferPool {
	return &nopPool{size: size}
}

func (p *nopPool) Get() []byte {
	p.misses++
	return make([]byte, p.size)
}

func (p *nopPool) Put([]byte)      {}
func (p *nopPool) BufferSize() int { return p.size }
func (p *nopPool) Purge()          {}

func (p *nopPool) Stats() Stats {
	return Stats{Misses: p.misses}
}
