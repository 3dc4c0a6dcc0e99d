package userfs

import (
	"time"

	"github.com/google/uuid"

	"github.com/KirillLvov/userfs/internal/cache"
)

// block is one BlockSize slice of a file. Bytes past used are always zero.
type block struct {
	data []byte
	used int
}

// inode is a file entity. It exclusively owns its block chain.
//
// The chain always holds max(1, ceil(size/BlockSize)) blocks and every block
// but the last is full.
type inode struct {
	name    string
	id      uuid.UUID
	blocks  []*block
	size    int64
	handles map[int]*descriptor
	deleted bool
	ctime   time.Time
	mtime   time.Time
	pool    cache.BufferPool
}

func newInode(name string, pool cache.BufferPool) *inode {
	now := time.Now()
	ino := &inode{
		name:    name,
		id:      uuid.New(),
		handles: make(map[int]*descriptor),
		ctime:   now,
		mtime:   now,
		pool:    pool,
	}
	ino.appendBlock()
	return ino
}

// refs returns the number of descriptors open on the file.
func (ino *inode) refs() int {
	return len(ino.handles)
}

func (ino *inode) appendBlock() *block {
	b := &block{data: ino.pool.Get()}
	ino.blocks = append(ino.blocks, b)
	return b
}

// blockAt returns block i of the chain. i may be one past the tail, in which
// case a fresh zero block is appended.
func (ino *inode) blockAt(i int) *block {
	if i == len(ino.blocks) {
		return ino.appendBlock()
	}
	return ino.blocks[i]
}

// grow extends the file with zero bytes up to size.
func (ino *inode) grow(size int64) {
	idx := int(ino.size / BlockSize)
	off := int(ino.size % BlockSize)
	remaining := size - ino.size
	for remaining > 0 {
		b := ino.blockAt(idx)
		n := int(min(int64(BlockSize-off), remaining))
		b.used = off + n
		remaining -= int64(n)
		idx++
		off = 0
	}
	ino.size = size
}

// shrink cuts the file down to size and releases the detached blocks.
func (ino *inode) shrink(size int64) {
	keep := int((size + BlockSize - 1) / BlockSize)
	if keep == 0 {
		keep = 1
	}
	ino.releaseFrom(keep)

	tail := ino.blocks[keep-1]
	used := int(size - int64(keep-1)*BlockSize)
	clear(tail.data[used:])
	tail.used = used
	ino.size = size
}

// releaseFrom detaches blocks[i:] and hands their buffers back to the pool.
func (ino *inode) releaseFrom(i int) {
	for j := i; j < len(ino.blocks); j++ {
		ino.pool.Put(ino.blocks[j].data)
		ino.blocks[j] = nil
	}
	ino.blocks = ino.blocks[:i]
}

// release frees the whole chain. The inode must not be used afterwards.
func (ino *inode) release() {
	ino.releaseFrom(0)
	ino.blocks = nil
	ino.size = 0
}

func (ino *inode) stats() *Stats {
	return &Stats{
		Name:    ino.name,
		ID:      ino.id,
		Size:    ino.size,
		Blocks:  len(ino.blocks),
		Refs:    ino.refs(),
		Deleted: ino.deleted,
		Ctime:   ino.ctime,
		Mtime:   ino.mtime,
	}
}
