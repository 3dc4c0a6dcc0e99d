// Package userfs provides an in-memory file storage engine with a POSIX-like
// surface: files live in a flat namespace, are stored as chains of BlockSize
// blocks, and are accessed through small integer descriptors.
//
// An FS is not safe for concurrent use. Callers that share one across
// goroutines must serialize access themselves.
package userfs

import (
	"fmt"

	"github.com/KirillLvov/userfs/internal/cache"
)

// FS is one filesystem instance: a namespace of files, a bounded descriptor
// table and the last-error register. Instances are fully independent.
type FS struct {
	files   map[string]*inode
	slots   []*descriptor
	open    int
	maxFDs  int
	lastErr ErrorCode
	pool    cache.BufferPool
	log     Logger
}

// New creates an empty filesystem.
func New(opts Options) (*FS, error) {
	maxFDs := opts.MaxDescriptors
	if maxFDs <= 0 {
		maxFDs = DefaultMaxDescriptors
	}

	pool := cache.NewNop(BlockSize)
	if opts.BlockPoolSize >= 0 {
		size := opts.BlockPoolSize
		if size == 0 {
			size = DefaultBlockPoolSize
		}
		p, err := cache.NewLRU(BlockSize, size)
		if err != nil {
			return nil, fmt.Errorf("failed to create block pool: %w", err)
		}
		pool = p
	}

	log := opts.Logger
	if log == nil {
		log = discardLogger{}
	}

	return &FS{
		files:  make(map[string]*inode),
		maxFDs: maxFDs,
		pool:   pool,
		log:    log,
	}, nil
}

// LastError returns the code of the most recent failed call on this instance.
// Successful calls do not reset it.
func (fs *FS) LastError() ErrorCode {
	return fs.lastErr
}

// MaxDescriptors returns the capacity of the descriptor table.
func (fs *FS) MaxDescriptors() int {
	return fs.maxFDs
}

// Descriptors returns the number of open descriptors.
func (fs *FS) Descriptors() int {
	return fs.open
}

// Reset closes every descriptor and drops every file, returning the instance
// to its freshly created state.
func (fs *FS) Reset() {
	for fd, d := range fs.slots {
		if d == nil {
			continue
		}
		delete(d.ino.handles, fd)
		if d.ino.deleted && d.ino.refs() == 0 {
			d.ino.release()
		}
	}
	for _, ino := range fs.files {
		ino.release()
	}
	fs.files = make(map[string]*inode)
	fs.slots = nil
	fs.open = 0
	fs.lastErr = ErrCodeNone
	fs.pool.Purge()
}

// fail records err in the last-error register and returns it.
func (fs *FS) fail(err *FSError) error {
	fs.lastErr = err.Code
	return err
}
