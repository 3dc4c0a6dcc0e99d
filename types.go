package userfs

import (
	"time"

	"github.com/google/uuid"
)

// Options configures a new FS instance
type Options struct {
	// MaxDescriptors bounds the descriptor table (default: 1024).
	MaxDescriptors int

	// BlockPoolSize is how many freed block buffers are kept for reuse
	// (default: 256). A negative value disables recycling.
	BlockPoolSize int

	// Logger receives lifecycle events. Nil discards them.
	Logger Logger
}

// Stats represents file metadata
type Stats struct {
	Name    string    `json:"name"`    // Name the file was created under
	ID      uuid.UUID `json:"id"`      // Identity, unique per created file
	Size    int64     `json:"size"`    // Occupied bytes
	Blocks  int       `json:"blocks"`  // Length of the block chain
	Refs    int       `json:"refs"`    // Open descriptors
	Deleted bool      `json:"deleted"` // Unlinked but still held open
	Ctime   time.Time `json:"ctime"`   // Creation time
	Mtime   time.Time `json:"mtime"`   // Last data modification time
}
