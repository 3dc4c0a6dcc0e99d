package userfs

// FileSystem defines the descriptor-level operations of an FS.
// This interface is optional - New returns a concrete *FS, but users can
// program against this interface for testability and mocking.
type FileSystem interface {
	// Open opens or creates a file and returns a descriptor.
	Open(name string, flags int) (int, error)

	// Write writes p at the descriptor's offset.
	Write(fd int, p []byte) (int, error)

	// Read reads into p from the descriptor's offset. 0 means end of file.
	Read(fd int, p []byte) (int, error)

	// Seek moves the descriptor's offset.
	Seek(fd int, offset int64, whence int) (int64, error)

	// Close releases a descriptor.
	Close(fd int) error

	// Delete unbinds a name from its file.
	Delete(name string) error

	// Resize grows or shrinks the file behind a descriptor.
	Resize(fd int, size int64) error

	// Stat returns metadata for a named file.
	Stat(name string) (*Stats, error)

	// LastError returns the code of the most recent failure.
	LastError() ErrorCode
}

// Compile-time interface satisfaction check.
var _ FileSystem = (*FS)(nil)
