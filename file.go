package userfs

import (
	"io"
)

// File is an open descriptor wrapped in the standard io interfaces.
//
// File implements the following io interfaces:
//   - io.Reader, io.Writer (sequential I/O with position tracking)
//   - io.Seeker (position control)
//   - io.Closer
//
// After Close every method fails with ErrNoFile.
type File struct {
	fs   *FS
	fd   int
	name string
}

// Compile-time interface checks
var (
	_ io.Reader          = (*File)(nil)
	_ io.Writer          = (*File)(nil)
	_ io.Seeker          = (*File)(nil)
	_ io.Closer          = (*File)(nil)
	_ io.ReadWriteSeeker = (*File)(nil)
)

// OpenFile opens the named file like Open and wraps the descriptor.
func (fs *FS) OpenFile(name string, flags int) (*File, error) {
	fd, err := fs.Open(name, flags)
	if err != nil {
		return nil, err
	}
	return &File{fs: fs, fd: fd, name: name}, nil
}

// Read reads up to len(p) bytes into p, advancing the file offset.
// It implements io.Reader.
//
// Read returns io.EOF when the end of file is reached.
func (f *File) Read(p []byte) (int, error) {
	n, err := f.fs.Read(f.fd, p)
	if err != nil {
		return n, err
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Write writes len(p) bytes from p, advancing the file offset.
// It implements io.Writer.
func (f *File) Write(p []byte) (int, error) {
	return f.fs.Write(f.fd, p)
}

// Seek sets the offset for the next Read or Write.
// It implements io.Seeker.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	return f.fs.Seek(f.fd, offset, whence)
}

// Truncate sets the file size. It does not move the offset unless the
// offset lies beyond the new size.
func (f *File) Truncate(size int64) error {
	return f.fs.Resize(f.fd, size)
}

// Offset returns the current file offset.
func (f *File) Offset() (int64, error) {
	return f.fs.Tell(f.fd)
}

// Stat returns the file's current metadata.
func (f *File) Stat() (*Stats, error) {
	return f.fs.Fstat(f.fd)
}

// Fd returns the underlying descriptor, or -1 once the File is closed.
func (f *File) Fd() int {
	return f.fd
}

// Name returns the name the file was opened with.
func (f *File) Name() string {
	return f.name
}

// Close releases the descriptor. The File forgets it, so calls on a closed
// File fail with ErrNoFile even after the slot is handed to another Open.
func (f *File) Close() error {
	if err := f.fs.Close(f.fd); err != nil {
		return err
	}
	f.fd = -1
	return nil
}

// ReadFile reads the entire contents of the named file.
func (fs *FS) ReadFile(name string) ([]byte, error) {
	f, err := fs.OpenFile(name, FlagReadOnly)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// WriteFile replaces the contents of the named file with data, creating the
// file if necessary.
func (fs *FS) WriteFile(name string, data []byte) error {
	f, err := fs.OpenFile(name, FlagCreate|FlagWriteOnly)
	if err != nil {
		return err
	}
	if err := f.Truncate(0); err != nil {
		f.Close()
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
