package userfs

import (
	"io"
	"io/fs"
	"strings"
	"time"
)

// Modes reported through the io/fs adapter.
const (
	iofsFileMode fs.FileMode = 0o644
	iofsDirMode  fs.FileMode = fs.ModeDir | 0o755
)

// IOFS wraps an FS to implement Go's io/fs interfaces.
// It implements: fs.FS, fs.StatFS, fs.ReadFileFS, fs.ReadDirFS
//
// The namespace is flat, so "." is the only directory. Files whose names are
// not valid single-element io/fs paths (for example names containing a slash)
// are not visible through the adapter.
type IOFS struct {
	fs *FS
}

// Compile-time interface compliance checks
var (
	_ fs.FS         = (*IOFS)(nil)
	_ fs.StatFS     = (*IOFS)(nil)
	_ fs.ReadFileFS = (*IOFS)(nil)
	_ fs.ReadDirFS  = (*IOFS)(nil)
)

// NewIOFS creates an io/fs compatible wrapper around an FS.
//
// Example usage:
//
//	ufs, _ := userfs.New(userfs.Options{})
//	iofs := userfs.NewIOFS(ufs)
//
//	fs.WalkDir(iofs, ".", walkFunc)
//	template.ParseFS(iofs, "*.html")
func NewIOFS(filesystem *FS) *IOFS {
	return &IOFS{fs: filesystem}
}

// visible reports whether name can be addressed through io/fs.
func visible(name string) bool {
	return name != "." && fs.ValidPath(name) && !strings.Contains(name, "/")
}

// Open implements fs.FS.
// Opens the named file for reading.
func (f *IOFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return &iofsDir{iofs: f}, nil
	}
	if !visible(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	file, err := f.fs.OpenFile(name, FlagReadOnly)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: toIOFSError(err)}
	}
	return &iofsFile{file: file}, nil
}

// Stat implements fs.StatFS.
// Returns a FileInfo describing the named file.
func (f *IOFS) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return rootInfo{}, nil
	}
	if !visible(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}

	stats, err := f.fs.Stat(name)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: toIOFSError(err)}
	}
	return &iofsFileInfo{stats: stats}, nil
}

// ReadFile implements fs.ReadFileFS.
// Reads and returns the entire contents of the named file.
func (f *IOFS) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrInvalid}
	}
	if !visible(name) {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrNotExist}
	}

	data, err := f.fs.ReadFile(name)
	if err != nil {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: toIOFSError(err)}
	}
	return data, nil
}

// ReadDir implements fs.ReadDirFS.
// Returns the entries of "." sorted by name; any other name is not a directory.
func (f *IOFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}
	if name != "." {
		if visible(name) {
			if _, err := f.fs.Stat(name); err == nil {
				return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
			}
		}
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	return f.entries(), nil
}

// entries lists the visible files, sorted by name.
func (f *IOFS) entries() []fs.DirEntry {
	names := f.fs.List()
	result := make([]fs.DirEntry, 0, len(names))
	for _, name := range names {
		if !visible(name) {
			continue
		}
		stats, err := f.fs.Stat(name)
		if err != nil {
			continue
		}
		result = append(result, &iofsDirEntry{info: &iofsFileInfo{stats: stats}})
	}
	return result
}

// toIOFSError maps engine errors onto the io/fs sentinels.
func toIOFSError(err error) error {
	switch CodeOf(err) {
	case ErrCodeNoFile:
		return fs.ErrNotExist
	case ErrCodeNoPermission:
		return fs.ErrPermission
	case ErrCodeInvalid:
		return fs.ErrInvalid
	default:
		return err
	}
}

// ============================================================================
// iofsFile - implements fs.File for regular files
// ============================================================================

// iofsFile holds a read-only descriptor for the lifetime of the fs.File.
type iofsFile struct {
	file *File
}

// Stat implements fs.File.
func (f *iofsFile) Stat() (fs.FileInfo, error) {
	if f.file == nil {
		return nil, fs.ErrClosed
	}
	stats, err := f.file.Stat()
	if err != nil {
		return nil, err
	}
	return &iofsFileInfo{stats: stats}, nil
}

// Read implements fs.File.
func (f *iofsFile) Read(b []byte) (int, error) {
	if f.file == nil {
		return 0, fs.ErrClosed
	}
	if len(b) == 0 {
		return 0, nil
	}
	return f.file.Read(b)
}

// Close implements fs.File.
func (f *iofsFile) Close() error {
	if f.file == nil {
		return fs.ErrClosed
	}
	err := f.file.Close()
	f.file = nil
	return err
}

// ============================================================================
// iofsDir - implements fs.ReadDirFile for the root directory
// ============================================================================

type iofsDir struct {
	iofs    *IOFS
	entries []fs.DirEntry // Lazy-loaded
	offset  int
}

var _ fs.ReadDirFile = (*iofsDir)(nil)

// Stat implements fs.File.
func (d *iofsDir) Stat() (fs.FileInfo, error) {
	return rootInfo{}, nil
}

// Read implements fs.File.
// Reading from a directory is not permitted.
func (d *iofsDir) Read(b []byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: ".", Err: fs.ErrInvalid}
}

// Close implements fs.File.
func (d *iofsDir) Close() error {
	d.entries = nil
	d.offset = 0
	return nil
}

// ReadDir implements fs.ReadDirFile.
// Reads the contents of the directory and returns up to n DirEntry values.
// If n <= 0, ReadDir returns all entries.
func (d *iofsDir) ReadDir(n int) ([]fs.DirEntry, error) {
	if d.entries == nil {
		d.entries = d.iofs.entries()
	}

	if n <= 0 {
		if d.offset >= len(d.entries) {
			return nil, nil
		}
		entries := d.entries[d.offset:]
		d.offset = len(d.entries)
		return entries, nil
	}

	if d.offset >= len(d.entries) {
		return nil, io.EOF
	}

	end := min(d.offset+n, len(d.entries))
	entries := d.entries[d.offset:end]
	d.offset = end
	return entries, nil
}

// ============================================================================
// FileInfo and DirEntry adapters
// ============================================================================

// iofsFileInfo adapts *Stats to implement fs.FileInfo.
type iofsFileInfo struct {
	stats *Stats
}

var _ fs.FileInfo = (*iofsFileInfo)(nil)

func (fi *iofsFileInfo) Name() string       { return fi.stats.Name }
func (fi *iofsFileInfo) Size() int64        { return fi.stats.Size }
func (fi *iofsFileInfo) Mode() fs.FileMode  { return iofsFileMode }
func (fi *iofsFileInfo) ModTime() time.Time { return fi.stats.Mtime }
func (fi *iofsFileInfo) IsDir() bool        { return false }

// Sys returns the underlying *Stats.
func (fi *iofsFileInfo) Sys() any { return fi.stats }

// rootInfo describes the single directory ".".
type rootInfo struct{}

func (rootInfo) Name() string       { return "." }
func (rootInfo) Size() int64        { return 0 }
func (rootInfo) Mode() fs.FileMode  { return iofsDirMode }
func (rootInfo) ModTime() time.Time { return time.Time{} }
func (rootInfo) IsDir() bool        { return true }
func (rootInfo) Sys() any           { return nil }

// iofsDirEntry adapts a file's info to implement fs.DirEntry.
type iofsDirEntry struct {
	info *iofsFileInfo
}

var _ fs.DirEntry = (*iofsDirEntry)(nil)

func (de *iofsDirEntry) Name() string               { return de.info.Name() }
func (de *iofsDirEntry) IsDir() bool                { return false }
func (de *iofsDirEntry) Type() fs.FileMode          { return iofsFileMode.Type() }
func (de *iofsDirEntry) Info() (fs.FileInfo, error) { return de.info, nil }
