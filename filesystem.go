package userfs

import (
	"io"
	"sort"
	"strconv"
)

// descriptor is an open-file state bound to a slot of the descriptor table.
// It holds a non-owning reference to its inode; the inode stays alive while
// the descriptor is registered in ino.handles.
type descriptor struct {
	fd   int
	ino  *inode
	pos  int64
	cur  int // index of the block holding pos, always pos / BlockSize
	mode accessMode
}

// seek moves the cursor and repoints the cached block index.
func (d *descriptor) seek(pos int64) {
	d.pos = pos
	d.cur = int(pos / BlockSize)
}

func fdName(fd int) string {
	return "fd " + strconv.Itoa(fd)
}

// Open opens the named file and returns a descriptor for it.
//
// flags combines one of FlagReadWrite, FlagReadOnly or FlagWriteOnly with an
// optional FlagCreate. A missing file is created only when FlagCreate is set.
// The new descriptor starts at offset 0.
func (fs *FS) Open(name string, flags int) (int, error) {
	mode, ok := modeFromFlags(flags)
	if !ok {
		return -1, fs.fail(errInvalid("open", name, "read-only and write-only are mutually exclusive"))
	}
	if name == "" {
		return -1, fs.fail(errInvalid("open", name, "empty file name"))
	}

	ino, ok := fs.files[name]
	if !ok && flags&FlagCreate == 0 {
		return -1, fs.fail(errNoFile("open", name))
	}

	fd := fs.freeSlot()
	if fd < 0 {
		fs.log.Verbose("descriptor table full (%d slots), cannot open %q", fs.maxFDs, name)
		return -1, fs.fail(errNoMem("open", name, "descriptor table is full"))
	}

	if !ok {
		ino = newInode(name, fs.pool)
		fs.files[name] = ino
		fs.log.Verbose("created file %q (%s)", name, ino.id)
	}

	d := &descriptor{fd: fd, ino: ino, mode: mode}
	if fd == len(fs.slots) {
		fs.slots = append(fs.slots, d)
	} else {
		fs.slots[fd] = d
	}
	fs.open++
	ino.handles[fd] = d
	return fd, nil
}

// freeSlot returns the lowest unused slot, or -1 when the table is full.
func (fs *FS) freeSlot() int {
	if fs.open < len(fs.slots) {
		for i, d := range fs.slots {
			if d == nil {
				return i
			}
		}
	}
	if len(fs.slots) < fs.maxFDs {
		return len(fs.slots)
	}
	return -1
}

// descriptor resolves fd to its open-file state.
func (fs *FS) descriptor(op string, fd int) (*descriptor, error) {
	if fd < 0 || fd >= len(fs.slots) || fs.slots[fd] == nil {
		return nil, fs.fail(errNoFile(op, fdName(fd)))
	}
	return fs.slots[fd], nil
}

// Close releases fd. When it was the last descriptor on a deleted file, the
// file and its blocks are reclaimed.
func (fs *FS) Close(fd int) error {
	d, err := fs.descriptor("close", fd)
	if err != nil {
		return err
	}

	fs.slots[fd] = nil
	fs.open--

	ino := d.ino
	delete(ino.handles, fd)
	d.ino = nil
	if ino.deleted && ino.refs() == 0 {
		fs.reclaim(ino)
	}
	return nil
}

// Delete removes name from the namespace. Descriptors already open on the
// file keep working; the data is freed when the last of them is closed.
// A later Open with FlagCreate makes a new, independent file.
func (fs *FS) Delete(name string) error {
	ino, ok := fs.files[name]
	if !ok {
		return fs.fail(errNoFile("delete", name))
	}

	delete(fs.files, name)
	ino.deleted = true
	if ino.refs() == 0 {
		fs.reclaim(ino)
		return nil
	}
	fs.log.Verbose("deleted %q (%s), %d descriptors still open", name, ino.id, ino.refs())
	return nil
}

func (fs *FS) reclaim(ino *inode) {
	fs.log.Verbose("reclaimed %q (%s), %d blocks freed", ino.name, ino.id, len(ino.blocks))
	ino.release()
}

// Seek sets the offset of fd for the next Read or Write.
//
// Whence values:
//   - io.SeekStart (0): offset is relative to the start of the file
//   - io.SeekCurrent (1): offset is relative to the current position
//   - io.SeekEnd (2): offset is relative to the end of the file
//
// The resulting offset must lie within [0, size].
func (fs *FS) Seek(fd int, offset int64, whence int) (int64, error) {
	d, err := fs.descriptor("seek", fd)
	if err != nil {
		return 0, err
	}

	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = d.pos + offset
	case io.SeekEnd:
		pos = d.ino.size + offset
	default:
		return 0, fs.fail(errInvalid("seek", fdName(fd), "invalid whence"))
	}

	if pos < 0 {
		return 0, fs.fail(errInvalid("seek", fdName(fd), "negative offset"))
	}
	if pos > d.ino.size {
		return 0, fs.fail(errInvalid("seek", fdName(fd), "offset beyond end of file"))
	}

	d.seek(pos)
	return pos, nil
}

// Tell returns the current offset of fd.
func (fs *FS) Tell(fd int) (int64, error) {
	d, err := fs.descriptor("tell", fd)
	if err != nil {
		return 0, err
	}
	return d.pos, nil
}

// Stat returns metadata for the named file.
func (fs *FS) Stat(name string) (*Stats, error) {
	ino, ok := fs.files[name]
	if !ok {
		return nil, fs.fail(errNoFile("stat", name))
	}
	return ino.stats(), nil
}

// Fstat returns metadata for the file behind fd, including deleted files
// that are still held open.
func (fs *FS) Fstat(fd int) (*Stats, error) {
	d, err := fs.descriptor("fstat", fd)
	if err != nil {
		return nil, err
	}
	return d.ino.stats(), nil
}

// List returns the names of all files, sorted.
func (fs *FS) List() []string {
	names := make([]string, 0, len(fs.files))
	for name := range fs.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
