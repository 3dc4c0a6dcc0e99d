package userfs

import "time"

// Write copies p into the file at the offset of fd and advances the offset.
//
// The write either happens in full or not at all: it fails with ErrNoMem
// before touching anything when it would push the file past MaxFileSize.
// On success it returns len(p).
func (fs *FS) Write(fd int, p []byte) (int, error) {
	d, err := fs.descriptor("write", fd)
	if err != nil {
		return 0, err
	}
	if !d.mode.canWrite() {
		return 0, fs.fail(errNoPermission("write", fdName(fd)))
	}
	ino := d.ino
	end := d.pos + int64(len(p))
	if end > MaxFileSize {
		return 0, fs.fail(errNoMem("write", ino.name, "file size limit exceeded"))
	}
	if len(p) == 0 {
		return 0, nil
	}

	idx := d.cur
	off := int(d.pos % BlockSize)
	written := 0
	for written < len(p) {
		b := ino.blockAt(idx)
		n := copy(b.data[off:], p[written:])
		if off+n > b.used {
			b.used = off + n
		}
		written += n
		idx++
		off = 0
	}

	if end > ino.size {
		ino.size = end
	}
	ino.mtime = time.Now()
	d.seek(end)
	return written, nil
}

// Read copies up to len(p) bytes from the offset of fd into p and advances
// the offset. It returns 0 and a nil error at end of file.
func (fs *FS) Read(fd int, p []byte) (int, error) {
	d, err := fs.descriptor("read", fd)
	if err != nil {
		return 0, err
	}
	if !d.mode.canRead() {
		return 0, fs.fail(errNoPermission("read", fdName(fd)))
	}
	ino := d.ino
	want := min(int64(len(p)), ino.size-d.pos)
	if want <= 0 {
		return 0, nil
	}

	idx := d.cur
	off := int(d.pos % BlockSize)
	read := 0
	for int64(read) < want {
		b := ino.blocks[idx]
		n := copy(p[read:want], b.data[off:b.used])
		if n == 0 {
			panic("userfs: block chain has a hole below file size")
		}
		read += n
		idx++
		off = 0
	}

	d.seek(d.pos + want)
	return read, nil
}

// Resize grows or shrinks the file behind fd to size bytes.
//
// Growing appends zero bytes. Shrinking frees the blocks past the new end and
// clamps every descriptor on the file whose offset lies beyond size.
func (fs *FS) Resize(fd int, size int64) error {
	d, err := fs.descriptor("resize", fd)
	if err != nil {
		return err
	}
	if !d.mode.canWrite() {
		return fs.fail(errNoPermission("resize", fdName(fd)))
	}
	ino := d.ino
	switch {
	case size < 0:
		return fs.fail(errInvalid("resize", ino.name, "negative size"))
	case size > MaxFileSize:
		return fs.fail(errNoMem("resize", ino.name, "file size limit exceeded"))
	case size == ino.size:
		return nil
	case size > ino.size:
		ino.grow(size)
	default:
		ino.shrink(size)
		for _, h := range ino.handles {
			if h.pos > size {
				h.seek(size)
			}
		}
	}
	ino.mtime = time.Now()
	return nil
}
