package userfs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestFS creates a fresh filesystem with default options.
func setupTestFS(t *testing.T) *FS {
	t.Helper()
	ufs, err := New(Options{})
	require.NoError(t, err)
	t.Cleanup(ufs.Reset)
	return ufs
}

// mustOpen opens name with flags and fails the test on error.
func mustOpen(t *testing.T, ufs *FS, name string, flags int) int {
	t.Helper()
	fd, err := ufs.Open(name, flags)
	require.NoError(t, err, "open %q", name)
	return fd
}

// readAll drains fd from its current offset in chunks of size chunk.
func readAll(t *testing.T, ufs *FS, fd int, chunk int) []byte {
	t.Helper()
	var out bytes.Buffer
	buf := make([]byte, chunk)
	for {
		n, err := ufs.Read(fd, buf)
		require.NoError(t, err)
		if n == 0 {
			return out.Bytes()
		}
		out.Write(buf[:n])
	}
}

// pattern returns n bytes that differ from block to block.
func pattern(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte('a' + i%23 + i/BlockSize)
	}
	return p
}

// checkChain asserts the structural invariants of a file's block chain.
func checkChain(t *testing.T, ino *inode) {
	t.Helper()
	var sum int64
	for i, b := range ino.blocks {
		require.Len(t, b.data, BlockSize)
		if i < len(ino.blocks)-1 {
			assert.Equal(t, BlockSize, b.used, "block %d must be full", i)
		}
		for j := b.used; j < BlockSize; j++ {
			if b.data[j] != 0 {
				t.Fatalf("block %d has non-zero byte at %d past used=%d", i, j, b.used)
			}
		}
		sum += int64(b.used)
	}
	assert.Equal(t, ino.size, sum, "sum of block occupancy")
	want := int((ino.size + BlockSize - 1) / BlockSize)
	if want == 0 {
		want = 1
	}
	assert.Len(t, ino.blocks, want, "chain length")
}

func TestNew_Defaults(t *testing.T) {
	ufs := setupTestFS(t)

	assert.Equal(t, DefaultMaxDescriptors, ufs.MaxDescriptors())
	assert.Equal(t, 0, ufs.Descriptors())
	assert.Equal(t, ErrCodeNone, ufs.LastError())
	assert.Empty(t, ufs.List())
	assert.Equal(t, DefaultBlockPoolSize, ufs.pool.Stats().MaxEntries)
}

func TestNew_DisabledPool(t *testing.T) {
	ufs, err := New(Options{BlockPoolSize: -1})
	require.NoError(t, err)

	fd := mustOpen(t, ufs, "f", FlagCreate)
	_, err = ufs.Write(fd, pattern(3*BlockSize))
	require.NoError(t, err)
	require.NoError(t, ufs.Resize(fd, 0))

	assert.Equal(t, 0, ufs.pool.Stats().Entries)
}

func TestInstancesAreIndependent(t *testing.T) {
	a := setupTestFS(t)
	b := setupTestFS(t)

	fd := mustOpen(t, a, "shared-name", FlagCreate)
	_, err := a.Write(fd, []byte("only in a"))
	require.NoError(t, err)

	_, err = b.Open("shared-name", FlagReadOnly)
	require.ErrorIs(t, err, ErrNoFile)

	assert.Equal(t, ErrCodeNoFile, b.LastError())
	assert.Equal(t, ErrCodeNone, a.LastError())
}

func TestLastError(t *testing.T) {
	ufs := setupTestFS(t)

	_, err := ufs.Open("missing", FlagReadOnly)
	require.Error(t, err)
	assert.Equal(t, ErrCodeNoFile, ufs.LastError())

	// Success leaves the register untouched.
	fd := mustOpen(t, ufs, "ro", FlagCreate|FlagReadOnly)
	assert.Equal(t, ErrCodeNoFile, ufs.LastError())

	_, err = ufs.Write(fd, []byte("x"))
	require.Error(t, err)
	assert.Equal(t, ErrCodeNoPermission, ufs.LastError())
}

func TestReset(t *testing.T) {
	ufs := setupTestFS(t)

	fd := mustOpen(t, ufs, "a", FlagCreate)
	_, err := ufs.Write(fd, pattern(2000))
	require.NoError(t, err)
	mustOpen(t, ufs, "b", FlagCreate)
	require.NoError(t, ufs.Delete("a"))
	_, _ = ufs.Open("missing", 0)

	ufs.Reset()

	assert.Empty(t, ufs.List())
	assert.Equal(t, 0, ufs.Descriptors())
	assert.Equal(t, ErrCodeNone, ufs.LastError())

	_, err = ufs.Read(fd, make([]byte, 1))
	require.ErrorIs(t, err, ErrNoFile)

	fd = mustOpen(t, ufs, "a", FlagCreate)
	assert.Equal(t, 0, fd)
}
