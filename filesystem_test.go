package userfs

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Run("missing without create", func(t *testing.T) {
		ufs := setupTestFS(t)

		fd, err := ufs.Open("nope", FlagReadWrite)
		require.ErrorIs(t, err, ErrNoFile)
		assert.True(t, IsNotExist(err))
		assert.Equal(t, -1, fd)
		assert.Empty(t, ufs.List())
	})

	t.Run("create makes an empty file", func(t *testing.T) {
		ufs := setupTestFS(t)

		fd := mustOpen(t, ufs, "new", FlagCreate)
		st, err := ufs.Stat("new")
		require.NoError(t, err)
		assert.Equal(t, "new", st.Name)
		assert.Equal(t, int64(0), st.Size)
		assert.Equal(t, 1, st.Blocks)
		assert.Equal(t, 1, st.Refs)
		assert.False(t, st.Deleted)

		n, err := ufs.Read(fd, make([]byte, 10))
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("existing file shares data and starts at zero", func(t *testing.T) {
		ufs := setupTestFS(t)

		w := mustOpen(t, ufs, "f", FlagCreate)
		_, err := ufs.Write(w, []byte("hello"))
		require.NoError(t, err)

		r := mustOpen(t, ufs, "f", FlagReadOnly)
		pos, err := ufs.Tell(r)
		require.NoError(t, err)
		assert.Equal(t, int64(0), pos)
		assert.Equal(t, []byte("hello"), readAll(t, ufs, r, 3))

		st, _ := ufs.Stat("f")
		assert.Equal(t, 2, st.Refs)
	})

	t.Run("create on existing name opens it", func(t *testing.T) {
		ufs := setupTestFS(t)

		a := mustOpen(t, ufs, "f", FlagCreate)
		_, err := ufs.Write(a, []byte("kept"))
		require.NoError(t, err)

		b := mustOpen(t, ufs, "f", FlagCreate)
		assert.Equal(t, []byte("kept"), readAll(t, ufs, b, 16))
	})

	t.Run("conflicting modes", func(t *testing.T) {
		ufs := setupTestFS(t)

		_, err := ufs.Open("f", FlagCreate|FlagReadOnly|FlagWriteOnly)
		require.ErrorIs(t, err, ErrInvalid)
		assert.Equal(t, ErrCodeInvalid, ufs.LastError())
		assert.Empty(t, ufs.List(), "no file may be created")
	})

	t.Run("empty name", func(t *testing.T) {
		ufs := setupTestFS(t)

		_, err := ufs.Open("", FlagCreate)
		require.ErrorIs(t, err, ErrInvalid)
	})
}

func TestDescriptorTable(t *testing.T) {
	t.Run("lowest free slot is reused", func(t *testing.T) {
		ufs := setupTestFS(t)

		fds := make([]int, 4)
		for i := range fds {
			fds[i] = mustOpen(t, ufs, "f", FlagCreate)
			assert.Equal(t, i, fds[i])
		}

		require.NoError(t, ufs.Close(1))
		require.NoError(t, ufs.Close(2))
		assert.Equal(t, 2, ufs.Descriptors())

		assert.Equal(t, 1, mustOpen(t, ufs, "f", 0))
		assert.Equal(t, 2, mustOpen(t, ufs, "f", 0))
		assert.Equal(t, 4, mustOpen(t, ufs, "f", 0))
	})

	t.Run("exhaustion is reported as no memory", func(t *testing.T) {
		ufs, err := New(Options{MaxDescriptors: 3})
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			mustOpen(t, ufs, fmt.Sprintf("f%d", i), FlagCreate)
		}

		_, err = ufs.Open("extra", FlagCreate)
		require.ErrorIs(t, err, ErrNoMem)
		assert.True(t, IsNoSpace(err))
		assert.Equal(t, ErrCodeNoMem, ufs.LastError())
		assert.NotContains(t, ufs.List(), "extra")

		require.NoError(t, ufs.Close(0))
		assert.Equal(t, 0, mustOpen(t, ufs, "extra", FlagCreate))
	})

	t.Run("missing file is reported before a full table", func(t *testing.T) {
		ufs, err := New(Options{MaxDescriptors: 1})
		require.NoError(t, err)
		mustOpen(t, ufs, "only", FlagCreate)

		fd, err := ufs.Open("nope", FlagReadOnly)
		require.ErrorIs(t, err, ErrNoFile)
		assert.Equal(t, -1, fd)
		assert.Equal(t, ErrCodeNoFile, ufs.LastError())

		_, err = ufs.Open("only", 0)
		require.ErrorIs(t, err, ErrNoMem, "existing file still needs a slot")
	})

	t.Run("invalid descriptors", func(t *testing.T) {
		ufs := setupTestFS(t)
		fd := mustOpen(t, ufs, "f", FlagCreate)
		require.NoError(t, ufs.Close(fd))

		for _, bad := range []int{-1, fd, 7, 1 << 20} {
			require.ErrorIs(t, ufs.Close(bad), ErrNoFile, "close %d", bad)
			_, err := ufs.Write(bad, []byte("x"))
			require.ErrorIs(t, err, ErrNoFile, "write %d", bad)
			_, err = ufs.Read(bad, make([]byte, 1))
			require.ErrorIs(t, err, ErrNoFile, "read %d", bad)
			require.ErrorIs(t, ufs.Resize(bad, 10), ErrNoFile, "resize %d", bad)
			_, err = ufs.Seek(bad, 0, io.SeekStart)
			require.ErrorIs(t, err, ErrNoFile, "seek %d", bad)
		}
	})
}

func TestDelete(t *testing.T) {
	t.Run("missing name", func(t *testing.T) {
		ufs := setupTestFS(t)

		err := ufs.Delete("ghost")
		require.ErrorIs(t, err, ErrNoFile)
		assert.Equal(t, ErrCodeNoFile, ufs.LastError())
	})

	t.Run("closed file is reclaimed immediately", func(t *testing.T) {
		ufs := setupTestFS(t)

		fd := mustOpen(t, ufs, "f", FlagCreate)
		_, err := ufs.Write(fd, pattern(3*BlockSize))
		require.NoError(t, err)
		ino := ufs.slots[fd].ino
		require.NoError(t, ufs.Close(fd))

		require.NoError(t, ufs.Delete("f"))
		assert.Nil(t, ino.blocks)
		_, err = ufs.Open("f", FlagReadOnly)
		require.ErrorIs(t, err, ErrNoFile)
		require.ErrorIs(t, ufs.Delete("f"), ErrNoFile)
	})

	t.Run("open handles keep the data alive", func(t *testing.T) {
		ufs := setupTestFS(t)

		data := pattern(1500)
		a := mustOpen(t, ufs, "f", FlagCreate)
		b := mustOpen(t, ufs, "f", FlagReadOnly)
		_, err := ufs.Write(a, data)
		require.NoError(t, err)
		oldID := ufs.slots[a].ino.id

		require.NoError(t, ufs.Delete("f"))
		assert.NotContains(t, ufs.List(), "f")

		assert.Equal(t, data, readAll(t, ufs, b, 100))

		_, err = ufs.Write(a, []byte("more"))
		require.NoError(t, err)
		st, err := ufs.Fstat(a)
		require.NoError(t, err)
		assert.True(t, st.Deleted)
		assert.Equal(t, int64(1504), st.Size)
		assert.Equal(t, oldID, st.ID)

		// Recreating the name gives an independent, empty file.
		c := mustOpen(t, ufs, "f", FlagCreate)
		n, err := ufs.Read(c, make([]byte, 10))
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		st, err = ufs.Fstat(c)
		require.NoError(t, err)
		assert.NotEqual(t, oldID, st.ID)
		assert.False(t, st.Deleted)

		_, err = ufs.Write(c, []byte("fresh"))
		require.NoError(t, err)
		assert.Equal(t, []byte("more"), readAll(t, ufs, b, 10))

		old := ufs.slots[a].ino
		require.NoError(t, ufs.Close(a))
		assert.NotNil(t, old.blocks, "still referenced by b")
		require.NoError(t, ufs.Close(b))
		assert.Nil(t, old.blocks, "last close reclaims")

		got, err := ufs.ReadFile("f")
		require.NoError(t, err)
		assert.Equal(t, []byte("fresh"), got)
	})
}

func TestSeek(t *testing.T) {
	ufs := setupTestFS(t)
	fd := mustOpen(t, ufs, "f", FlagCreate)
	_, err := ufs.Write(fd, pattern(1200))
	require.NoError(t, err)

	tests := []struct {
		name    string
		offset  int64
		whence  int
		want    int64
		wantErr bool
	}{
		{"start", 100, io.SeekStart, 100, false},
		{"current forward", 412, io.SeekCurrent, 512, false},
		{"current backward", -12, io.SeekCurrent, 500, false},
		{"end", -200, io.SeekEnd, 1000, false},
		{"exact end", 0, io.SeekEnd, 1200, false},
		{"negative", -1, io.SeekStart, 0, true},
		{"past end", 1, io.SeekEnd, 0, true},
		{"bad whence", 0, 42, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, _ := ufs.Tell(fd)
			got, err := ufs.Seek(fd, tt.offset, tt.whence)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalid)
				after, _ := ufs.Tell(fd)
				assert.Equal(t, before, after, "failed seek must not move the offset")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, int(tt.want/BlockSize), ufs.slots[fd].cur)
		})
	}
}

func TestStatAndList(t *testing.T) {
	ufs := setupTestFS(t)

	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, ufs.WriteFile(name, []byte(name+name)))
	}
	assert.Equal(t, []string{"a", "b", "c"}, ufs.List())

	st, err := ufs.Stat("b")
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.Size)
	assert.Equal(t, 0, st.Refs)
	assert.False(t, st.Mtime.Before(st.Ctime))

	_, err = ufs.Stat("zzz")
	require.ErrorIs(t, err, ErrNoFile)

	_, err = ufs.Fstat(99)
	require.ErrorIs(t, err, ErrNoFile)
}
