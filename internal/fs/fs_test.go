package fs

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	fpath := filepath.Join(tmp, "test.txt")
	f, err := lfs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)

	_, err = f.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.NoError(t, f.Sync())

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())
	assert.NoError(t, f.Close())

	newPath := filepath.Join(tmp, "renamed.txt")
	require.NoError(t, lfs.Rename(fpath, newPath))

	_, err = lfs.Stat(fpath)
	assert.True(t, os.IsNotExist(err))

	info, err = lfs.Stat(newPath)
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())

	require.NoError(t, lfs.Remove(newPath))
	_, err = lfs.Stat(newPath)
	assert.True(t, os.IsNotExist(err))
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, Default, OrDefault(nil))

	ffs := NewFaultyFS(nil)
	assert.Equal(t, FileSystem(ffs), OrDefault(ffs))
}

func TestFaultyFS(t *testing.T) {
	tmp := t.TempDir()

	t.Run("WriteLimit", func(t *testing.T) {
		ffs := NewFaultyFS(nil)
		ffs.AddRule("limited", Fault{FailAfterBytes: 4})

		f, err := ffs.OpenFile(filepath.Join(tmp, "limited.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
		require.NoError(t, err)
		defer f.Close()

		_, err = f.Write([]byte("abcd"))
		require.NoError(t, err)

		_, err = f.Write([]byte("e"))
		assert.ErrorIs(t, err, ErrInjected)
	})

	t.Run("Unmatched", func(t *testing.T) {
		ffs := NewFaultyFS(nil)
		ffs.AddRule("other", Fault{FailAfterBytes: 0})

		path := filepath.Join(tmp, "plain.bin")
		f, err := ffs.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
		require.NoError(t, err)

		_, err = f.Write([]byte("payload"))
		require.NoError(t, err)
		require.NoError(t, f.Close())

		r, err := os.Open(path)
		require.NoError(t, err)
		defer r.Close()

		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
	})

	t.Run("OpenSyncCloseRename", func(t *testing.T) {
		ffs := NewFaultyFS(nil)
		ffs.AddRule("open", Fault{FailOnOpen: true, FailAfterBytes: -1})
		ffs.AddRule("sync", Fault{FailOnSync: true, FailAfterBytes: -1})
		ffs.AddRule("close", Fault{FailOnClose: true, FailAfterBytes: -1})
		ffs.AddRule("target", Fault{FailOnRename: true, FailAfterBytes: -1})

		_, err := ffs.OpenFile(filepath.Join(tmp, "open.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
		assert.ErrorIs(t, err, ErrInjected)

		f, err := ffs.OpenFile(filepath.Join(tmp, "sync.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
		require.NoError(t, err)
		assert.ErrorIs(t, f.Sync(), ErrInjected)
		require.NoError(t, f.Close())

		f, err = ffs.OpenFile(filepath.Join(tmp, "close.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
		require.NoError(t, err)
		assert.ErrorIs(t, f.Close(), ErrInjected)

		src := filepath.Join(tmp, "sync.bin")
		assert.ErrorIs(t, ffs.Rename(src, filepath.Join(tmp, "target.bin")), ErrInjected)
	})

	t.Run("ClearRules", func(t *testing.T) {
		ffs := NewFaultyFS(nil)
		ffs.AddRule("cleared", Fault{FailOnOpen: true})
		ffs.ClearRules()

		f, err := ffs.OpenFile(filepath.Join(tmp, "cleared.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
		require.NoError(t, err)
		assert.NoError(t, f.Close())
	})
}
