package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
	return path
}

func TestExtAndAllowed(t *testing.T) {
	assert.Equal(t, "pdf", Ext("Report.PDF"))
	assert.Equal(t, "", Ext("noext"))

	assert.True(t, Allowed("a.docx", DocumentExts))
	assert.False(t, Allowed("a.exe", DocumentExts))
	assert.False(t, Allowed("noext", DocumentExts))

	assert.True(t, Allowed("b.webp", ImageExts))
	assert.False(t, Allowed("b.pdf", ImageExts))
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	store, err := NewStore(root)
	require.NoError(t, err)

	t.Run("current path returned unchanged", func(t *testing.T) {
		path := writeFile(t, root, "a.txt")
		got, healed, err := store.Resolve(path)
		require.NoError(t, err)
		assert.False(t, healed)
		assert.Equal(t, path, got)
	})

	t.Run("stale path healed by basename", func(t *testing.T) {
		writeFile(t, root, "moved.txt")
		stale := filepath.Join(t.TempDir(), "moved.txt")
		got, healed, err := store.Resolve(stale)
		require.NoError(t, err)
		assert.True(t, healed)
		assert.Equal(t, filepath.Join(root, "moved.txt"), got)
	})

	t.Run("missing everywhere", func(t *testing.T) {
		_, _, err := store.Resolve(filepath.Join(t.TempDir(), "ghost.txt"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty recorded path", func(t *testing.T) {
		_, _, err := store.Resolve("")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRemove(t *testing.T) {
	root := t.TempDir()
	store, err := NewStore(root)
	require.NoError(t, err)

	path := writeFile(t, root, "x.txt")
	require.NoError(t, store.Remove(path))
	// ลบซ้ำต้องไม่ error
	assert.NoError(t, store.Remove(path))
}

func TestMimeType(t *testing.T) {
	assert.Equal(t, "application/pdf", MimeType("pdf"))
	assert.Equal(t, "image/jpeg", MimeType("JPG"))
	assert.Equal(t, "application/octet-stream", MimeType("zip"))
}
