package fileio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSHandle_WriteRead(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "doc.csw")
	h := NewOSHandle(path)

	assert.Equal(t, "doc.csw", h.Name())
	assert.Equal(t, path, h.Path())

	require.NoError(t, h.Write(ctx, []byte("first")))
	require.NoError(t, h.Write(ctx, []byte("second")))

	got, err := h.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files are left behind")
	assert.Equal(t, "doc.csw", entries[0].Name())
}

func TestOSHandle_ReadMissing(t *testing.T) {
	h := NewOSHandle(filepath.Join(t.TempDir(), "missing.html"))

	_, err := h.Read(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOSHandle_WriteMissingDir(t *testing.T) {
	h := NewOSHandle(filepath.Join(t.TempDir(), "gone", "doc.csw"))

	err := h.Write(context.Background(), []byte("x"))
	assert.Error(t, err)
}

func TestOSHandle_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := NewOSHandle(filepath.Join(t.TempDir(), "doc.csw"))
	assert.ErrorIs(t, h.Write(ctx, []byte("x")), context.Canceled)
}

func TestMemHandle(t *testing.T) {
	ctx := context.Background()
	h := NewMemHandle("a.html", []byte("orig"))

	require.NoError(t, h.Write(ctx, []byte("new")))
	assert.Equal(t, "new", string(h.Data()))

	boom := errors.New("read-only")
	h.FailWrites(boom)
	assert.ErrorIs(t, h.Write(ctx, []byte("lost")), boom)
	assert.Equal(t, "new", string(h.Data()))
	assert.Equal(t, 2, h.Writes())

	got, err := h.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestBinding(t *testing.T) {
	b := NewBinding(NewMemHandle("a.csw", nil))

	assert.Equal(t, "a.csw", b.Name())
	assert.False(t, b.Stale())

	b.MarkStale()
	assert.True(t, b.Stale())
}
