package fileio

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T) *Watcher {
	t.Helper()
	w, err := NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func boundFile(t *testing.T) (*Binding, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.csw")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return NewBinding(NewOSHandle(path)), path
}

func TestWatcher_RemoveMarksStale(t *testing.T) {
	w := newTestWatcher(t)
	b, path := boundFile(t)
	require.NoError(t, w.Watch(b))

	require.NoError(t, os.Remove(path))

	assert.Eventually(t, b.Stale, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_RenameMarksStale(t *testing.T) {
	w := newTestWatcher(t)
	b, path := boundFile(t)
	require.NoError(t, w.Watch(b))

	require.NoError(t, os.Rename(path, path+".moved"))

	assert.Eventually(t, b.Stale, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_OwnWritesKeepBinding(t *testing.T) {
	w := newTestWatcher(t)
	b, _ := boundFile(t)
	require.NoError(t, w.Watch(b))

	for i := 0; i < 3; i++ {
		require.NoError(t, b.Handle().Write(context.Background(), []byte("update")))
	}

	assert.Never(t, b.Stale, 200*time.Millisecond, 10*time.Millisecond)
}

func TestWatcher_Unwatch(t *testing.T) {
	w := newTestWatcher(t)
	b, path := boundFile(t)
	require.NoError(t, w.Watch(b))
	w.Unwatch(b)

	require.NoError(t, os.Remove(path))

	assert.Never(t, b.Stale, 200*time.Millisecond, 10*time.Millisecond)
}

func TestWatcher_IgnoresMemoryHandles(t *testing.T) {
	w := newTestWatcher(t)

	assert.NoError(t, w.Watch(NewBinding(NewMemHandle("a.csw", nil))))
}
