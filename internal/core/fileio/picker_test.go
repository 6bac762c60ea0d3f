package fileio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirDownloader(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	d := DirDownloader{Dir: dir}

	first, err := d.Download(ctx, "Untitled.csw", []byte("one"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Untitled.csw"), first)

	second, err := d.Download(ctx, "Untitled.csw", []byte("two"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Untitled (1).csw"), second)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "one", string(data), "existing downloads are never replaced")
}

func TestDirDownloader_StripsDirectories(t *testing.T) {
	dir := t.TempDir()

	path, err := DirDownloader{Dir: dir}.Download(context.Background(), "../../escape.html", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.html"), path)
}

func TestPathPicker(t *testing.T) {
	ctx := context.Background()

	_, err := PathPicker{}.PickSaveTarget(ctx, "x.csw")
	assert.ErrorIs(t, err, ErrNoPicker)
	_, err = PathPicker{}.PickOpenTarget(ctx)
	assert.ErrorIs(t, err, ErrNoPicker)

	h, err := PathPicker{SavePath: "/tmp/out.csw"}.PickSaveTarget(ctx, "x.csw")
	require.NoError(t, err)
	assert.Equal(t, "out.csw", h.Name())
}

func TestReaderChooser(t *testing.T) {
	ctx := context.Background()

	name, data, err := ReaderChooser{Name: "stdin.html", R: strings.NewReader("<p>x</p>")}.Choose(ctx)
	require.NoError(t, err)
	assert.Equal(t, "stdin.html", name)
	assert.Equal(t, "<p>x</p>", string(data))

	_, _, err = ReaderChooser{Name: "stdin.html"}.Choose(ctx)
	assert.True(t, errors.Is(err, ErrCancelled))
}

func TestPatterns(t *testing.T) {
	tests := []struct {
		name     string
		openable bool
		saveable bool
	}{
		{"doc.csw", true, true},
		{"doc.html", true, true},
		{"DOC.HTML", true, true},
		{"doc.htm", true, false},
		{"notes.txt", true, false},
		{"readme.md", true, false},
		{"readme.markdown", true, false},
		{"dir/sub/page.html", true, true},
		{"image.png", false, false},
		{"csw", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.openable, AcceptsOpen(tt.name))
			assert.Equal(t, tt.saveable, AcceptsSave(tt.name))
		})
	}
}
