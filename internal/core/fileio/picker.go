package fileio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrCancelled is returned when the user dismisses a file dialog.
	ErrCancelled = errors.New("cancelled")
	// ErrNoPicker is returned when no file dialog is available.
	ErrNoPicker = errors.New("no file picker available")
)

// Picker asks the user for a file.
type Picker interface {
	// PickSaveTarget returns a handle for a file to write, suggesting name.
	PickSaveTarget(ctx context.Context, suggested string) (Handle, error)
	// PickOpenTarget returns a handle for a file to read.
	PickOpenTarget(ctx context.Context) (Handle, error)
}

// Chooser reads a file without granting write access to it.
type Chooser interface {
	Choose(ctx context.Context) (name string, data []byte, err error)
}

// Downloader hands bytes to the user under a suggested file name. It returns
// where the bytes ended up.
type Downloader interface {
	Download(ctx context.Context, name string, data []byte) (string, error)
}

// PathPicker answers pick requests with fixed paths. An empty path reports
// ErrNoPicker so callers fall back.
type PathPicker struct {
	SavePath string
	OpenPath string
}

var _ Picker = PathPicker{}

func (p PathPicker) PickSaveTarget(context.Context, string) (Handle, error) {
	if p.SavePath == "" {
		return nil, ErrNoPicker
	}
	return NewOSHandle(p.SavePath), nil
}

func (p PathPicker) PickOpenTarget(context.Context) (Handle, error) {
	if p.OpenPath == "" {
		return nil, ErrNoPicker
	}
	return NewOSHandle(p.OpenPath), nil
}

// DirDownloader writes downloads into a directory. An existing file is never
// replaced; a numbered name is used instead.
type DirDownloader struct {
	Dir string
}

var _ Downloader = DirDownloader{}

func (d DirDownloader) Download(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		name = UntitledTitle
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for i := 0; ; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		path := filepath.Join(dir, candidate)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("download %s: %w", candidate, err)
		}

		_, werr := f.Write(data)
		cerr := f.Close()
		if err := errors.Join(werr, cerr); err != nil {
			return "", fmt.Errorf("download %s: %w", candidate, err)
		}
		return path, nil
	}
}

// ReaderChooser reads a whole stream as one file called Name.
type ReaderChooser struct {
	Name string
	R    io.Reader
}

var _ Chooser = ReaderChooser{}

func (c ReaderChooser) Choose(ctx context.Context) (string, []byte, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	if c.R == nil {
		return "", nil, ErrCancelled
	}
	data, err := io.ReadAll(c.R)
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", c.Name, err)
	}
	return c.Name, data, nil
}
