package fileio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Handle is a writable reference to one file.
type Handle interface {
	Name() string
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// OSHandle is a Handle on the local file system.
type OSHandle struct {
	path string
}

var _ Handle = (*OSHandle)(nil)

func NewOSHandle(path string) *OSHandle {
	return &OSHandle{path: filepath.Clean(path)}
}

// Name returns the base name of the file.
func (h *OSHandle) Name() string { return filepath.Base(h.path) }

// Path returns the full path of the file.
func (h *OSHandle) Path() string { return h.path }

func (h *OSHandle) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(h.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", h.Name(), err)
	}
	return data, nil
}

// Write replaces the file contents atomically: data goes to a temporary file
// in the same directory which is then renamed over the target.
func (h *OSHandle) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(h.path)
	tmp, err := os.CreateTemp(dir, "."+h.Name()+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", h.Name(), err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", h.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", h.Name(), err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", h.Name(), err)
	}
	if err := os.Rename(tmpName, h.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", h.Name(), err)
	}
	return nil
}

// MemHandle is a Handle backed by memory.
type MemHandle struct {
	FileName string

	mu       sync.Mutex
	data     []byte
	writes   int
	writeErr error
}

var _ Handle = (*MemHandle)(nil)

// NewMemHandle returns a handle named name holding data.
func NewMemHandle(name string, data []byte) *MemHandle {
	return &MemHandle{FileName: name, data: data}
}

func (h *MemHandle) Name() string { return h.FileName }

func (h *MemHandle) Read(context.Context) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]byte(nil), h.data...), nil
}

func (h *MemHandle) Write(_ context.Context, data []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writes++
	if h.writeErr != nil {
		return h.writeErr
	}
	h.data = append([]byte(nil), data...)
	return nil
}

// FailWrites makes every following Write return err. A nil err restores
// normal writes.
func (h *MemHandle) FailWrites(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writeErr = err
}

// Data returns the last written bytes.
func (h *MemHandle) Data() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]byte(nil), h.data...)
}

// Writes returns the number of Write calls, failed ones included.
func (h *MemHandle) Writes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.writes
}
