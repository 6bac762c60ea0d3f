package fileio

import "sync/atomic"

// Binding ties a document to the file it was opened from or saved to. The
// file may change or disappear behind the editor's back, so a binding can
// become stale. A stale binding is not used for saving.
type Binding struct {
	handle Handle
	stale  atomic.Bool
}

func NewBinding(h Handle) *Binding {
	return &Binding{handle: h}
}

func (b *Binding) Handle() Handle { return b.handle }

func (b *Binding) Name() string { return b.handle.Name() }

func (b *Binding) Stale() bool { return b.stale.Load() }

func (b *Binding) MarkStale() { b.stale.Store(true) }

// pathOf returns the file system path behind a handle, if it has one.
func pathOf(h Handle) (string, bool) {
	p, ok := h.(interface{ Path() string })
	if !ok {
		return "", false
	}
	return p.Path(), true
}
