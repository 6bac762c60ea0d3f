// Package editor implements the headless editing widget: formatted content,
// a selection over its flat text, change notifications tagged with their
// origin, and a linear undo stack.
//
// Content values handed out by a Buffer are snapshots. Every mutation builds
// a new tree, so a snapshot never changes after it was returned.
package editor

import (
	"errors"
	"sync"

	"github.com/colonyops/csword/internal/core/richtext"
)

// Source identifies where a change originated.
type Source uint8

const (
	// SourceUser marks changes made by the person editing.
	SourceUser Source = iota
	// SourceAPI marks programmatic changes such as replace-all.
	SourceAPI
	// SourceSilent marks loads and restores. They reset history and are not
	// edits of the document.
	SourceSilent
)

func (s Source) String() string {
	switch s {
	case SourceUser:
		return "user"
	case SourceAPI:
		return "api"
	case SourceSilent:
		return "silent"
	default:
		return "unknown"
	}
}

// ErrUnknownEmbed is returned by InsertEmbed for unsupported embed kinds.
var ErrUnknownEmbed = errors.New("unknown embed kind")

// Change describes one effective content mutation.
type Change struct {
	Source        Source
	VersionBefore uint64
	VersionAfter  uint64
	Content       richtext.Content
}

// Options configures a Buffer.
type Options struct {
	HistoryLimit int // default: 200; negative disables history
}

// Buffer holds the current content and selection.
type Buffer struct {
	mu sync.Mutex

	content richtext.Content
	proj    *richtext.Projection
	sel     richtext.Selection
	version uint64

	opt  Options
	hist historyState

	listeners    map[int]func(Change)
	nextListener int
}

// New returns a buffer holding content.
func New(content richtext.Content, opt Options) *Buffer {
	if opt.HistoryLimit == 0 {
		opt.HistoryLimit = 200
	}
	return &Buffer{
		content:   content,
		opt:       opt,
		listeners: make(map[int]func(Change)),
	}
}

// Content returns the current content snapshot.
func (b *Buffer) Content() richtext.Content {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.content
}

// Projection returns the flat text view of the current content.
func (b *Buffer) Projection() richtext.Projection {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.projection()
}

// Text returns the flat text of the current content.
func (b *Buffer) Text() string {
	return b.Projection().Text
}

// Version increments on every content change.
func (b *Buffer) Version() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

// Selection returns the current selection.
func (b *Buffer) Selection() richtext.Selection {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sel
}

// SetSelection moves the selection, clamped to the document.
func (b *Buffer) SetSelection(sel richtext.Selection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sel = b.projection().Clamp(sel)
}

// SetContent replaces the whole content. SourceSilent also clears history.
func (b *Buffer) SetContent(c richtext.Content, source Source) {
	b.apply(source, func(richtext.Content, richtext.Projection) (richtext.Content, richtext.Selection, error) {
		return c, richtext.Selection{}, nil
	})
}

// InsertText inserts text at pos. The text takes the formatting of the
// character before pos.
func (b *Buffer) InsertText(pos int, text string, source Source) error {
	if text == "" {
		return nil
	}
	return b.edit(source, func(c *richtext.Content, p richtext.Projection) (richtext.Selection, error) {
		if err := richtext.Replace(c, p, pos, pos, text); err != nil {
			return richtext.Selection{}, err
		}
		return richtext.Selection{Start: pos + len([]rune(text))}, nil
	})
}

// DeleteText removes the text covered by sel. Embeds inside the range and
// block structure are kept; a range crossing blocks is rejected.
func (b *Buffer) DeleteText(sel richtext.Selection, source Source) error {
	if sel.IsCaret() {
		return nil
	}
	return b.edit(source, func(c *richtext.Content, p richtext.Projection) (richtext.Selection, error) {
		if err := richtext.Replace(c, p, sel.Start, sel.End(), ""); err != nil {
			return richtext.Selection{}, err
		}
		return richtext.Selection{Start: sel.Start}, nil
	})
}

// InsertEmbed inserts an embedded resource at pos. kind "image" takes ref as
// the image source (a URL or data URL).
func (b *Buffer) InsertEmbed(pos int, kind, ref string, source Source) error {
	if kind != "image" {
		return ErrUnknownEmbed
	}
	embed := richtext.Element("img", []richtext.Attr{{Key: "src", Val: ref}})
	return b.edit(source, func(c *richtext.Content, p richtext.Projection) (richtext.Selection, error) {
		if err := richtext.InsertEmbed(c, p, pos, embed); err != nil {
			return richtext.Selection{}, err
		}
		return richtext.Selection{Start: pos}, nil
	})
}

// Replace swaps in content produced elsewhere from the current content, such
// as the result of a replace operation, and moves the selection.
func (b *Buffer) Replace(c richtext.Content, sel richtext.Selection, source Source) {
	b.apply(source, func(richtext.Content, richtext.Projection) (richtext.Content, richtext.Selection, error) {
		return c, sel, nil
	})
}

// OnChange registers fn to run after every content change. The returned func
// removes the listener.
func (b *Buffer) OnChange(fn func(Change)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextListener
	b.nextListener++
	b.listeners[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners, id)
	}
}

func (b *Buffer) edit(source Source, fn func(*richtext.Content, richtext.Projection) (richtext.Selection, error)) error {
	return b.apply(source, func(cur richtext.Content, _ richtext.Projection) (richtext.Content, richtext.Selection, error) {
		out := cur.Clone()
		p := richtext.Project(&out)
		sel, err := fn(&out, p)
		if err != nil {
			return richtext.Content{}, richtext.Selection{}, err
		}
		out.Normalize()
		return out, sel, nil
	})
}

// apply runs fn against the current state and commits its result, then
// notifies listeners outside the lock.
func (b *Buffer) apply(source Source, fn func(richtext.Content, richtext.Projection) (richtext.Content, richtext.Selection, error)) error {
	b.mu.Lock()

	prev := b.snapshot()
	next, sel, err := fn(b.content, b.projection())
	if err != nil {
		b.mu.Unlock()
		return err
	}

	if source == SourceSilent {
		b.hist = historyState{}
	} else {
		b.recordUndo(prev)
	}

	change := b.commit(next, sel, source)
	listeners := b.listenerSnapshot()
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(change)
	}
	return nil
}

func (b *Buffer) commit(next richtext.Content, sel richtext.Selection, source Source) Change {
	before := b.version
	b.content = next
	b.proj = nil
	b.version++
	b.sel = b.projection().Clamp(sel)

	return Change{
		Source:        source,
		VersionBefore: before,
		VersionAfter:  b.version,
		Content:       b.content,
	}
}

func (b *Buffer) projection() richtext.Projection {
	if b.proj == nil {
		p := richtext.Project(&b.content)
		b.proj = &p
	}
	return *b.proj
}

func (b *Buffer) listenerSnapshot() []func(Change) {
	out := make([]func(Change), 0, len(b.listeners))
	for i := 0; i < b.nextListener; i++ {
		if fn, ok := b.listeners[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}
