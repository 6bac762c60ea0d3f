// Package document defines the document domain type: the formatted content
// being edited, its title, and its persistence state.
package document

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/colonyops/csword/internal/core/fileio"
	"github.com/colonyops/csword/internal/core/richtext"
)

// Defaults for a fresh document.
const (
	DefaultTitle = "Untitled.csw"
	DefaultHTML  = `<h1>Welcome to Cybersoft Word</h1><p>Type here. Use the toolbar above.</p>`
)

// ErrEmptyTitle is returned when a title is blank.
var ErrEmptyTitle = errors.New("title must not be empty")

// Status values reported by Document.Status.
const (
	StatusUnsaved   = "● unsaved"
	StatusAutosaved = "● autosaved"
)

// Document is the unit being edited.
//
// Dirty is set by any content or title change outside of a load, and cleared
// by a completed save. Binding, when set, is the file the document was last
// opened from or saved to. It may be stale; it never owns the file.
type Document struct {
	Title     string
	Content   richtext.Content
	Dirty     bool
	Binding   *fileio.Binding
	UpdatedAt time.Time
}

// Default returns the welcome document under title. An empty title uses
// DefaultTitle.
func Default(title string, now time.Time) Document {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	return Document{
		Title:     title,
		Content:   richtext.Parse(DefaultHTML),
		UpdatedAt: now,
	}
}

// SetTitle renames the document and marks it dirty.
func (d *Document) SetTitle(title string, now time.Time) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	if title == d.Title {
		return nil
	}
	d.Title = title
	d.MarkDirty(now)
	return nil
}

// SetContent replaces the content and marks the document dirty.
func (d *Document) SetContent(c richtext.Content, now time.Time) {
	d.Content = c
	d.MarkDirty(now)
}

// Load replaces content and title with freshly loaded data. The document is
// clean afterwards and bound to b, which may be nil.
func (d *Document) Load(title string, c richtext.Content, b *fileio.Binding, now time.Time) {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	d.Title = title
	d.Content = c
	d.Binding = b
	d.Dirty = false
	d.UpdatedAt = now
}

// MarkDirty flags unsaved changes.
func (d *Document) MarkDirty(now time.Time) {
	d.Dirty = true
	d.UpdatedAt = now
}

// MarkSaved clears the dirty flag after a completed save.
func (d *Document) MarkSaved(now time.Time) {
	d.Dirty = false
	d.UpdatedAt = now
}

// Bound reports whether the document has a usable file binding.
func (d Document) Bound() bool {
	return d.Binding != nil && !d.Binding.Stale()
}

// Status returns the status line indicator.
func (d Document) Status() string {
	if d.Dirty {
		return StatusUnsaved
	}
	return StatusAutosaved
}

// FileName returns the name suggested when the document is written to a new
// file: the title, or DefaultTitle when it has none.
func (d Document) FileName() string {
	name := strings.TrimSpace(d.Title)
	if name == "" {
		return DefaultTitle
	}
	return filepath.Base(name)
}
