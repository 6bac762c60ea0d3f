// Package session ties the editing buffer, the document, autosave and file
// interchange together. It is the API the user interface drives.
package session

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/colonyops/csword/internal/core/autosave"
	"github.com/colonyops/csword/internal/core/document"
	"github.com/colonyops/csword/internal/core/editor"
	"github.com/colonyops/csword/internal/core/fileio"
	"github.com/colonyops/csword/internal/core/kv"
	"github.com/colonyops/csword/internal/core/logging"
	"github.com/colonyops/csword/internal/core/richtext"
	"github.com/colonyops/csword/internal/core/search"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrNotImage is returned by InsertImage for non-image data.
	ErrNotImage = errors.New("not an image")
	// ErrUnsupportedFile is returned when opening a file type the editor
	// does not read.
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// Options configures a Session. Nil file access fields disable the
// corresponding path; the fallbacks are used instead.
type Options struct {
	Store          kv.KV // nil keeps autosave in memory
	Autosave       autosave.Options
	DefaultTitle   string
	HistoryLimit   int
	SanitizeOnOpen bool

	Picker     fileio.Picker
	Chooser    fileio.Chooser
	Downloader fileio.Downloader // default: current directory
	Printer    Printer
	Watcher    *fileio.Watcher

	Now func() time.Time
}

// Session is one open document and everything needed to edit and persist it.
type Session struct {
	id       string
	opts     Options
	log      zerolog.Logger
	buf      *editor.Buffer
	autosave *autosave.Controller

	mu  sync.Mutex
	doc document.Document

	// saveMu allows one explicit save at a time.
	saveMu   sync.Mutex
	lastSave SaveReport

	unsubscribe func()
}

// New starts a session. The document is restored from autosave when a
// usable record exists, otherwise it is the default document.
func New(ctx context.Context, opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultTitle == "" {
		opts.DefaultTitle = document.DefaultTitle
	}
	if opts.Downloader == nil {
		opts.Downloader = fileio.DirDownloader{Dir: "."}
	}

	id := uuid.NewString()
	s := &Session{
		id:       id,
		opts:     opts,
		log:      logging.Component("session").With().Str("session_id", id).Logger(),
		autosave: autosave.New(opts.Store, opts.Autosave),
	}

	now := opts.Now()
	s.doc = document.Default(opts.DefaultTitle, now)
	if rec, ok := s.autosave.Restore(ctx); ok {
		title := rec.Title
		if strings.TrimSpace(title) == "" {
			title = opts.DefaultTitle
		}
		s.doc.Load(title, richtext.Parse(rec.HTML), nil, now)
		s.log.Debug().Str("title", title).Int64("ts", rec.TS).Msg("restored autosave")
	}

	s.buf = editor.New(s.doc.Content, editor.Options{HistoryLimit: opts.HistoryLimit})
	s.unsubscribe = s.buf.OnChange(s.onChange)
	return s
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// Buffer returns the editing buffer. Edits made through it are tracked like
// any other change.
func (s *Session) Buffer() *editor.Buffer { return s.buf }

// Document returns a snapshot of the document.
func (s *Session) Document() document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Status returns the unsaved/autosaved indicator.
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Status()
}

// Stats returns word and character counts.
func (s *Session) Stats() richtext.Stats {
	return s.buf.Projection().Stats()
}

// SelectionReport describes the current selection.
func (s *Session) SelectionReport() string {
	return richtext.SelectionReport(s.buf.Selection())
}

// SetTitle renames the document.
func (s *Session) SetTitle(title string) error {
	s.mu.Lock()
	before := s.doc.Title
	err := s.doc.SetTitle(title, s.opts.Now())
	changed := s.doc.Title != before
	s.mu.Unlock()

	if err != nil {
		return err
	}
	if changed {
		s.scheduleAutosave()
	}
	return nil
}

// FindNext selects the next match of query after the selection start. It
// reports whether a match was found.
func (s *Session) FindNext(query string) bool {
	sel, ok := search.FindNext(s.buf.Projection(), query, s.buf.Selection().Start)
	if ok {
		s.buf.SetSelection(sel)
	}
	return ok
}

// FindAll returns every match of query.
func (s *Session) FindAll(query string) []richtext.Selection {
	return search.FindAll(s.buf.Projection(), query)
}

// ReplaceOne replaces the selection when it is a match of query, otherwise
// selects the next match.
func (s *Session) ReplaceOne(query, replacement string) search.Result {
	res := search.ReplaceOne(s.buf.Content(), query, replacement, s.buf.Selection())

	switch {
	case res.Replaced:
		s.buf.Replace(res.Content, res.Selection, editor.SourceUser)
	case res.Found:
		s.buf.SetSelection(res.Selection)
	}
	return res
}

// ReplaceAll replaces every occurrence of query and returns the count. The
// document only changes when at least one occurrence was replaced.
func (s *Session) ReplaceAll(query, replacement string) int {
	out, n := search.ReplaceAll(s.buf.Content(), query, replacement)
	if n == 0 {
		return 0
	}

	s.buf.Replace(out, richtext.Selection{Start: s.buf.Selection().Start}, editor.SourceAPI)
	s.log.Debug().Int("count", n).Msg("replaced all")
	return n
}

// InsertImage embeds image data at pos as a data URL. The media type comes
// from the file name, or is sniffed from data.
func (s *Session) InsertImage(pos int, name string, data []byte) error {
	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	mediaType, _, _ = strings.Cut(mediaType, ";")
	if !strings.HasPrefix(mediaType, "image/") {
		return fmt.Errorf("%s: %w", name, ErrNotImage)
	}

	ref := "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
	return s.buf.InsertEmbed(pos, "image", ref, editor.SourceUser)
}

func (s *Session) Undo() bool { return s.buf.Undo() }

func (s *Session) Redo() bool { return s.buf.Redo() }

// Reset replaces the document with the default document under title.
func (s *Session) Reset(title string) {
	if strings.TrimSpace(title) == "" {
		title = s.opts.DefaultTitle
	}
	s.load(title, richtext.Parse(document.DefaultHTML), nil)
}

// Open asks the picker for a file and loads it, binding the document to it.
// Without a usable picker the chooser is asked instead and no binding is
// kept. Cancelling leaves the document untouched.
func (s *Session) Open(ctx context.Context) error {
	if s.opts.Picker == nil {
		return s.openWithChooser(ctx)
	}

	h, err := s.opts.Picker.PickOpenTarget(ctx)
	switch {
	case errors.Is(err, fileio.ErrCancelled):
		s.log.Debug().Msg("open cancelled")
		return nil
	case err != nil:
		s.log.Warn().Err(err).Msg("open picker unavailable, using chooser")
		return s.openWithChooser(ctx)
	}

	if !fileio.AcceptsOpen(h.Name()) {
		return fmt.Errorf("%s: %w", h.Name(), ErrUnsupportedFile)
	}

	data, err := h.Read(ctx)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}

	s.load(h.Name(), s.decode(h.Name(), data), fileio.NewBinding(h))
	return nil
}

// OpenFile loads a file the caller has already read. The document is not
// bound to any file.
func (s *Session) OpenFile(name string, data []byte) error {
	if !fileio.AcceptsOpen(name) {
		return fmt.Errorf("%s: %w", name, ErrUnsupportedFile)
	}
	s.load(filepath.Base(name), s.decode(name, data), nil)
	return nil
}

func (s *Session) openWithChooser(ctx context.Context) error {
	if s.opts.Chooser == nil {
		return fileio.ErrNoPicker
	}

	name, data, err := s.opts.Chooser.Choose(ctx)
	if errors.Is(err, fileio.ErrCancelled) {
		s.log.Debug().Msg("open cancelled")
		return nil
	}
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	return s.OpenFile(name, data)
}

// SaveOutcome is how an explicit save ended.
type SaveOutcome int

const (
	SaveNone SaveOutcome = iota
	SaveCancelled
	SaveWritten
	SaveDownloaded
)

func (o SaveOutcome) String() string {
	switch o {
	case SaveCancelled:
		return "cancelled"
	case SaveWritten:
		return "written"
	case SaveDownloaded:
		return "downloaded"
	default:
		return "none"
	}
}

// SaveReport describes the last completed Save or SaveAs call.
type SaveReport struct {
	Outcome SaveOutcome
	Target  string // file name or download path
}

// LastSave returns the report of the last Save or SaveAs call.
func (s *Session) LastSave() SaveReport {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return s.lastSave
}

// Save writes the document to its bound file. Without a usable binding, or
// when the write fails, it continues as SaveAs.
func (s *Session) Save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	snap := s.snapshot()
	if snap.doc.Bound() {
		b := snap.doc.Binding
		err := b.Handle().Write(ctx, snap.page())
		if err == nil {
			s.markSaved(snap, b)
			s.lastSave = SaveReport{Outcome: SaveWritten, Target: b.Name()}
			s.log.Debug().Str("file", b.Name()).Msg("saved")
			return nil
		}

		s.log.Warn().Err(err).Str("file", b.Name()).Msg("save to bound file failed")
		b.MarkStale()
	}

	return s.saveAs(ctx, snap)
}

// SaveAs asks for a new target and writes the document there, binding it.
// Cancelling is a no-op. When no picker is usable the document is handed to
// the downloader instead.
func (s *Session) SaveAs(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	return s.saveAs(ctx, s.snapshot())
}

func (s *Session) saveAs(ctx context.Context, snap snapshot) error {
	if s.opts.Picker != nil {
		h, err := s.opts.Picker.PickSaveTarget(ctx, snap.doc.FileName())
		if errors.Is(err, fileio.ErrCancelled) {
			s.lastSave = SaveReport{Outcome: SaveCancelled}
			s.log.Debug().Msg("save cancelled")
			return nil
		}

		if err == nil {
			werr := h.Write(ctx, snap.page())
			if werr == nil {
				s.markSaved(snap, fileio.NewBinding(h))
				s.lastSave = SaveReport{Outcome: SaveWritten, Target: h.Name()}
				s.log.Debug().Str("file", h.Name()).Msg("saved as")
				return nil
			}
			err = werr
		}
		s.log.Warn().Err(err).Msg("save target unavailable, downloading instead")
	}

	path, err := s.opts.Downloader.Download(ctx, snap.doc.FileName(), snap.page())
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}

	s.markSaved(snap, nil)
	s.lastSave = SaveReport{Outcome: SaveDownloaded, Target: path}
	s.log.Debug().Str("path", path).Msg("saved as download")
	return nil
}

// ExportPortable hands the document to the downloader as a standalone page.
// Dirty state and binding are untouched.
func (s *Session) ExportPortable(ctx context.Context) (string, error) {
	snap := s.snapshot()
	path, err := s.opts.Downloader.Download(ctx, snap.doc.FileName(), snap.page())
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return path, nil
}

// Print sends the serialized document to the printer. Dirty state and
// binding are untouched.
func (s *Session) Print(ctx context.Context) error {
	if s.opts.Printer == nil {
		return ErrNoPrinter
	}
	snap := s.snapshot()
	if err := s.opts.Printer.Print(ctx, snap.doc.Title, snap.page()); err != nil {
		return fmt.Errorf("print: %w", err)
	}
	return nil
}

// Close writes any pending autosave and stops watching the bound file.
func (s *Session) Close(ctx context.Context) {
	s.unsubscribe()

	s.mu.Lock()
	b := s.doc.Binding
	s.mu.Unlock()
	if s.opts.Watcher != nil {
		s.opts.Watcher.Unwatch(b)
	}

	s.autosave.Flush(ctx)
}

// onChange keeps the document in step with the buffer. Loads arrive as
// silent changes and are finished by load.
func (s *Session) onChange(c editor.Change) {
	if c.Source == editor.SourceSilent {
		return
	}

	s.mu.Lock()
	s.doc.SetContent(c.Content, s.opts.Now())
	s.mu.Unlock()

	s.scheduleAutosave()
}

// load replaces the document with freshly loaded content. The document is
// clean afterwards.
func (s *Session) load(title string, c richtext.Content, b *fileio.Binding) {
	s.buf.SetContent(c, editor.SourceSilent)

	s.mu.Lock()
	old := s.doc.Binding
	s.doc.Load(title, s.buf.Content(), b, s.opts.Now())
	s.mu.Unlock()

	s.rewatch(old, b)
	s.scheduleAutosave()
	s.log.Debug().Str("title", title).Bool("bound", b != nil).Msg("document loaded")
}

func (s *Session) rewatch(old, b *fileio.Binding) {
	if s.opts.Watcher == nil || old == b {
		return
	}
	s.opts.Watcher.Unwatch(old)
	if b == nil {
		return
	}
	if err := s.opts.Watcher.Watch(b); err != nil {
		s.log.Warn().Err(err).Str("file", b.Name()).Msg("cannot watch bound file")
	}
}

func (s *Session) decode(name string, data []byte) richtext.Content {
	html := fileio.Decode(name, data)
	if s.opts.SanitizeOnOpen {
		html = fileio.Sanitize(html)
	}
	c := richtext.Parse(html)
	c.Normalize()
	return c
}

func (s *Session) scheduleAutosave() {
	s.mu.Lock()
	title := s.doc.Title
	html := s.doc.Content.HTML()
	s.mu.Unlock()

	s.autosave.Schedule(context.Background(), title, html)
}

// snapshot is the document state a save started from.
type snapshot struct {
	doc     document.Document
	version uint64
}

func (s *Session) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{doc: s.doc, version: s.buf.Version()}
}

func (snap snapshot) page() []byte {
	return fileio.Serialize(snap.doc.Title, snap.doc.Content.HTML())
}

// markSaved records a completed save of snap. The document stays dirty when
// it changed while the save was running. A nil binding keeps the current
// one.
func (s *Session) markSaved(snap snapshot, b *fileio.Binding) {
	s.mu.Lock()
	old := s.doc.Binding
	if b != nil {
		s.doc.Binding = b
	}
	if s.buf.Version() == snap.version && s.doc.Title == snap.doc.Title {
		s.doc.MarkSaved(s.opts.Now())
	}
	s.mu.Unlock()

	if b != nil {
		s.rewatch(old, b)
	}
}
