package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/colonyops/csword/internal/core/fileio"
	"github.com/colonyops/csword/internal/core/validate"
	"golang.org/x/term"
)

// PromptPicker picks files for the session. A path set with SetPath answers
// the next pick; otherwise the user is prompted when stdin is a terminal.
// Without either it reports fileio.ErrNoPicker so the session falls back.
type PromptPicker struct {
	Interactive bool

	path string
}

var _ fileio.Picker = (*PromptPicker)(nil)

// NewPromptPicker returns a picker that prompts when stdin is a terminal.
func NewPromptPicker() *PromptPicker {
	return &PromptPicker{Interactive: term.IsTerminal(int(os.Stdin.Fd()))}
}

// SetPath makes the next pick return path. An empty path clears it.
func (p *PromptPicker) SetPath(path string) { p.path = path }

func (p *PromptPicker) PickSaveTarget(_ context.Context, suggested string) (fileio.Handle, error) {
	path, err := p.pick("Save as", suggested, validate.SavePath)
	if err != nil {
		return nil, err
	}
	return fileio.NewOSHandle(path), nil
}

func (p *PromptPicker) PickOpenTarget(context.Context) (fileio.Handle, error) {
	path, err := p.pick("Open", "", validate.OpenPath)
	if err != nil {
		return nil, err
	}
	return fileio.NewOSHandle(path), nil
}

func (p *PromptPicker) pick(title, suggested string, validator func(string) error) (string, error) {
	if p.path != "" {
		path := p.path
		p.path = ""
		return path, nil
	}
	if !p.Interactive {
		return "", fileio.ErrNoPicker
	}

	path := suggested
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description("Path to a document file").
				Validate(validator).
				Value(&path),
		),
	).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return "", fileio.ErrCancelled
	}
	if err != nil {
		return "", fmt.Errorf("form: %w", err)
	}
	return strings.TrimSpace(path), nil
}

// DirDownloader writes downloads into Dir, which commands may change.
type DirDownloader struct {
	Dir string
}

var _ fileio.Downloader = (*DirDownloader)(nil)

func (d *DirDownloader) Download(ctx context.Context, name string, data []byte) (string, error) {
	return fileio.DirDownloader{Dir: d.Dir}.Download(ctx, name, data)
}

// StdinChooser reads a piped document from In under Name. It reports
// fileio.ErrCancelled when In is a terminal.
type StdinChooser struct {
	Name string
	In   io.Reader
}

var _ fileio.Chooser = (*StdinChooser)(nil)

func (c *StdinChooser) Choose(ctx context.Context) (string, []byte, error) {
	in := c.In
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		in = nil
	}
	return fileio.ReaderChooser{Name: c.Name, R: in}.Choose(ctx)
}
