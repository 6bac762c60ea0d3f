package session

import (
	"context"
	"errors"
	"strings"

	"github.com/colonyops/csword/pkg/executil"
)

// ErrNoPrinter is returned by Print when no printer is configured.
var ErrNoPrinter = errors.New("no printer configured")

// Printer renders a serialized page on the host's print facility.
type Printer interface {
	Print(ctx context.Context, title string, page []byte) error
}

// CommandPrinter pipes the page into an external command such as lp. The
// placeholder {title} in arguments is replaced with the document title.
type CommandPrinter struct {
	Exec    executil.Executor
	Command []string
}

var _ Printer = CommandPrinter{}

func (p CommandPrinter) Print(ctx context.Context, title string, page []byte) error {
	if len(p.Command) == 0 || p.Exec == nil {
		return ErrNoPrinter
	}

	args := make([]string, 0, len(p.Command)-1)
	for _, a := range p.Command[1:] {
		args = append(args, strings.ReplaceAll(a, "{title}", title))
	}

	_, err := p.Exec.RunInput(ctx, page, p.Command[0], args...)
	return err
}
