package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/colonyops/csword/internal/core/editor"
	"github.com/colonyops/csword/internal/core/richtext"
	"github.com/colonyops/csword/internal/core/session"
	"github.com/urfave/cli/v3"
)

type ReplCmd struct {
	flags *Flags
}

// NewReplCmd creates a new repl command.
func NewReplCmd(flags *Flags) *ReplCmd {
	return &ReplCmd{flags: flags}
}

// Register adds the repl command to the application.
func (cmd *ReplCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "repl",
		Usage:     "Edit interactively, one command per line",
		UsageText: "csword repl",
		Description: `Reads editing commands from stdin until EOF or "quit".

Unlike single commands, the file binding, selection, last search and undo
history stay alive between lines. Type "help" for the command list.`,
		Action: cmd.run,
	})

	return app
}

const replHelp = `commands:
  show | text | status          print the document
  find QUERY | next              select the next occurrence
  select START LENGTH            set the selection
  replace QUERY -> REPLACEMENT   replace the selection if it matches, else select next
  replaceall QUERY -> REPLACEMENT
  insert [POS] TEXT              insert at POS (default: caret)
  delete                         delete the selection
  image PATH                     embed an image at the caret
  title NAME
  undo | redo
  new [TITLE] | open [PATH] | save [PATH] | saveas [PATH] | export | print
  quit`

// errQuit ends the loop.
var errQuit = errors.New("quit")

type repl struct {
	flags *Flags
	s     *session.Session
	w     io.Writer
	query string
}

func (cmd *ReplCmd) run(ctx context.Context, c *cli.Command) error {
	r := &repl{flags: cmd.flags, s: cmd.flags.Session, w: c.Root().Writer}

	in := c.Root().Reader
	if in == nil {
		in = os.Stdin
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	_, _ = fmt.Fprintln(r.w, `csword repl. Type "help" for commands.`)
	for {
		_, _ = fmt.Fprint(r.w, "> ")
		if !scanner.Scan() {
			break
		}

		err := r.exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			_, _ = fmt.Fprintf(r.w, "error: %v\n", err)
		}
	}
	_, _ = fmt.Fprintln(r.w)
	return scanner.Err()
}

func (r *repl) exec(ctx context.Context, line string) error {
	verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch verb {
	case "":
		return nil
	case "help", "?":
		_, _ = fmt.Fprintln(r.w, replHelp)
	case "quit", "exit":
		return errQuit
	case "show":
		_, _ = fmt.Fprintln(r.w, r.s.Document().Content.HTML())
	case "text":
		_, _ = fmt.Fprintln(r.w, r.s.Buffer().Text())
	case "status":
		printStatus(r.w, r.s)
	case "find":
		r.query = rest
		r.find()
	case "next":
		r.find()
	case "select":
		start, length, err := twoInts(rest)
		if err != nil {
			return err
		}
		r.s.Buffer().SetSelection(richtext.Selection{Start: start, Length: length})
		printStatus(r.w, r.s)
	case "replace", "replaceall":
		query, replacement, ok := strings.Cut(rest, "->")
		if !ok {
			return fmt.Errorf("usage: %s QUERY -> REPLACEMENT", verb)
		}
		query, replacement = strings.TrimSpace(query), strings.TrimSpace(replacement)
		r.query = query
		if verb == "replaceall" {
			_, _ = fmt.Fprintf(r.w, "replaced %d\n", r.s.ReplaceAll(query, replacement))
			return nil
		}
		res := r.s.ReplaceOne(query, replacement)
		switch {
		case res.Replaced:
			_, _ = fmt.Fprintln(r.w, "replaced 1")
		case res.Found:
			_, _ = fmt.Fprintf(r.w, "selected %d+%d\n", res.Selection.Start, res.Selection.Length)
		default:
			_, _ = fmt.Fprintln(r.w, "not found")
		}
	case "insert":
		pos := r.s.Buffer().Selection().Start
		if first, tail, ok := strings.Cut(rest, " "); ok {
			if n, err := strconv.Atoi(first); err == nil {
				pos, rest = n, tail
			}
		}
		return r.s.Buffer().InsertText(pos, rest, editor.SourceUser)
	case "delete":
		return r.s.Buffer().DeleteText(r.s.Buffer().Selection(), editor.SourceUser)
	case "image":
		data, err := os.ReadFile(rest)
		if err != nil {
			return err
		}
		return r.s.InsertImage(r.s.Buffer().Selection().Start, rest, data)
	case "title":
		return r.s.SetTitle(rest)
	case "undo":
		if !r.s.Undo() {
			_, _ = fmt.Fprintln(r.w, "nothing to undo")
		}
	case "redo":
		if !r.s.Redo() {
			_, _ = fmt.Fprintln(r.w, "nothing to redo")
		}
	case "new":
		r.s.Reset(rest)
	case "open":
		r.flags.Picker.SetPath(rest)
		defer r.flags.Picker.SetPath("")
		return r.s.Open(ctx)
	case "save", "saveas":
		r.flags.Picker.SetPath(rest)
		defer r.flags.Picker.SetPath("")
		var err error
		if verb == "saveas" || rest != "" {
			err = r.s.SaveAs(ctx)
		} else {
			err = r.s.Save(ctx)
		}
		if err != nil {
			return err
		}
		report := r.s.LastSave()
		_, _ = fmt.Fprintf(r.w, "%s %s\n", report.Outcome, report.Target)
	case "export":
		path, err := r.s.ExportPortable(ctx)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(r.w, path)
	case "print":
		return r.s.Print(ctx)
	default:
		return fmt.Errorf("unknown command %q", verb)
	}
	return nil
}

func (r *repl) find() {
	if r.s.FindNext(r.query) {
		sel := r.s.Buffer().Selection()
		_, _ = fmt.Fprintf(r.w, "selected %d+%d\n", sel.Start, sel.Length)
		return
	}
	_, _ = fmt.Fprintln(r.w, "not found")
}

func twoInts(s string) (int, int, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected two numbers")
	}
	a, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
