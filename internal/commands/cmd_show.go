package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/colonyops/csword/internal/core/session"
	"github.com/colonyops/csword/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type ShowCmd struct {
	flags *Flags
	text  bool
	json  bool
}

// NewShowCmd creates a new show command.
func NewShowCmd(flags *Flags) *ShowCmd {
	return &ShowCmd{flags: flags}
}

// Register adds the show command to the application.
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Print the current document",
		UsageText: "csword show [options]",
		Description: `Prints the current document followed by its status line.

The document is the one restored from autosave: the last edit made by any
csword command.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "text",
				Aliases:     []string{"t"},
				Usage:       "print the flat text instead of HTML",
				Destination: &cmd.text,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print document, stats and status as JSON",
				Destination: &cmd.json,
			},
		},
		Action: cmd.run,
	})

	return app
}

type showOutput struct {
	Title  string `json:"title"`
	HTML   string `json:"html"`
	Text   string `json:"text"`
	Words  int    `json:"words"`
	Chars  int    `json:"chars"`
	Dirty  bool   `json:"dirty"`
	Status string `json:"status"`
}

// Run prints the document. It is also the root action.
func (cmd *ShowCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *ShowCmd) run(_ context.Context, c *cli.Command) error {
	s := cmd.flags.Session
	w := c.Root().Writer

	if cmd.json {
		doc := s.Document()
		stats := s.Stats()
		return iojson.WriteWith(w, c.Root().ErrWriter, showOutput{
			Title:  doc.Title,
			HTML:   doc.Content.HTML(),
			Text:   s.Buffer().Text(),
			Words:  stats.Words,
			Chars:  stats.Chars,
			Dirty:  doc.Dirty,
			Status: s.Status(),
		})
	}

	if cmd.text {
		_, _ = fmt.Fprintln(w, s.Buffer().Text())
	} else {
		_, _ = fmt.Fprintln(w, s.Document().Content.HTML())
	}
	printStatus(w, s)
	return nil
}

// printStatus writes the status line: title, counts, selection and save
// state.
func printStatus(w io.Writer, s *session.Session) {
	stats := s.Stats()
	_, _ = fmt.Fprintf(w, "%s · %d words · %d chars · %s · %s\n",
		s.Document().Title, stats.Words, stats.Chars, s.SelectionReport(), s.Status())
}
