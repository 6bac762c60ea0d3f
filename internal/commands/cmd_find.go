package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/csword/internal/core/richtext"
	"github.com/urfave/cli/v3"
)

type FindCmd struct {
	flags *Flags
	from  int
	all   bool
}

// NewFindCmd creates a new find command.
func NewFindCmd(flags *Flags) *FindCmd {
	return &FindCmd{flags: flags}
}

// Register adds the find command to the application.
func (cmd *FindCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "find",
		Usage:     "Find text in the document",
		UsageText: "csword find [options] QUERY",
		Description: `Finds the next case-insensitive occurrence of QUERY after --from,
wrapping to the start of the document. Offsets count characters of the flat
text; each paragraph break counts as one character.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "from",
				Usage:       "search after this offset (default: first occurrence)",
				Value:       -1,
				Destination: &cmd.from,
			},
			&cli.BoolFlag{
				Name:        "all",
				Aliases:     []string{"a"},
				Usage:       "list every occurrence",
				Destination: &cmd.all,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *FindCmd) run(_ context.Context, c *cli.Command) error {
	query := c.Args().First()
	if query == "" {
		return fmt.Errorf("query is required")
	}

	s := cmd.flags.Session
	w := c.Root().Writer

	if cmd.all {
		matches := s.FindAll(query)
		for _, m := range matches {
			_, _ = fmt.Fprintf(w, "%d\t%d\n", m.Start, m.Length)
		}
		_, _ = fmt.Fprintf(w, "%d match(es)\n", len(matches))
		return nil
	}

	found := false
	if cmd.from < 0 {
		if matches := s.FindAll(query); len(matches) > 0 {
			s.Buffer().SetSelection(matches[0])
			found = true
		}
	} else {
		s.Buffer().SetSelection(richtext.Selection{Start: cmd.from})
		found = s.FindNext(query)
	}
	if !found {
		_, _ = fmt.Fprintf(w, "%q not found\n", query)
		return nil
	}

	sel := s.Buffer().Selection()
	_, _ = fmt.Fprintf(w, "Found at %d: %s\n", sel.Start, s.SelectionReport())
	return nil
}
