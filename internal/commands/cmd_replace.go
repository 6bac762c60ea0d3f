package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/csword/internal/core/richtext"
	"github.com/urfave/cli/v3"
)

type ReplaceCmd struct {
	flags  *Flags
	all    bool
	from   int
	length int
	with   string
}

// NewReplaceCmd creates a new replace command.
func NewReplaceCmd(flags *Flags) *ReplaceCmd {
	return &ReplaceCmd{flags: flags}
}

// Register adds the replace command to the application.
func (cmd *ReplaceCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "replace",
		Usage:     "Replace text in the document",
		UsageText: "csword replace [options] QUERY [REPLACEMENT]",
		Description: `Replaces occurrences of QUERY, ignoring case. Formatting around each
occurrence is kept and markup is never touched.

Without options the first occurrence is replaced. With --from and --length
the given span is replaced only if it is an occurrence; otherwise the next
occurrence is reported. --all replaces every occurrence at once.

Positional arguments lose surrounding spaces and cannot be empty. Pass the
replacement with --with to keep it verbatim, including --with "" to delete.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "all",
				Aliases:     []string{"a"},
				Usage:       "replace every occurrence",
				Destination: &cmd.all,
			},
			&cli.IntFlag{
				Name:        "from",
				Usage:       "start of the selected span",
				Value:       -1,
				Destination: &cmd.from,
			},
			&cli.StringFlag{
				Name:        "with",
				Aliases:     []string{"w"},
				Usage:       "replacement text, kept verbatim",
				Destination: &cmd.with,
			},
			&cli.IntFlag{
				Name:        "length",
				Usage:       "length of the selected span",
				Destination: &cmd.length,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReplaceCmd) run(_ context.Context, c *cli.Command) error {
	var query, replacement string
	switch {
	case c.IsSet("with") && c.Args().Len() == 1:
		query, replacement = c.Args().First(), cmd.with
	case !c.IsSet("with") && c.Args().Len() == 2:
		query, replacement = c.Args().Get(0), c.Args().Get(1)
	default:
		return fmt.Errorf("expected QUERY and REPLACEMENT")
	}
	if query == "" {
		return fmt.Errorf("query is required")
	}

	s := cmd.flags.Session
	w := c.Root().Writer

	if cmd.all {
		n := s.ReplaceAll(query, replacement)
		_, _ = fmt.Fprintf(w, "Replaced %d occurrence(s)\n", n)
		return nil
	}

	if cmd.from < 0 {
		matches := s.FindAll(query)
		if len(matches) == 0 {
			_, _ = fmt.Fprintf(w, "%q not found\n", query)
			return nil
		}
		s.Buffer().SetSelection(matches[0])
	} else {
		s.Buffer().SetSelection(richtext.Selection{Start: cmd.from, Length: cmd.length})
	}

	res := s.ReplaceOne(query, replacement)
	switch {
	case res.Replaced:
		_, _ = fmt.Fprintf(w, "Replaced 1 occurrence, caret at %d\n", res.Selection.Start)
	case res.Found:
		_, _ = fmt.Fprintf(w, "Selection is not %q; next occurrence at %d (length %d)\n",
			query, res.Selection.Start, res.Selection.Length)
	default:
		_, _ = fmt.Fprintf(w, "%q not found\n", query)
	}
	return nil
}
