package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

type OpenCmd struct {
	flags *Flags
	name  string
}

// NewOpenCmd creates a new open command.
func NewOpenCmd(flags *Flags) *OpenCmd {
	return &OpenCmd{flags: flags}
}

// Register adds the open command to the application.
func (cmd *OpenCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "open",
		Usage:     "Open a document file",
		UsageText: "csword open [options] [PATH]",
		Description: `Loads a .csw, .html, .htm, .txt, .md or .markdown file.

Without PATH you are prompted for one when a terminal is attached. Otherwise
the document is read from stdin and named after --name.

The opened file name becomes the document title. Unsaved changes to the
previous document are discarded.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Usage:       "file name for a document read from stdin",
				Value:       "stdin.html",
				Destination: &cmd.name,
			},
		},
		ShellComplete: DocumentFileCompleter(),
		Action:        cmd.run,
	})

	return app
}

func (cmd *OpenCmd) run(ctx context.Context, c *cli.Command) error {
	s := cmd.flags.Session
	cmd.flags.Picker.SetPath(c.Args().First())
	cmd.flags.Chooser.Name = cmd.name

	before := s.Buffer().Version()
	if err := s.Open(ctx); err != nil {
		return fmt.Errorf("open: %w", err)
	}

	w := c.Root().Writer
	if s.Buffer().Version() == before {
		_, _ = fmt.Fprintln(w, "Nothing opened")
		return nil
	}

	_, _ = fmt.Fprintf(w, "Opened %q\n", s.Document().Title)
	printStatus(w, s)
	return nil
}
