package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

type NewCmd struct {
	flags *Flags
	title string
}

// NewNewCmd creates a new new command
func NewNewCmd(flags *Flags) *NewCmd {
	return &NewCmd{flags: flags}
}

// Register adds the new command to the application
func (cmd *NewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "new",
		Usage:     "Start a new document",
		UsageText: "csword new [options]",
		Description: `Replaces the current document with the welcome document.

The autosaved copy of the previous document is overwritten. Save it first if
you want to keep it.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "document title (defaults to editor.default_title)",
				Destination: &cmd.title,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *NewCmd) run(_ context.Context, c *cli.Command) error {
	s := cmd.flags.Session
	s.Reset(cmd.title)

	_, _ = fmt.Fprintf(c.Root().Writer, "New document %q\n", s.Document().Title)
	return nil
}
