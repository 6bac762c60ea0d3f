package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

type TitleCmd struct {
	flags *Flags
	name  string
}

// NewTitleCmd creates a new title command.
func NewTitleCmd(flags *Flags) *TitleCmd {
	return &TitleCmd{flags: flags}
}

// Register adds the title command to the application.
func (cmd *TitleCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "title",
		Usage:     "Show or change the document title",
		UsageText: "csword title [--name NAME | NAME]",
		Description: `Without arguments prints the title. Otherwise renames the document.
Positional names lose surrounding spaces; --name is used as given.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Aliases:     []string{"n"},
				Usage:       "new title",
				Destination: &cmd.name,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *TitleCmd) run(_ context.Context, c *cli.Command) error {
	s := cmd.flags.Session
	w := c.Root().Writer

	var title string
	switch {
	case c.IsSet("name"):
		title = cmd.name
	case c.Args().Present():
		title = c.Args().First()
	default:
		_, _ = fmt.Fprintln(w, s.Document().Title)
		return nil
	}

	if err := s.SetTitle(title); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Title set to %q\n", s.Document().Title)
	return nil
}
