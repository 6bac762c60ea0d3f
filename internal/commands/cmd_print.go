package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

type PrintCmd struct {
	flags *Flags
}

// NewPrintCmd creates a new print command.
func NewPrintCmd(flags *Flags) *PrintCmd {
	return &PrintCmd{flags: flags}
}

// Register adds the print command to the application.
func (cmd *PrintCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "print",
		Usage:     "Print the document",
		UsageText: "csword print",
		Description: `Sends the document page to print.command on stdin.

The document keeps its unsaved state.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *PrintCmd) run(ctx context.Context, c *cli.Command) error {
	s := cmd.flags.Session
	if err := s.Print(ctx); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "Sent %q to the printer\n", s.Document().Title)
	return nil
}
