package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

type ExportCmd struct {
	flags *Flags
	dir   string
}

// NewExportCmd creates a new export command.
func NewExportCmd(flags *Flags) *ExportCmd {
	return &ExportCmd{flags: flags}
}

// Register adds the export command to the application.
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Export the document as a portable HTML page",
		UsageText: "csword export [options]",
		Description: `Writes a standalone copy of the document without saving it.

The document keeps its unsaved state. An existing file is never overwritten;
a numbered name is used instead.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "directory to write to (defaults to files.download_dir)",
				Destination: &cmd.dir,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.dir != "" {
		prev := cmd.flags.Downloader.Dir
		cmd.flags.Downloader.Dir = cmd.dir
		defer func() { cmd.flags.Downloader.Dir = prev }()
	}

	path, err := cmd.flags.Session.ExportPortable(ctx)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "Exported to %s\n", path)
	return nil
}
