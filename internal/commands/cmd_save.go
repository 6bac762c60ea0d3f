package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/csword/internal/core/session"
	"github.com/urfave/cli/v3"
)

type SaveCmd struct {
	flags *Flags
	as    bool
}

// NewSaveCmd creates a new save command.
func NewSaveCmd(flags *Flags) *SaveCmd {
	return &SaveCmd{flags: flags}
}

// Register adds the save command to the application.
func (cmd *SaveCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "save",
		Usage:     "Save the current document",
		UsageText: "csword save [options] [PATH]",
		Description: `Writes the document as a standalone HTML page.

With PATH, or with --as, the document is saved to a new file. Without a
target and without a terminal to prompt on, the page is written to
files.download_dir under the document title.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "as",
				Usage:       "always ask for a new target",
				Destination: &cmd.as,
			},
		},
		ShellComplete: DocumentFileCompleter(),
		Action:        cmd.run,
	})

	return app
}

func (cmd *SaveCmd) run(ctx context.Context, c *cli.Command) error {
	s := cmd.flags.Session
	path := c.Args().First()
	cmd.flags.Picker.SetPath(path)
	defer cmd.flags.Picker.SetPath("")

	var err error
	if cmd.as || path != "" {
		err = s.SaveAs(ctx)
	} else {
		err = s.Save(ctx)
	}
	if err != nil {
		return err
	}

	w := c.Root().Writer
	report := s.LastSave()
	switch report.Outcome {
	case session.SaveCancelled:
		_, _ = fmt.Fprintln(w, "Save cancelled")
	case session.SaveWritten:
		_, _ = fmt.Fprintf(w, "Saved %q to %s\n", s.Document().Title, report.Target)
	case session.SaveDownloaded:
		_, _ = fmt.Fprintf(w, "Downloaded %q to %s\n", s.Document().Title, report.Target)
	}
	return nil
}
