package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/colonyops/csword/internal/core/editor"
	"github.com/urfave/cli/v3"
)

type InsertCmd struct {
	flags *Flags
	at    int
	text  string
}

// NewInsertCmd creates a new insert command.
func NewInsertCmd(flags *Flags) *InsertCmd {
	return &InsertCmd{flags: flags}
}

// Register adds the insert and image commands to the application.
func (cmd *InsertCmd) Register(app *cli.Command) *cli.Command {
	atFlag := &cli.IntFlag{
		Name:        "at",
		Usage:       "character offset (default: end of document)",
		Value:       -1,
		Destination: &cmd.at,
	}

	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "insert",
			Usage:     "Insert text into the document",
			UsageText: "csword insert [options] TEXT",
			Description: `Inserts TEXT at --at. The text takes the formatting of the character
before it.

Positional arguments lose leading and trailing spaces. Pass --text to insert
text exactly as given.`,
			Flags: []cli.Flag{
				atFlag,
				&cli.StringFlag{
					Name:        "text",
					Aliases:     []string{"t"},
					Usage:       "text to insert, kept verbatim",
					Destination: &cmd.text,
				},
			},
			Action: cmd.runText,
		},
		&cli.Command{
			Name:      "image",
			Usage:     "Insert an image file into the document",
			UsageText: "csword image [options] PATH",
			Description: `Embeds the image at PATH in the document as a data URL, so the document
stays self-contained.`,
			Flags:  []cli.Flag{atFlag},
			Action: cmd.runImage,
		},
	)

	return app
}

func (cmd *InsertCmd) position() int {
	if cmd.at < 0 {
		return cmd.flags.Session.Buffer().Projection().Len
	}
	return cmd.at
}

func (cmd *InsertCmd) runText(_ context.Context, c *cli.Command) error {
	text := c.Args().First()
	if c.IsSet("text") {
		text = cmd.text
	}
	if text == "" {
		return fmt.Errorf("text is required")
	}

	s := cmd.flags.Session
	if err := s.Buffer().InsertText(cmd.position(), text, editor.SourceUser); err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	printStatus(c.Root().Writer, s)
	return nil
}

func (cmd *InsertCmd) runImage(_ context.Context, c *cli.Command) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	s := cmd.flags.Session
	if err := s.InsertImage(cmd.position(), path, data); err != nil {
		return fmt.Errorf("insert image: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "Inserted %s (%d bytes)\n", path, len(data))
	return nil
}
