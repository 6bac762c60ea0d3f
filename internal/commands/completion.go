package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/colonyops/csword/internal/core/fileio"
	"github.com/urfave/cli/v3"
)

// DocumentFileCompleter returns a ShellCompleteFunc that suggests document
// files in the working directory as positional completions.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func DocumentFileCompleter() cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		// Delegate to default flag completion when typing a flag
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		entries, err := os.ReadDir(".")
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, e := range entries {
			if e.IsDir() || !fileio.AcceptsOpen(e.Name()) {
				continue
			}
			_, _ = fmt.Fprintln(w, e.Name())
		}
	}
}
