package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/csword/internal/commands"
	"github.com/colonyops/csword/internal/core/config"
	"github.com/colonyops/csword/internal/core/fileio"
	"github.com/colonyops/csword/internal/core/logging"
	"github.com/colonyops/csword/internal/core/session"
	"github.com/colonyops/csword/internal/data/db"
	"github.com/colonyops/csword/internal/data/stores"
	"github.com/colonyops/csword/pkg/executil"
	"github.com/colonyops/csword/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		database  *db.DB
		watcher   *fileio.Watcher
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "csword",
		Usage:     "Edit rich-text documents from the terminal",
		UsageText: "csword [global options] command [command options]",
		Description: `csword edits one formatted document at a time.

Every change is autosaved locally, so each command continues where the last
one stopped. Documents are saved as standalone HTML pages and can be opened
from HTML, plain text or Markdown files.

Run 'csword show' to print the current document.
Run 'csword repl' to edit interactively.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("CSWORD_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/csword.log)",
				Sources:     cli.EnvVars("CSWORD_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("CSWORD_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("CSWORD_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Always log to a file; use explicit path or default to <datadir>/csword.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = cfg.LogFile()
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			// Open database connection, recovering once from a corrupt file
			database, err = stores.Open(cfg.DataDir, cfg.DatabaseOptions())
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			if cfg.Files.Watch {
				watcher, err = fileio.NewWatcher()
				if err != nil {
					log.Warn().Err(err).Msg("file watcher unavailable")
					watcher = nil
				}
			}

			flags.Picker = commands.NewPromptPicker()
			flags.Chooser = &commands.StdinChooser{Name: "stdin.html", In: os.Stdin}
			flags.Downloader = &commands.DirDownloader{Dir: cfg.DownloadDir()}

			var printer session.Printer
			if len(cfg.Print.Command) > 0 {
				printer = session.CommandPrinter{Exec: &executil.RealExecutor{}, Command: cfg.Print.Command}
			}

			flags.Session = session.New(ctx, session.Options{
				Store:          stores.NewKVStore(database),
				Autosave:       cfg.AutosaveOptions(),
				DefaultTitle:   cfg.Editor.DefaultTitle,
				HistoryLimit:   cfg.Editor.HistoryLimit,
				SanitizeOnOpen: cfg.Editor.SanitizeOnOpen,
				Picker:         flags.Picker,
				Chooser:        flags.Chooser,
				Downloader:     flags.Downloader,
				Printer:        printer,
				Watcher:        watcher,
			})

			ctx = logging.WithSessionID(ctx, flags.Session.ID())
			if name := c.Args().First(); name != "" {
				ctx = logging.WithCommand(ctx, name)
			}
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Write any pending autosave before the database goes away
			if flags.Session != nil {
				flags.Session.Close(ctx)
			}

			if watcher != nil {
				if err := watcher.Close(); err != nil {
					log.Warn().Err(err).Msg("failed to close file watcher")
				}
			}

			// Close database connection
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewShowCmd(flags).Register(app)
	app = commands.NewNewCmd(flags).Register(app)
	app = commands.NewOpenCmd(flags).Register(app)
	app = commands.NewSaveCmd(flags).Register(app)
	app = commands.NewExportCmd(flags).Register(app)
	app = commands.NewPrintCmd(flags).Register(app)
	app = commands.NewFindCmd(flags).Register(app)
	app = commands.NewReplaceCmd(flags).Register(app)
	app = commands.NewTitleCmd(flags).Register(app)
	app = commands.NewInsertCmd(flags).Register(app)
	app = commands.NewReplCmd(flags).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	// Show the document when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'csword --help' for usage", c.Args().First())
		}
		return commands.NewShowCmd(flags).Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
