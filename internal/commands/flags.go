package commands

import (
	"os"
	"path/filepath"

	"github.com/colonyops/csword/internal/core/config"
	"github.com/colonyops/csword/internal/core/session"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Session is the editing session every command operates on
	Session *session.Session

	// Picker and Downloader are the file access the session was built with.
	// Commands point them at paths given on the command line.
	Picker     *PromptPicker
	Chooser    *StdinChooser
	Downloader *DirDownloader
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "csword", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "csword")
}
