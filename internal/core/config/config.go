// Package config handles configuration loading and validation for csword.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/colonyops/csword/internal/core/autosave"
	"github.com/colonyops/csword/internal/core/document"
	"github.com/colonyops/csword/internal/data/db"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Autosave AutosaveConfig `yaml:"autosave"`
	Editor   EditorConfig   `yaml:"editor"`
	Files    FilesConfig    `yaml:"files"`
	Print    PrintConfig    `yaml:"print"`
	Database DatabaseConfig `yaml:"database"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// AutosaveConfig controls the local autosave record.
type AutosaveConfig struct {
	Key      string        `yaml:"key"`
	Debounce time.Duration `yaml:"debounce"` // 0 writes on every change
}

// EditorConfig holds editing defaults.
type EditorConfig struct {
	DefaultTitle   string `yaml:"default_title"`
	HistoryLimit   int    `yaml:"history_limit"` // negative disables undo
	SanitizeOnOpen bool   `yaml:"sanitize_on_open"`
}

// FilesConfig holds file interchange settings.
type FilesConfig struct {
	DownloadDir string `yaml:"download_dir"` // empty uses the working directory
	Watch       bool   `yaml:"watch"`        // watch bound files for removal
}

// PrintConfig holds the print command. The document page is written to its
// stdin; "{title}" in arguments is replaced with the document title.
type PrintConfig struct {
	Command []string `yaml:"command"`
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	dbDefaults := db.DefaultOpenOptions()
	return Config{
		Autosave: AutosaveConfig{
			Key: autosave.DefaultKey,
		},
		Editor: EditorConfig{
			DefaultTitle:   document.DefaultTitle,
			HistoryLimit:   200,
			SanitizeOnOpen: true,
		},
		Files: FilesConfig{
			Watch: true,
		},
		Print: PrintConfig{
			Command: []string{"lp", "-t", "{title}"},
		},
		Database: DatabaseConfig{
			MaxOpenConns: dbDefaults.MaxOpenConns,
			MaxIdleConns: dbDefaults.MaxIdleConns,
			BusyTimeout:  dbDefaults.BusyTimeout,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Autosave.Key == "" {
		c.Autosave.Key = defaults.Autosave.Key
	}
	if c.Editor.DefaultTitle == "" {
		c.Editor.DefaultTitle = defaults.Editor.DefaultTitle
	}
	if c.Editor.HistoryLimit == 0 {
		c.Editor.HistoryLimit = defaults.Editor.HistoryLimit
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Autosave.Debounce < 0 {
		return fmt.Errorf("autosave.debounce cannot be negative")
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}

	if c.Database.MaxIdleConns < 0 || c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns must be between 0 and max_open_conns")
	}

	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout cannot be negative")
	}

	return nil
}

// DatabaseOptions returns the connection settings for db.Open.
func (c *Config) DatabaseOptions() db.OpenOptions {
	return db.OpenOptions{
		MaxOpenConns: c.Database.MaxOpenConns,
		MaxIdleConns: c.Database.MaxIdleConns,
		BusyTimeout:  c.Database.BusyTimeout,
	}
}

// AutosaveOptions returns the options for the autosave controller.
func (c *Config) AutosaveOptions() autosave.Options {
	return autosave.Options{
		Key:      c.Autosave.Key,
		Debounce: c.Autosave.Debounce,
	}
}

// DownloadDir returns the directory downloads are written to.
func (c *Config) DownloadDir() string {
	if c.Files.DownloadDir == "" {
		return "."
	}
	return c.Files.DownloadDir
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "csword.log")
}
