package config

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// placeholder syntax and file accessibility. The configPath argument
// specifies the config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validatePrintCommand(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if len(c.Print.Command) == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Print",
			Message:  "no print command configured, printing is disabled",
		})
	}

	if c.Editor.HistoryLimit < 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Editor",
			Item:     "history_limit",
			Message:  "undo history is disabled",
		})
	}

	if !c.Editor.SanitizeOnOpen {
		warnings = append(warnings, ValidationWarning{
			Category: "Editor",
			Item:     "sanitize_on_open",
			Message:  "opened HTML files keep markup the editor cannot represent",
		})
	}

	return warnings
}

// validateFileAccess checks config file, data directory, and download directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("files.download_dir", c.Files.DownloadDir, isExistingDirectory),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

var placeholderPattern = regexp.MustCompile(`\{[^{}]*\}`)

// validatePrintCommand checks the print executable exists and that arguments
// only use known placeholders.
func (c *Config) validatePrintCommand() error {
	if len(c.Print.Command) == 0 {
		return nil
	}

	var errs criterio.FieldErrorsBuilder
	if err := executableExists(c.Print.Command[0]); err != nil {
		errs = errs.Append("print.command[0]", err)
	}

	for i, arg := range c.Print.Command[1:] {
		for _, p := range placeholderPattern.FindAllString(arg, -1) {
			if p != "{title}" {
				errs = errs.Append(fmt.Sprintf("print.command[%d]", i+1), fmt.Errorf("unknown placeholder %s", p))
			}
		}
	}
	return errs.ToError()
}

// executableExists validates that the path is executable.
func executableExists(path string) error {
	if path == "" {
		return fmt.Errorf("command cannot be empty")
	}
	if _, err := exec.LookPath(path); err != nil {
		return fmt.Errorf("executable not found: %s", path)
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// isExistingDirectory validates that a non-empty path is an existing directory.
func isExistingDirectory(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory")
	}
	return nil
}
