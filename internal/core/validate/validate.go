// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"

	"github.com/colonyops/csword/internal/core/fileio"
	"github.com/hay-kot/criterio"
)

// Title validates a document title is non-empty after trimming whitespace.
func Title(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// OpenPath validates a path names a file type the editor can open.
func OpenPath(path string) error {
	return documentPath(path, fileio.AcceptsOpen, fileio.OpenPatterns)
}

// SavePath validates a path names a file type the editor saves to.
func SavePath(path string) error {
	return documentPath(path, fileio.AcceptsSave, fileio.SavePatterns)
}

func documentPath(path string, accepts func(string) bool, patterns []string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("path is required")
	}
	if !accepts(path) {
		return fmt.Errorf("unsupported file type, expected %s", strings.Join(patterns, " "))
	}
	return nil
}

// PathField returns a criterio validator for a path checked with fn.
func PathField(field, path string, fn func(string) error) error {
	return criterio.Run(field, path, fn)
}
