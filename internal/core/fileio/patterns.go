package fileio

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// File types offered by the open and save dialogs.
var (
	OpenPatterns = []string{"*.{csw,html,htm,txt,md,markdown}"}
	SavePatterns = []string{"*.{csw,html}"}
)

// AcceptsOpen reports whether name is a file type the editor opens.
func AcceptsOpen(name string) bool { return matchAny(OpenPatterns, name) }

// AcceptsSave reports whether name is a file type the editor writes.
func AcceptsSave(name string) bool { return matchAny(SavePatterns, name) }

func matchAny(patterns []string, name string) bool {
	base := strings.ToLower(filepath.Base(name))
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, base); err == nil && ok {
			return true
		}
	}
	return false
}
