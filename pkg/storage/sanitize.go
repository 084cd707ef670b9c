package storage

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename reduces a client-supplied filename to a safe flat name:
// directory components and traversal segments are stripped, and anything
// outside [A-Za-z0-9_.-] is replaced with an underscore. An input that
// sanitizes to nothing usable becomes "file".
func SanitizeFilename(name string) string {
	// Normalize both separator styles before taking the base name.
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = filepath.Base(name)

	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")

	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}
