// Package importpath canonicalizes import references into stable,
// project-relative identifiers.
package importpath

import (
	"path"
	"path/filepath"
	"strings"
)

// IsRelative reports whether raw is a relative import reference.
func IsRelative(raw string) bool {
	return strings.HasPrefix(raw, "./") || strings.HasPrefix(raw, "../") ||
		strings.HasPrefix(raw, ".\\") || strings.HasPrefix(raw, "..\\")
}

// Normalize canonicalizes a raw import reference against the file that
// contains it. Relative references are joined to the importing file's
// directory and cleaned; bare package-style references pass through
// unchanged for the resolver's own search rules. The result always uses
// forward slashes. Pure string work, no filesystem access.
func Normalize(raw, importingFile string) string {
	raw = filepath.ToSlash(raw)
	if !IsRelative(raw) {
		return raw
	}
	dir := path.Dir(filepath.ToSlash(importingFile))
	if dir == "." {
		dir = ""
	}
	// path.Join cleans "."/".." segments as a side effect.
	return path.Join(dir, raw)
}
