package importpath

import (
	"fmt"
	"path/filepath"
	"strings"
)

// GlobalName maps a resolved filesystem path to the display name used in
// the flattened bundle: the project-root-relative forward-slash path, with
// everything up to and including a recognized dependency directory segment
// stripped so vendored files keep their library-relative names.
func GlobalName(resolvedPath, projectRoot string, depsDirs []string) (string, error) {
	rel, err := filepath.Rel(projectRoot, resolvedPath)
	if err != nil {
		return "", fmt.Errorf("failed to relativize %q against %q: %w", resolvedPath, projectRoot, err)
	}
	rel = filepath.ToSlash(rel)
	segments := strings.Split(rel, "/")
	for i, segment := range segments {
		if !isDepsDir(segment, depsDirs) {
			continue
		}
		if remainder := strings.Join(segments[i+1:], "/"); remainder != "" {
			return remainder, nil
		}
	}
	return rel, nil
}

func isDepsDir(segment string, depsDirs []string) bool {
	for _, dir := range depsDirs {
		if segment == dir {
			return true
		}
	}
	return false
}
