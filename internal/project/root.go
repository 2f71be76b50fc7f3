// Package project locates the project root marker and reads the weld.toml
// manifest that configures dependency resolution.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestName is the project root marker file.
const ManifestName = "weld.toml"

// RootNotFoundError reports that no weld.toml exists upward from a start
// directory.
type RootNotFoundError struct {
	StartDir string
}

func (e *RootNotFoundError) Error() string {
	return fmt.Sprintf("no %s found in %q or any parent directory", ManifestName, e.StartDir)
}

// InvalidRootError reports that an explicit root override is unusable.
type InvalidRootError struct {
	Path string
	Err  error
}

func (e *InvalidRootError) Error() string {
	return fmt.Sprintf("invalid project root %q: %v", e.Path, e.Err)
}

func (e *InvalidRootError) Unwrap() error { return e.Err }

// FindManifest walks up from startDir to locate weld.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindRoot returns the directory containing weld.toml, searching upward
// from startDir. It fails with RootNotFoundError when no marker exists.
func FindRoot(startDir string) (string, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &RootNotFoundError{StartDir: startDir}
	}
	return filepath.Dir(manifestPath), nil
}

// ValidateRoot checks an explicit root override and returns its absolute
// form, failing with InvalidRootError when the path does not exist or is
// not a directory.
func ValidateRoot(override string) (string, error) {
	abs, err := filepath.Abs(override)
	if err != nil {
		return "", &InvalidRootError{Path: override, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", &InvalidRootError{Path: override, Err: err}
	}
	if !info.IsDir() {
		return "", &InvalidRootError{Path: override, Err: errors.New("not a directory")}
	}
	return abs, nil
}
