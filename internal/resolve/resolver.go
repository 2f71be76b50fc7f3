// Package resolve turns import identifiers into concrete files, searching
// the project root first and the configured dependency directories after.
package resolve

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotFound marks an identifier that could not be located anywhere.
var ErrNotFound = errors.New("import target not found")

// File is a resolved source file.
type File struct {
	// Contents is the full file text.
	Contents string
	// Path is the absolute filesystem path.
	Path string
	// Rel is the project-root-relative forward-slash path. Relative imports
	// inside this file normalize against Rel, so files pulled from a
	// dependency directory resolve their own neighbors correctly.
	Rel string
}

// Resolver resolves identifiers against a fixed project root. The base
// directory is explicit state; nothing here ever changes the process
// working directory. Thread-safe: the emit phase re-reads files from
// worker goroutines.
type Resolver struct {
	root     string
	depsDirs []string

	mu   sync.RWMutex
	memo map[string]File
}

// New returns a resolver rooted at root. depsDirs are root-relative
// directories searched for bare imports, in order.
func New(root string, depsDirs []string) *Resolver {
	return &Resolver{
		root:     root,
		depsDirs: depsDirs,
		memo:     make(map[string]File),
	}
}

// Root returns the project root the resolver is bound to.
func (r *Resolver) Root() string { return r.root }

// Resolve locates an identifier and returns its contents and paths.
// Identifiers are tried as root-relative paths first, then through each
// dependency directory. Results are memoized, so the emit phase re-reads
// are free.
func (r *Resolver) Resolve(identifier string) (File, error) {
	r.mu.RLock()
	f, ok := r.memo[identifier]
	r.mu.RUnlock()
	if ok {
		return f, nil
	}

	candidates := make([]string, 0, 1+len(r.depsDirs))
	candidates = append(candidates, identifier)
	for _, dir := range r.depsDirs {
		candidates = append(candidates, dir+"/"+identifier)
	}

	for _, rel := range candidates {
		abs := filepath.Join(r.root, filepath.FromSlash(rel))
		if !pathWithin(r.root, abs) {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return File{}, fmt.Errorf("failed to stat %q: %w", abs, err)
		}
		if info.IsDir() {
			continue
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			return File{}, fmt.Errorf("failed to read %q: %w", abs, err)
		}
		relBack, err := filepath.Rel(r.root, abs)
		if err != nil {
			return File{}, fmt.Errorf("failed to relativize %q: %w", abs, err)
		}
		f := File{
			Contents: string(data),
			Path:     abs,
			Rel:      filepath.ToSlash(relBack),
		}
		r.mu.Lock()
		r.memo[identifier] = f
		r.mu.Unlock()
		return f, nil
	}

	return File{}, fmt.Errorf("%q: %w (searched project root and %v)", identifier, ErrNotFound, r.depsDirs)
}

func pathWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
