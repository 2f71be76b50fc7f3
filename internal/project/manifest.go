package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultDepsDirs are the dependency directories searched for bare imports
// when the manifest does not configure its own list.
var DefaultDepsDirs = []string{"node_modules", "lib"}

// Manifest is the parsed weld.toml.
type Manifest struct {
	// Root is the directory containing the manifest.
	Root string
	// Name is the project name from [package], may be empty.
	Name string
	// DepsDirs are the root-relative dependency directories searched for
	// bare imports, in declaration order.
	DepsDirs []string
}

type manifestFile struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Resolve struct {
		DepsDirs []string `toml:"deps_dirs"`
	} `toml:"resolve"`
}

// LoadManifest parses a weld.toml and applies defaults.
func LoadManifest(path string) (Manifest, error) {
	var cfg manifestFile
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	m := Manifest{
		Root:     filepath.Dir(path),
		Name:     cfg.Package.Name,
		DepsDirs: DefaultDepsDirs,
	}
	if meta.IsDefined("resolve", "deps_dirs") {
		m.DepsDirs = cfg.Resolve.DepsDirs
	}
	return m, nil
}

// LoadManifestAt loads the manifest sitting directly in root. A missing
// manifest is not an error: an explicit --root override may point at a bare
// directory, which then resolves with default settings.
func LoadManifestAt(root string) (Manifest, error) {
	path := filepath.Join(root, ManifestName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Manifest{Root: root, DepsDirs: DefaultDepsDirs}, nil
		}
		return Manifest{}, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	return LoadManifest(path)
}
