package resolve

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestResolveRootRelative(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "contracts", "main.sol"), "contract Main {}")

	r := New(root, []string{"node_modules"})
	f, err := r.Resolve("contracts/main.sol")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if f.Rel != "contracts/main.sol" {
		t.Fatalf("rel = %q", f.Rel)
	}
	if f.Contents != "contract Main {}" {
		t.Fatalf("contents = %q", f.Contents)
	}
}

func TestResolveSearchesDepsDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "node_modules", "ozlib", "token.sol"), "contract Token {}")

	r := New(root, []string{"node_modules"})
	f, err := r.Resolve("ozlib/token.sol")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if f.Rel != "node_modules/ozlib/token.sol" {
		t.Fatalf("rel = %q", f.Rel)
	}
}

func TestResolveDepsDirOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "node_modules", "dual.sol"), "first")
	writeFile(t, filepath.Join(root, "lib", "dual.sol"), "second")

	r := New(root, []string{"node_modules", "lib"})
	f, err := r.Resolve("dual.sol")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if f.Contents != "first" {
		t.Fatalf("search order violated, got %q", f.Contents)
	}
}

func TestResolveNotFound(t *testing.T) {
	r := New(t.TempDir(), []string{"node_modules"})
	_, err := r.Resolve("ghost.sol")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestResolveRefusesEscape(t *testing.T) {
	parent := t.TempDir()
	writeFile(t, filepath.Join(parent, "secret.sol"), "secret")
	root := filepath.Join(parent, "proj")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	r := New(root, nil)
	if _, err := r.Resolve("../secret.sol"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for escaping identifier", err)
	}
}

func TestImportCacheRoundTrip(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c, err := OpenImportCache("weld-test")
	if err != nil {
		t.Fatalf("OpenImportCache: %v", err)
	}
	key := HashContents("import \"./a.sol\";")

	if _, ok, err := c.Get(key); err != nil || ok {
		t.Fatalf("Get on empty cache: ok=%v err=%v", ok, err)
	}
	if err := c.Put(key, []string{"./a.sol"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	imports, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if len(imports) != 1 || imports[0] != "./a.sol" {
		t.Fatalf("imports = %v", imports)
	}

	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, ok, _ := c.Get(key); ok {
		t.Fatalf("entry survived DropAll")
	}
}

func TestImportCacheNilIsNoop(t *testing.T) {
	var c *ImportCache
	key := HashContents("x")
	if err := c.Put(key, nil); err != nil {
		t.Fatalf("nil Put: %v", err)
	}
	if _, ok, err := c.Get(key); ok || err != nil {
		t.Fatalf("nil Get: ok=%v err=%v", ok, err)
	}
}
