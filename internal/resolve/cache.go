package resolve

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Bump when the payload format changes so stale entries self-invalidate.
const importCacheSchemaVersion uint16 = 1

// Digest identifies file contents by SHA-256.
type Digest [sha256.Size]byte

// HashContents returns the cache key for file contents.
func HashContents(contents string) Digest {
	return sha256.Sum256([]byte(contents))
}

// ImportCache persists extracted import lists keyed by content hash, so
// unchanged files are never re-scanned across runs. Thread-safe; a nil
// cache is a no-op.
type ImportCache struct {
	mu  sync.RWMutex
	dir string
}

type importPayload struct {
	Schema  uint16
	Imports []string
}

// OpenImportCache initializes the cache at the standard XDG location.
func OpenImportCache(app string) (*ImportCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app, "imports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ImportCache{dir: dir}, nil
}

func (c *ImportCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".mp")
}

// Get returns the cached import list for key, if present.
func (c *ImportCache) Get(key Digest) ([]string, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload importPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != importCacheSchemaVersion {
		return nil, false, nil
	}
	return payload.Imports, true, nil
}

// Put stores an import list under key, using a temp file and an atomic
// rename so concurrent runs never observe a torn entry.
func (c *ImportCache) Put(key Digest, imports []string) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	payload := importPayload{Schema: importCacheSchemaVersion, Imports: imports}
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// DropAll removes every cache entry.
func (c *ImportCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.RemoveAll(c.dir); err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to recreate cache dir: %w", err)
	}
	return nil
}
