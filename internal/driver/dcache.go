package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/xyproto/env/v2"

	"letc/internal/ast"
	"letc/internal/project"
)

// Bump when the payload layout or the output of any pass changes.
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores pass output keyed by content hash and pass settings.
// Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached program.
type DiskPayload struct {
	Schema  uint16    `msgpack:"schema"`
	Path    string    `msgpack:"path"`
	Program *ast.Wire `msgpack:"program"`
}

// CacheDir picks the cache location: LETC_CACHE_DIR, then
// $XDG_CACHE_HOME/letc, then ~/.cache/letc.
func CacheDir() (string, error) {
	if dir := env.Str("LETC_CACHE_DIR"); dir != "" {
		return dir, nil
	}
	base := env.Str("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "letc"), nil
}

// CacheDisabled reports whether LETC_NO_CACHE is set to a true value.
func CacheDisabled() bool { return env.Bool("LETC_NO_CACHE") }

// OpenDiskCache creates dir if needed. An empty dir means CacheDir().
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		var err error
		if dir, err = CacheDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir is the cache root; empty for a nil cache.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Key does not depend on the receiver and works on a nil cache.
func (c *DiskCache) Key(content project.Digest, stage Stage, passes project.PassOptions) project.Digest {
	return project.Combine(content,
		strconv.Itoa(int(diskCacheSchemaVersion)),
		stage.String(),
		passes.Fingerprint(),
	)
}

func (c *DiskCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "programs", key.String()+".mp")
}

// Put writes prog under key, replacing any previous entry atomically.
func (c *DiskCache) Put(key project.Digest, path string, prog ast.Program) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	payload := &DiskPayload{Schema: diskCacheSchemaVersion, Path: path, Program: ast.EncodeProgram(prog)}
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		return errors.Join(err, f.Close(), os.Remove(tmp))
	}
	if err := f.Close(); err != nil {
		return errors.Join(err, os.Remove(tmp))
	}
	if err := os.Rename(tmp, p); err != nil {
		return errors.Join(err, os.Remove(tmp))
	}
	return nil
}

// Get returns the program stored under key. A missing entry is a miss, not
// an error; an entry from another schema is a miss too.
func (c *DiskCache) Get(key project.Digest) (ast.Program, bool, error) {
	if c == nil {
		return ast.Program{}, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ast.Program{}, false, nil
		}
		return ast.Program{}, false, err
	}
	var payload DiskPayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return ast.Program{}, false, fmt.Errorf("decode cache entry: %w", err)
	}
	if payload.Schema != diskCacheSchemaVersion {
		return ast.Program{}, false, nil
	}
	prog, err := ast.DecodeProgram(payload.Program)
	if err != nil {
		return ast.Program{}, false, fmt.Errorf("decode cache entry: %w", err)
	}
	return prog, true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "programs"))
}
