package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/alvesvaren/trident/internal/layout"
)

// Bump when the cached payload layout changes; mismatched entries are
// treated as misses.
const cacheSchemaVersion uint16 = 1

// Digest identifies a source text by content hash.
type Digest [sha256.Size]byte

// HashSource computes the cache key for a source string compiled with the
// default layout settings.
func HashSource(text string) Digest {
	return HashInput(text, layout.DefaultConfig(), layout.Hierarchical)
}

// HashInput computes the cache key for a source string plus the layout
// settings it will be compiled with. Different settings yield different
// geometry, so they must not share an entry.
func HashInput(text string, cfg layout.Config, algo layout.Algo) Digest {
	h := sha256.New()
	h.Write([]byte(text))
	fmt.Fprintf(h, "\x00%s\x00%+v", algo, cfg)
	var key Digest
	copy(key[:], h.Sum(nil))
	return key
}

// DiskCache stores compiled diagrams keyed by source digest. Safe for
// concurrent use; a nil cache is a valid no-op.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type cachePayload struct {
	Schema  uint16
	Diagram *Diagram
}

// OpenDiskCache initializes the cache at the standard user cache location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache initializes the cache at an explicit directory.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "diagrams", hex.EncodeToString(key[:])+".mp")
}

// Put serializes a diagram into the cache, replacing atomically.
func (c *DiskCache) Put(key Digest, d *Diagram) error {
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
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(&cachePayload{
		Schema:  cacheSchemaVersion,
		Diagram: d,
	}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get loads a cached diagram. Missing or stale-schema entries report a miss.
func (c *DiskCache) Get(key Digest) (*Diagram, bool, error) {
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

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != cacheSchemaVersion || payload.Diagram == nil {
		return nil, false, nil
	}
	return payload.Diagram, true, nil
}

// DropAll invalidates the whole cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// CompileCached compiles through the cache with default layout settings:
// hit returns the stored diagram, miss compiles and stores. Cache write
// failures are ignored; the compile result is still returned.
func CompileCached(cache *DiskCache, text string) *Diagram {
	return CompileCachedWith(cache, text, layout.DefaultConfig(), layout.Hierarchical)
}

// CompileCachedWith is CompileCached with explicit layout settings.
func CompileCachedWith(cache *DiskCache, text string, cfg layout.Config, algo layout.Algo) *Diagram {
	key := HashInput(text, cfg, algo)
	if d, ok, err := cache.Get(key); err == nil && ok {
		return d
	}
	d := CompileWithAlgo(text, cfg, algo)
	_ = cache.Put(key, d)
	return d
}
