package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/papapumpkin/pickgraph/internal/logger"
)

// DefaultCacheSize is the number of parsed catalogs kept by a Cache.
const DefaultCacheSize = 16

type cacheEntry struct {
	modTime time.Time
	size    int64
	catalog *Catalog
}

// Cache keeps recently parsed catalog files keyed by absolute path. An entry
// is reused only while the file's size and modification time are unchanged,
// so watch mode re-parses just the files that actually moved.
//
// Cached catalogs are shared; callers must treat them as read-only.
type Cache struct {
	entries *lru.Cache[string, cacheEntry]
	log     *logger.Logger
}

// NewCache creates a cache holding up to size catalogs.
func NewCache(size int, log *logger.Logger) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if log == nil {
		log = logger.Nop()
	}
	entries, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("creating catalog cache: %w", err)
	}
	return &Cache{entries: entries, log: log}, nil
}

// Load returns the catalog at path, parsing it only when it is not cached
// or has changed on disk since it was cached.
func (c *Cache) Load(path string) (*Catalog, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoCatalog, path)
		}
		return nil, fmt.Errorf("stat catalog: %w", err)
	}

	if e, ok := c.entries.Get(abs); ok && e.size == info.Size() && e.modTime.Equal(info.ModTime()) {
		c.log.Debug("catalog cache hit", "path", abs)
		return e.catalog, nil
	}

	cat, err := Load(abs, c.log)
	if err != nil {
		return nil, err
	}
	c.entries.Add(abs, cacheEntry{modTime: info.ModTime(), size: info.Size(), catalog: cat})
	c.log.Debug("catalog cached", "path", abs, "entities", cat.Len())
	return cat, nil
}

// Forget drops path from the cache.
func (c *Cache) Forget(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		c.entries.Remove(abs)
	}
}

// Len returns the number of cached catalogs.
func (c *Cache) Len() int {
	return c.entries.Len()
}
