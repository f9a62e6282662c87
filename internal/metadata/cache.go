package metadata

import (
	"fmt"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dewi-tim/vgmlibrarian/internal/track"
)

type cacheEntry struct {
	size    int64
	modTime time.Time
	track   *track.Track
}

// Cache keeps recently read tracks keyed by path. An entry is reused only
// while the file's size and modification time are unchanged.
type Cache struct {
	lru *lru.Cache[string, cacheEntry]
}

// NewCache creates a cache holding up to size tracks.
func NewCache(size int) (*Cache, error) {
	c, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("create metadata cache: %w", err)
	}
	return &Cache{lru: c}, nil
}

func (c *Cache) get(path string, info os.FileInfo) (*track.Track, bool) {
	e, ok := c.lru.Get(path)
	if !ok {
		return nil, false
	}
	if e.size != info.Size() || !e.modTime.Equal(info.ModTime()) {
		c.lru.Remove(path)
		return nil, false
	}
	return e.track, true
}

func (c *Cache) add(path string, info os.FileInfo, t *track.Track) {
	c.lru.Add(path, cacheEntry{size: info.Size(), modTime: info.ModTime(), track: t})
}

// Invalidate drops the entry for path.
func (c *Cache) Invalidate(path string) {
	c.lru.Remove(path)
}

// Len returns the number of cached tracks.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Purge empties the cache.
func (c *Cache) Purge() {
	c.lru.Purge()
}
