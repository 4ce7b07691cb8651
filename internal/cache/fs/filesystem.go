package fs

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"go-report-cache/internal/cache"
	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/metrics"
	"go-report-cache/internal/models"
)

// Ensure FilesystemCache implements interfaces.Cache
var _ interfaces.Cache = (*FilesystemCache)(nil)

// FilesystemCache stores one JSON file per entry.
// Layout: <root>/<category>/<year>/<params>.json, so an administrator can
// find and delete entries by hand and a category+year purge is one directory.
type FilesystemCache struct {
	root      string
	logger    *zap.Logger
	writeLock sync.Mutex
}

// NewFilesystemCache creates a filesystem cache rooted at root
func NewFilesystemCache(root string, logger *zap.Logger) (*FilesystemCache, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FilesystemCache{root: root, logger: logger}, nil
}

// Root returns the cache directory
func (c *FilesystemCache) Root() string {
	return c.root
}

func (c *FilesystemCache) categoryDir(category string) string {
	return filepath.Join(c.root, cache.CategorySegment(category))
}

func (c *FilesystemCache) yearDir(category string, year int) string {
	return filepath.Join(c.categoryDir(category), cache.YearSegment(year))
}

// Path returns the file holding key
func (c *FilesystemCache) Path(key models.CacheKey) string {
	return filepath.Join(c.yearDir(key.Category, key.YearTag), cache.EntryName(key))
}

// Get reads an entry; a missing or unreadable file is a miss
func (c *FilesystemCache) Get(key models.CacheKey) (*models.CacheEntry, bool) {
	path := c.Path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.logger.Error("Failed to read cache file", zap.String("path", path), zap.Error(err))
			metrics.RecordCacheError("fs", "read")
		}
		return nil, false
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Warn("Removing corrupted cache file", zap.String("path", path), zap.Error(err))
		metrics.RecordCacheError("fs", "decode")
		_ = os.Remove(path)
		return nil, false
	}
	return &entry, true
}

// Set persists the entry atomically
func (c *FilesystemCache) Set(key models.CacheKey, entry *models.CacheEntry) {
	if err := c.write(key, entry); err != nil {
		c.logger.Error("Failed to write cache file", zap.String("key", key.Value), zap.Error(err))
		metrics.RecordCacheError("fs", "write")
	}
}

func (c *FilesystemCache) write(key models.CacheKey, entry *models.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.Path(key)

	c.writeLock.Lock()
	defer c.writeLock.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	// Write to temp file first, then rename (atomic)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// Delete removes the entry file
func (c *FilesystemCache) Delete(key models.CacheKey) {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()

	if err := os.Remove(c.Path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.logger.Warn("Failed to delete cache file", zap.String("key", key.Value), zap.Error(err))
		return
	}
	c.removeEmpty(c.yearDir(key.Category, key.YearTag))
	c.removeEmpty(c.categoryDir(key.Category))
}

// PurgeCategoryYear removes the year directory of a category
func (c *FilesystemCache) PurgeCategoryYear(category string, year int) (int, error) {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()

	dir := c.yearDir(category, year)
	count, err := countEntries(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	if err := os.RemoveAll(dir); err != nil {
		return 0, err
	}
	c.removeEmpty(c.categoryDir(category))

	c.logger.Info("Purged cache directory",
		zap.String("category", category),
		zap.Int("year", year),
		zap.Int("entries", count))
	return count, nil
}

// PurgeAll removes every category directory
func (c *FilesystemCache) PurgeAll() (int, error) {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()

	dirs, err := os.ReadDir(c.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	total := 0
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		dir := filepath.Join(c.root, d.Name())
		count, err := countEntries(dir)
		if err != nil {
			return total, err
		}
		if err := os.RemoveAll(dir); err != nil {
			return total, err
		}
		total += count
	}
	return total, nil
}

// Categories lists the category directories
func (c *FilesystemCache) Categories() ([]string, error) {
	dirs, err := os.ReadDir(c.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}

	categories := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		categories = append(categories, cache.ParseCategorySegment(d.Name()))
	}
	sort.Strings(categories)
	return categories, nil
}

// Stats walks the tree and sums file sizes per category
func (c *FilesystemCache) Stats() (models.CacheStats, error) {
	stats := models.NewCacheStats()

	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || filepath.Ext(path) != cache.EntryExt {
			return nil
		}
		rel, err := filepath.Rel(c.root, path)
		if err != nil {
			return err
		}
		parts := strings.Split(rel, string(filepath.Separator))
		if len(parts) != 3 {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil // removed while walking
		}
		stats.Add(cache.ParseCategorySegment(parts[0]), info.Size())
		return nil
	})
	if err != nil {
		return stats, err
	}

	metrics.UpdateCacheUsage("fs", stats.Entries, stats.TotalBytes)
	return stats, nil
}

// removeEmpty deletes dir when it holds nothing
func (c *FilesystemCache) removeEmpty(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}
	if err := os.Remove(dir); err != nil {
		c.logger.Debug("Failed to remove empty cache directory", zap.String("dir", dir), zap.Error(err))
	}
}

func countEntries(dir string) (int, error) {
	if _, err := os.Stat(dir); err != nil {
		return 0, err
	}
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == cache.EntryExt {
			count++
		}
		return nil
	})
	return count, err
}
