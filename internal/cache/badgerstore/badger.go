package badgerstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"go-report-cache/internal/cache"
	"go-report-cache/internal/config"
	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/metrics"
	"go-report-cache/internal/models"
)

const entryPrefix = "e/"

// Ensure BadgerCache implements interfaces.Cache
var _ interfaces.Cache = (*BadgerCache)(nil)

// BadgerCache stores entries in an embedded badger database under
// "e/<category>/<year>/<key>", so scoped purges are prefix deletes.
type BadgerCache struct {
	db     *badger.DB
	logger *zap.Logger
}

// badgerLogger routes badger's logging through zap
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}

// NewBadgerCache opens (or creates) the database described by cfg
func NewBadgerCache(cfg *config.BadgerConfig, logger *zap.Logger) (*BadgerCache, error) {
	opts := badger.DefaultOptions(cfg.Dir)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(badgerLogger{logger.Named("badger").Sugar()}).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	logger.Info("Opened badger cache", zap.String("dir", cfg.Dir), zap.Bool("in_memory", cfg.InMemory))
	return &BadgerCache{db: db, logger: logger}, nil
}

func categoryPrefix(category string) []byte {
	return []byte(entryPrefix + cache.CategorySegment(category) + "/")
}

func yearPrefix(category string, year int) []byte {
	return append(categoryPrefix(category), []byte(cache.YearSegment(year)+"/")...)
}

func entryKey(key models.CacheKey) []byte {
	return append(yearPrefix(key.Category, key.YearTag), []byte(key.Value)...)
}

// Get reads an entry; a missing key or read failure is a miss
func (c *BadgerCache) Get(key models.CacheKey) (*models.CacheEntry, bool) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entryKey(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			c.logger.Error("Failed to read badger entry", zap.String("key", key.Value), zap.Error(err))
			metrics.RecordCacheError("badger", "read")
		}
		return nil, false
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Warn("Removing corrupted badger entry", zap.String("key", key.Value), zap.Error(err))
		metrics.RecordCacheError("badger", "decode")
		c.Delete(key)
		return nil, false
	}
	return &entry, true
}

// Set stores the entry, replacing any previous value
func (c *BadgerCache) Set(key models.CacheKey, entry *models.CacheEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.Error("Failed to marshal cache entry", zap.String("key", key.Value), zap.Error(err))
		metrics.RecordCacheError("badger", "encode")
		return
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entryKey(key), data)
	})
	if err != nil {
		c.logger.Error("Failed to write badger entry", zap.String("key", key.Value), zap.Error(err))
		metrics.RecordCacheError("badger", "write")
	}
}

// Delete removes the entry
func (c *BadgerCache) Delete(key models.CacheKey) {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(entryKey(key))
	})
	if err != nil {
		c.logger.Warn("Failed to delete badger entry", zap.String("key", key.Value), zap.Error(err))
	}
}

// PurgeCategoryYear deletes every key under the category/year prefix
func (c *BadgerCache) PurgeCategoryYear(category string, year int) (int, error) {
	return c.purgePrefix(yearPrefix(category, year))
}

// PurgeAll deletes every entry
func (c *BadgerCache) PurgeAll() (int, error) {
	return c.purgePrefix([]byte(entryPrefix))
}

func (c *BadgerCache) purgePrefix(prefix []byte) (int, error) {
	var keys [][]byte
	err := c.scan(prefix, false, func(k []byte, _ int64) {
		keys = append(keys, k)
	})
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	wb := c.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return 0, err
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, err
	}

	c.collectGarbage()
	return len(keys), nil
}

// collectGarbage reclaims value log space left by deleted entries
func (c *BadgerCache) collectGarbage() {
	for {
		if err := c.db.RunValueLogGC(0.5); err != nil {
			if !errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrGCInMemoryMode) {
				c.logger.Debug("Badger value log GC stopped", zap.Error(err))
			}
			return
		}
	}
}

// scan walks the keys under prefix
func (c *BadgerCache) scan(prefix []byte, withValues bool, fn func(key []byte, size int64)) error {
	return c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = withValues
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			fn(item.KeyCopy(nil), item.ValueSize())
		}
		return nil
	})
}

// categoryOf extracts the category segment of a stored key
func categoryOf(k []byte) string {
	rest := bytes.TrimPrefix(k, []byte(entryPrefix))
	segment, _, _ := strings.Cut(string(rest), "/")
	return cache.ParseCategorySegment(segment)
}

// Categories lists the categories holding entries
func (c *BadgerCache) Categories() ([]string, error) {
	seen := make(map[string]struct{})
	err := c.scan([]byte(entryPrefix), false, func(k []byte, _ int64) {
		seen[categoryOf(k)] = struct{}{}
	})
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories, nil
}

// Stats sums value sizes per category
func (c *BadgerCache) Stats() (models.CacheStats, error) {
	stats := models.NewCacheStats()
	err := c.scan([]byte(entryPrefix), false, func(k []byte, size int64) {
		stats.Add(categoryOf(k), size)
	})
	if err != nil {
		return stats, err
	}

	metrics.UpdateCacheUsage("badger", stats.Entries, stats.TotalBytes)
	return stats, nil
}

// Close closes the database
func (c *BadgerCache) Close() error {
	return c.db.Close()
}
