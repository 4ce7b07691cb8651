package l1

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/allegro/bigcache/v3"
	"go.uber.org/zap"

	"go-report-cache/internal/config"
	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/metrics"
	"go-report-cache/internal/models"
	"go-report-cache/internal/scheduler"
)

// Ensure BigCache implements interfaces.Cache
var _ interfaces.Cache = (*BigCache)(nil)

// BigCache implements L1 cache using BigCache
type BigCache struct {
	cache            *bigcache.BigCache
	logger           *zap.Logger
	metricsScheduler *scheduler.Scheduler
}

// NewBigCache creates a new BigCache instance
func NewBigCache(bigcacheCfg *config.BigCacheConfig, logger *zap.Logger) (*BigCache, error) {
	lifeWindow := bigcacheCfg.LifeWindow
	if lifeWindow <= 0 {
		lifeWindow = 24 * time.Hour
	}

	config := bigcache.DefaultConfig(lifeWindow)
	config.HardMaxCacheSize = bigcacheCfg.Size // Size in MB
	config.Verbose = false
	config.MaxEntrySize = 1024 * 1024 // 1MB max entry size

	cache, err := bigcache.New(context.Background(), config)
	if err != nil {
		return nil, err
	}

	bc := &BigCache{
		cache:  cache,
		logger: logger,
	}

	// Start periodic metrics collection
	bc.startMetricsCollection()

	return bc, nil
}

// Get retrieves an entry from cache
func (bc *BigCache) Get(key models.CacheKey) (*models.CacheEntry, bool) {
	data, err := bc.cache.Get(key.Value)
	if err != nil {
		return nil, false
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		bc.logger.Warn("Failed to unmarshal L1 cache entry", zap.String("key", key.Value), zap.Error(err))
		metrics.RecordCacheError("l1", "decode")
		_ = bc.cache.Delete(key.Value) // Remove corrupted entry
		return nil, false
	}

	return &entry, true
}

// Set stores an entry, replacing any previous value
func (bc *BigCache) Set(key models.CacheKey, entry *models.CacheEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		bc.logger.Error("Failed to marshal cache entry", zap.String("key", key.Value), zap.Error(err))
		metrics.RecordCacheError("l1", "encode")
		return
	}

	if err := bc.cache.Set(key.Value, data); err != nil {
		bc.logger.Error("Failed to set cache entry", zap.String("key", key.Value), zap.Error(err))
		metrics.RecordCacheError("l1", "write")
	}
}

// Delete removes entry from cache
func (bc *BigCache) Delete(key models.CacheKey) {
	_ = bc.cache.Delete(key.Value)
}

// PurgeCategoryYear removes every entry of category tagged with year
func (bc *BigCache) PurgeCategoryYear(category string, year int) (int, error) {
	var keys []string
	bc.each(func(k string, entry *models.CacheEntry, _ int) {
		if entry.Category == category && entry.YearTag == year {
			keys = append(keys, k)
		}
	})

	removed := 0
	for _, k := range keys {
		if err := bc.cache.Delete(k); err == nil {
			removed++
		}
	}
	return removed, nil
}

// PurgeAll removes every entry
func (bc *BigCache) PurgeAll() (int, error) {
	count := bc.cache.Len()
	if err := bc.cache.Reset(); err != nil {
		return 0, err
	}
	return count, nil
}

// Categories lists the categories that hold at least one entry
func (bc *BigCache) Categories() ([]string, error) {
	seen := make(map[string]struct{})
	bc.each(func(_ string, entry *models.CacheEntry, _ int) {
		seen[entry.Category] = struct{}{}
	})

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, nil
}

// Stats returns entry counts and sizes per category
func (bc *BigCache) Stats() (models.CacheStats, error) {
	stats := models.NewCacheStats()
	bc.each(func(_ string, entry *models.CacheEntry, size int) {
		stats.Add(entry.Category, int64(size))
	})
	return stats, nil
}

// each walks every decodable entry
func (bc *BigCache) each(fn func(key string, entry *models.CacheEntry, size int)) {
	it := bc.cache.Iterator()
	for it.SetNext() {
		info, err := it.Value()
		if err != nil {
			continue
		}
		var entry models.CacheEntry
		if err := json.Unmarshal(info.Value(), &entry); err != nil {
			continue
		}
		fn(info.Key(), &entry, len(info.Value()))
	}
}

// Close closes the cache
func (bc *BigCache) Close() error {
	// Stop metrics collection
	bc.stopMetricsCollection()

	return bc.cache.Close()
}

// GetStats returns the number of entries and the allocated capacity in bytes
func (bc *BigCache) GetStats() (entries, capacity int64) {
	return int64(bc.cache.Len()), int64(bc.cache.Capacity())
}

// startMetricsCollection starts periodic metrics collection
func (bc *BigCache) startMetricsCollection() {
	bc.metricsScheduler = scheduler.New(30*time.Second, bc.updateMetrics)
	bc.metricsScheduler.Start()

	// Initial collection
	bc.updateMetrics()

	bc.logger.Debug("Started L1 cache metrics collection")
}

// stopMetricsCollection stops periodic metrics collection
func (bc *BigCache) stopMetricsCollection() {
	if bc.metricsScheduler != nil {
		bc.metricsScheduler.Stop()
		bc.logger.Debug("Stopped L1 cache metrics collection")
	}
}

// updateMetrics updates cache metrics
func (bc *BigCache) updateMetrics() {
	entries, capacity := bc.GetStats()
	metrics.UpdateCacheUsage("l1", entries, capacity)
}
