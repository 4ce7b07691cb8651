package multi

import (
	"sort"

	"go.uber.org/zap"

	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/models"
)

// Ensure MultiCache implements interfaces.LevelAwareCache
var _ interfaces.LevelAwareCache = (*MultiCache)(nil)

// MultiCache implements a composite cache that tries multiple cache implementations
// It attempts to get/set values through an array of cache interfaces in order
type MultiCache struct {
	caches            []interfaces.Cache
	logger            *zap.Logger
	enablePropagation bool
}

// NewMultiCache creates a new MultiCache instance with provided cache implementations.
// With propagation enabled, a hit in a lower level is copied into the levels above it.
func NewMultiCache(caches []interfaces.Cache, logger *zap.Logger, enablePropagation bool) *MultiCache {
	return &MultiCache{
		caches:            caches,
		logger:            logger,
		enablePropagation: enablePropagation,
	}
}

// Get retrieves an entry from the first cache that has the key
func (mc *MultiCache) Get(key models.CacheKey) (*models.CacheEntry, bool) {
	result := mc.GetWithLevel(key)
	return result.Entry, result.Found
}

// GetWithLevel retrieves an entry and reports which level served it
func (mc *MultiCache) GetWithLevel(key models.CacheKey) models.CacheResult {
	if len(mc.caches) == 0 {
		mc.logger.Warn("No caches available for get operation", zap.String("key", key.Value))
		return models.CacheResult{Level: models.CacheLevelMiss}
	}

	for i, cache := range mc.caches {
		entry, found := cache.Get(key)
		if !found {
			continue
		}
		if mc.enablePropagation && i > 0 {
			mc.propagate(key, entry, i)
		}
		return models.CacheResult{Entry: entry, Found: true, Level: levelOf(i)}
	}
	return models.CacheResult{Level: models.CacheLevelMiss}
}

func (mc *MultiCache) propagate(key models.CacheKey, entry *models.CacheEntry, hitIndex int) {
	for j := 0; j < hitIndex; j++ {
		mc.caches[j].Set(key, entry)
	}
	mc.logger.Debug("Propagated cache entry to upper levels",
		zap.String("key", key.Value),
		zap.Int("from_level", hitIndex+1))
}

func levelOf(index int) models.CacheLevel {
	if index == 0 {
		return models.CacheLevelL1
	}
	return models.CacheLevelL2
}

// Set stores value in all available caches
func (mc *MultiCache) Set(key models.CacheKey, entry *models.CacheEntry) {
	if len(mc.caches) == 0 {
		mc.logger.Warn("No caches available for set operation", zap.String("key", key.Value))
		return
	}

	for _, cache := range mc.caches {
		cache.Set(key, entry)
	}
}

// Delete removes entry from all available caches
func (mc *MultiCache) Delete(key models.CacheKey) {
	if len(mc.caches) == 0 {
		mc.logger.Warn("No caches available for delete operation", zap.String("key", key.Value))
		return
	}

	for _, cache := range mc.caches {
		cache.Delete(key)
	}
}

// PurgeCategoryYear purges every level. The count is the largest count
// reported by a level, since levels hold copies of the same entries.
func (mc *MultiCache) PurgeCategoryYear(category string, year int) (int, error) {
	return mc.purge(func(c interfaces.Cache) (int, error) {
		return c.PurgeCategoryYear(category, year)
	})
}

// PurgeAll flushes every level
func (mc *MultiCache) PurgeAll() (int, error) {
	return mc.purge(func(c interfaces.Cache) (int, error) {
		return c.PurgeAll()
	})
}

func (mc *MultiCache) purge(fn func(c interfaces.Cache) (int, error)) (int, error) {
	removed := 0
	var firstErr error
	for i, cache := range mc.caches {
		n, err := fn(cache)
		if err != nil {
			mc.logger.Error("Failed to purge cache level", zap.Int("level", i+1), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if n > removed {
			removed = n
		}
	}
	return removed, firstErr
}

// Categories returns the union of the categories of every level
func (mc *MultiCache) Categories() ([]string, error) {
	seen := make(map[string]struct{})
	for i, cache := range mc.caches {
		categories, err := cache.Categories()
		if err != nil {
			mc.logger.Warn("Failed to list categories of cache level", zap.Int("level", i+1), zap.Error(err))
			continue
		}
		for _, c := range categories {
			seen[c] = struct{}{}
		}
	}

	result := make([]string, 0, len(seen))
	for c := range seen {
		result = append(result, c)
	}
	sort.Strings(result)
	return result, nil
}

// Stats reports the deepest level, which holds the durable copy of every entry
func (mc *MultiCache) Stats() (models.CacheStats, error) {
	if len(mc.caches) == 0 {
		return models.NewCacheStats(), nil
	}
	return mc.caches[len(mc.caches)-1].Stats()
}

// LevelStats returns the stats of every level in order
func (mc *MultiCache) LevelStats() ([]models.CacheStats, error) {
	stats := make([]models.CacheStats, 0, len(mc.caches))
	for _, cache := range mc.caches {
		s, err := cache.Stats()
		if err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, nil
}

// GetCacheCount returns the number of caches in the multi-cache
func (mc *MultiCache) GetCacheCount() int {
	return len(mc.caches)
}
