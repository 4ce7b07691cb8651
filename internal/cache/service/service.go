package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"go-report-cache/internal/cache"
	"go-report-cache/internal/cache/multi"
	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/metrics"
	"go-report-cache/internal/models"
)

// CacheService handles cache operations with business logic
type CacheService struct {
	multiCache      interfaces.LevelAwareCache
	keyBuilder      interfaces.KeyBuilder
	cacheClassifier interfaces.CacheRulesClassifier
	clock           clock.Clock
	location        *time.Location
	logger          *zap.Logger
}

// NewCacheService creates a new cache service instance with MultiCache
func NewCacheService(l1Cache, l2Cache interfaces.Cache, cacheClassifier interfaces.CacheRulesClassifier, enablePropagation bool, logger *zap.Logger) *CacheService {
	// Create MultiCache with L1 and L2 caches
	caches := []interfaces.Cache{l1Cache, l2Cache}
	multiCache := multi.NewMultiCache(caches, logger, enablePropagation)

	return NewCacheServiceWithCache(multiCache, cacheClassifier, logger)
}

// NewCacheServiceWithCache creates a cache service over an already composed cache
func NewCacheServiceWithCache(c interfaces.LevelAwareCache, cacheClassifier interfaces.CacheRulesClassifier, logger *zap.Logger) *CacheService {
	return &CacheService{
		multiCache:      c,
		keyBuilder:      cache.NewKeyBuilder(),
		cacheClassifier: cacheClassifier,
		clock:           clock.New(),
		location:        time.UTC,
		logger:          logger,
	}
}

// WithClock sets the clock and time zone that decide the current year
func (s *CacheService) WithClock(clk clock.Clock, loc *time.Location) *CacheService {
	if clk != nil {
		s.clock = clk
	}
	if loc != nil {
		s.location = loc
	}
	return s
}

// WithKeyBuilder replaces the key builder
func (s *CacheService) WithKeyBuilder(kb interfaces.KeyBuilder) *CacheService {
	if kb != nil {
		s.keyBuilder = kb
	}
	return s
}

// GetResponse represents the result of a cache get operation
type GetResponse struct {
	Found      bool               `json:"found"`
	Key        string             `json:"key"`
	Bypass     bool               `json:"bypass"`
	CacheLevel models.CacheLevel  `json:"cache_level,omitempty"`
	Entry      *models.CacheEntry `json:"entry,omitempty"`
}

// Status returns the caller-facing cache status of the lookup
func (r *GetResponse) Status() models.CacheStatus {
	switch {
	case r.Bypass:
		return models.CacheStatusBypass
	case r.Found:
		return models.CacheStatusHit
	default:
		return models.CacheStatusMiss
	}
}

// Key builds the cache key of a category and parameter set
func (s *CacheService) Key(category string, params models.Params) (models.CacheKey, error) {
	key, err := s.keyBuilder.Build(category, params)
	if err != nil {
		return models.CacheKey{}, fmt.Errorf("failed to build cache key: %w", err)
	}
	return key, nil
}

// Get looks up the entry of category and params. Backend failures are
// reported as a miss; only an invalid key is an error.
func (s *CacheService) Get(category string, params models.Params) (*GetResponse, error) {
	key, err := s.Key(category, params)
	if err != nil {
		return nil, err
	}

	metrics.RecordCacheRequest(category)

	if !s.cacheClassifier.ShouldCache(category) {
		metrics.RecordCacheBypass(category)
		return &GetResponse{
			Key:        key.Value,
			Bypass:     true,
			CacheLevel: models.CacheLevelMiss,
		}, nil
	}

	// Start timing cache get operation
	timer := metrics.TimeCacheOperation("get", "multi")
	defer timer()

	result := s.multiCache.GetWithLevel(key)
	if result.Found && result.Entry != nil {
		metrics.RecordCacheHit(category, result.Level.String())
		return &GetResponse{
			Found:      true,
			Key:        key.Value,
			CacheLevel: result.Level,
			Entry:      result.Entry,
		}, nil
	}

	metrics.RecordCacheMiss(category)
	return &GetResponse{
		Key:        key.Value,
		CacheLevel: models.CacheLevelMiss,
	}, nil
}

// Set stores payload for category and params. Overwriting is always safe;
// backend failures are logged by the backends and never returned.
func (s *CacheService) Set(category string, params models.Params, payload json.RawMessage) error {
	key, err := s.Key(category, params)
	if err != nil {
		return err
	}

	if !s.cacheClassifier.ShouldCache(category) {
		return nil
	}

	timer := metrics.TimeCacheOperation("set", "multi")
	defer timer()

	s.multiCache.Set(key, &models.CacheEntry{
		Key:       key.Value,
		Category:  key.Category,
		YearTag:   key.YearTag,
		Data:      payload,
		CreatedAt: s.clock.Now().Unix(),
	})
	return nil
}

// PurgeCategoryYear removes every entry of category tagged with year
func (s *CacheService) PurgeCategoryYear(category string, year int) (int, error) {
	if err := cache.ValidateCategory(category); err != nil {
		return 0, err
	}

	removed, err := s.multiCache.PurgeCategoryYear(category, year)
	if err != nil {
		return removed, fmt.Errorf("failed to purge %s/%d: %w", category, year, err)
	}

	metrics.RecordPurge("category_year", removed)
	s.logger.Info("Purged cache entries",
		zap.String("category", category),
		zap.Int("year", year),
		zap.Int("removed", removed))
	return removed, nil
}

// PurgeAll flushes every entry
func (s *CacheService) PurgeAll() (int, error) {
	removed, err := s.multiCache.PurgeAll()
	if err != nil {
		return removed, fmt.Errorf("failed to purge cache: %w", err)
	}

	metrics.RecordPurge("all", removed)
	s.logger.Info("Purged whole cache", zap.Int("removed", removed))
	return removed, nil
}

// CurrentYear returns the year of the service clock in its time zone
func (s *CacheService) CurrentYear() int {
	return s.clock.Now().In(s.location).Year()
}

// RunDailyPurge invalidates every entry tagged with the current year, in
// every category the cache holds. Past years are never touched. Running it
// twice in a row is harmless.
func (s *CacheService) RunDailyPurge() (int, error) {
	year := s.CurrentYear()

	categories, err := s.multiCache.Categories()
	if err != nil {
		return 0, fmt.Errorf("failed to list cache categories: %w", err)
	}

	total := 0
	var firstErr error
	for _, category := range categories {
		removed, err := s.multiCache.PurgeCategoryYear(category, year)
		if err != nil {
			s.logger.Error("Daily purge failed for category",
				zap.String("category", category),
				zap.Int("year", year),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		total += removed
	}

	metrics.RecordPurge("daily", total)
	s.logger.Info("Daily purge completed",
		zap.Int("year", year),
		zap.Int("categories", len(categories)),
		zap.Int("removed", total))
	return total, firstErr
}

// Categories lists the categories currently holding entries
func (s *CacheService) Categories() ([]string, error) {
	return s.multiCache.Categories()
}

// Stats returns entry counts and sizes
func (s *CacheService) Stats() (models.CacheStats, error) {
	return s.multiCache.Stats()
}

// UpdateUsageMetrics refreshes the usage gauges of the durable level
func (s *CacheService) UpdateUsageMetrics() {
	stats, err := s.multiCache.Stats()
	if err != nil {
		s.logger.Warn("Failed to collect cache stats", zap.Error(err))
		return
	}
	metrics.UpdateCacheUsage("multi", stats.Entries, stats.TotalBytes)
}
