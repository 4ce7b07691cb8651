package interfaces

import (
	"go-report-cache/internal/models"
)

//go:generate mockgen -package=mock -source=cache.go -destination=mock/cache.go

// Cache interface defines the contract for cache backends.
// Get and Set never fail: read errors are reported as a miss and write
// errors are logged by the backend. Purges return the number of removed
// entries.
type Cache interface {
	Get(key models.CacheKey) (*models.CacheEntry, bool) // returns entry and found flag
	Set(key models.CacheKey, entry *models.CacheEntry)
	Delete(key models.CacheKey)
	PurgeCategoryYear(category string, year int) (int, error)
	PurgeAll() (int, error)
	Categories() ([]string, error)
	Stats() (models.CacheStats, error)
}

// LevelAwareCache is a Cache composed of several levels that can report
// which level served a hit
type LevelAwareCache interface {
	Cache
	GetWithLevel(key models.CacheKey) models.CacheResult
}
