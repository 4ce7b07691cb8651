package noop

import (
	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/models"
)

// Ensure NoOpCache implements interfaces.Cache
var _ interfaces.Cache = (*NoOpCache)(nil)

// NoOpCache is a no-operation cache implementation for disabled caches
type NoOpCache struct{}

// NewNoOpCache creates a new no-operation cache instance
func NewNoOpCache() interfaces.Cache {
	return &NoOpCache{}
}

// Get always returns cache miss
func (n *NoOpCache) Get(key models.CacheKey) (*models.CacheEntry, bool) {
	return nil, false
}

// Set does nothing
func (n *NoOpCache) Set(key models.CacheKey, entry *models.CacheEntry) {
	// No-op
}

// Delete does nothing
func (n *NoOpCache) Delete(key models.CacheKey) {
	// No-op
}

// PurgeCategoryYear removes nothing
func (n *NoOpCache) PurgeCategoryYear(category string, year int) (int, error) {
	return 0, nil
}

// PurgeAll removes nothing
func (n *NoOpCache) PurgeAll() (int, error) {
	return 0, nil
}

// Categories is always empty
func (n *NoOpCache) Categories() ([]string, error) {
	return []string{}, nil
}

// Stats is always empty
func (n *NoOpCache) Stats() (models.CacheStats, error) {
	return models.NewCacheStats(), nil
}
