package cache_rules

import (
	"go-report-cache/internal/models"
)

// CacheRulesConfig represents the cache rules configuration
type CacheRulesConfig struct {
	// DefaultPolicy applies to categories missing from Categories
	DefaultPolicy models.CachePolicy            `yaml:"default_policy"`
	Categories    map[string]models.CachePolicy `yaml:"categories"`
}

// DefaultCacheRulesConfig caches every category
func DefaultCacheRulesConfig() *CacheRulesConfig {
	return &CacheRulesConfig{
		DefaultPolicy: models.CachePolicyCache,
		Categories:    map[string]models.CachePolicy{},
	}
}
