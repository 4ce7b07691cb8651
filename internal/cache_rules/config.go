package cache_rules

import (
	"sort"

	"go.uber.org/zap"

	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/models"
)

// CacheConfig implements the CacheRulesConfig interface
type CacheConfig struct {
	config *CacheRulesConfig
	logger *zap.Logger
}

// Ensure CacheConfig implements the CacheRulesConfig interface
var _ interfaces.CacheRulesConfig = (*CacheConfig)(nil)

// NewCacheConfig creates a new CacheConfig instance
func NewCacheConfig(config *CacheRulesConfig, logger *zap.Logger) *CacheConfig {
	if config == nil {
		panic("config cannot be nil")
	}
	return &CacheConfig{
		config: config,
		logger: logger,
	}
}

// GetPolicyForCategory implements CacheRulesConfig interface
func (cr *CacheConfig) GetPolicyForCategory(category string) models.CachePolicy {
	if policy, exists := cr.config.Categories[category]; exists {
		return policy
	}

	if cr.logger != nil {
		cr.logger.Debug("Category not found in cache rules, using default policy",
			zap.String("category", category),
			zap.String("policy", string(cr.defaultPolicy())))
	}
	return cr.defaultPolicy()
}

func (cr *CacheConfig) defaultPolicy() models.CachePolicy {
	if cr.config.DefaultPolicy == "" {
		return models.CachePolicyCache
	}
	return cr.config.DefaultPolicy
}

// GetAllCategories returns all categories named in the rules, sorted
func (cr *CacheConfig) GetAllCategories() []string {
	categories := make([]string, 0, len(cr.config.Categories))
	for category := range cr.config.Categories {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}
