package cache_rules

import (
	"go.uber.org/zap"

	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/models"
)

// Classifier implements the CacheRulesClassifier interface
type Classifier struct {
	logger *zap.Logger
	config interfaces.CacheRulesConfig
}

// Ensure Classifier implements the CacheRulesClassifier interface
var _ interfaces.CacheRulesClassifier = (*Classifier)(nil)

// NewClassifier creates a new Classifier instance
func NewClassifier(logger *zap.Logger, config interfaces.CacheRulesConfig) *Classifier {
	return &Classifier{
		logger: logger,
		config: config,
	}
}

// GetPolicy implements CacheRulesClassifier interface
func (c *Classifier) GetPolicy(category string) models.CachePolicy {
	if category == "" {
		return models.CachePolicyBypass
	}
	return c.config.GetPolicyForCategory(category)
}

// ShouldCache implements CacheRulesClassifier interface
func (c *Classifier) ShouldCache(category string) bool {
	return c.GetPolicy(category) == models.CachePolicyCache
}
