package interfaces

import (
	"go-report-cache/internal/models"
)

//go:generate mockgen -package=mock -source=cache_rules_classifier.go -destination=mock/cache_rules_classifier.go

// CacheRulesClassifier decides how a report category uses the cache
type CacheRulesClassifier interface {
	// GetPolicy returns the cache policy of the category
	GetPolicy(category string) models.CachePolicy
	// ShouldCache returns false for categories that bypass the cache
	ShouldCache(category string) bool
}
