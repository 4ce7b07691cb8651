package interfaces

import (
	"go-report-cache/internal/models"
)

//go:generate mockgen -package=mock -source=cache_rules_config.go -destination=mock/cache_rules_config.go

// CacheRulesConfig exposes the category policies loaded from the rules file
type CacheRulesConfig interface {
	// GetPolicyForCategory returns the configured policy, or the default one
	GetPolicyForCategory(category string) models.CachePolicy
	// GetAllCategories returns the categories named in the rules file
	GetAllCategories() []string
}
