package interfaces

import (
	"context"

	"go-report-cache/internal/models"
)

//go:generate mockgen -package=mock -source=catalog.go -destination=mock/catalog.go

// PeriodCatalog is the read-only store of period definitions.
// Every lookup returns at most one row; (nil, nil) means not found.
type PeriodCatalog interface {
	// FindByCode matches code exactly (case-sensitive)
	FindByCode(ctx context.Context, code string, year int) (*models.PeriodDefinition, error)
	// FindByNameFold matches the display name case-insensitively
	FindByNameFold(ctx context.Context, name string, year int) (*models.PeriodDefinition, error)
	// FindNormalized matches a normalized label against the normalized code or name
	FindNormalized(ctx context.Context, label string, year int) (*models.PeriodDefinition, error)
	// FindNameContaining matches names containing the normalized token
	FindNameContaining(ctx context.Context, token string, year int) (*models.PeriodDefinition, error)
}
