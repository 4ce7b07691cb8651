package interfaces

import (
	"context"
	"encoding/json"

	"go-report-cache/internal/models"
)

//go:generate mockgen -package=mock -source=aggregator.go -destination=mock/aggregator.go

// Aggregator computes a report payload for a primary and a comparison range
type Aggregator interface {
	Compute(ctx context.Context, primary, comparison models.ResolvedRange, zone string, limit int) (json.RawMessage, error)
}

// ZoneMapper translates zone display names into internal base names
type ZoneMapper interface {
	ToBaseName(displayName string) string
	ToDisplayName(baseName string) string
}
