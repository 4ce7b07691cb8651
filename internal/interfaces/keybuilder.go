package interfaces

import (
	"go-report-cache/internal/models"
)

//go:generate mockgen -package=mock -source=keybuilder.go -destination=mock/keybuilder.go

// KeyBuilder canonizes report parameters into deterministic, readable cache keys
type KeyBuilder interface {
	Build(category string, params models.Params) (models.CacheKey, error)
}
