package httpserver

import (
	"encoding/json"

	"go-report-cache/internal/models"
)

// ErrorResponse is returned with every non-2xx status
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ReportResponse represents a served report
type ReportResponse struct {
	Success     bool                  `json:"success"`
	RequestID   string                `json:"request_id"`
	Key         string                `json:"key"`
	CacheStatus models.CacheStatus    `json:"cache_status"`          // HIT, MISS, or BYPASS
	CacheLevel  string                `json:"cache_level,omitempty"` // l1 or l2 on a hit
	Mode        models.ComparisonMode `json:"mode"`
	Primary     models.Resolution     `json:"primary"`
	Comparison  models.Resolution     `json:"comparison"`
	Data        json.RawMessage       `json:"data"`
}

// ResolveResponse shows how a period request resolves
type ResolveResponse struct {
	Success        bool                  `json:"success"`
	Mode           models.ComparisonMode `json:"mode"`
	Primary        models.Resolution     `json:"primary"`
	Comparison     models.Resolution     `json:"comparison"`
	WeekendMarkers models.WeekendMarkers `json:"weekend_markers"`
}

// PurgeRequest selects what POST /cache/purge removes: one category and
// year, or everything when All is set
type PurgeRequest struct {
	Category string `json:"category,omitempty"`
	Year     int    `json:"year,omitempty"`
	All      bool   `json:"all,omitempty"`
}

// PurgeResponse reports how many entries a purge removed
type PurgeResponse struct {
	Success bool   `json:"success"`
	Scope   string `json:"scope"`
	Year    int    `json:"year,omitempty"`
	Removed int    `json:"removed"`
}

// StatsResponse is the cache introspection view
type StatsResponse struct {
	Success bool              `json:"success"`
	Stats   models.CacheStats `json:"stats"`
}
