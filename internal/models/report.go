package models

import (
	"encoding/json"
)

// ReportRequest represents one inbound report query
type ReportRequest struct {
	Category string `json:"category"`
	Zone     string `json:"zone"`
	Limit    int    `json:"limit"`
	ComparisonRequest
}

// ReportResult is returned by the coordinator for every request
type ReportResult struct {
	RequestID   string          `json:"request_id"`
	Category    string          `json:"category"`
	Key         string          `json:"key"`
	CacheStatus CacheStatus     `json:"cache_status"`
	CacheLevel  string          `json:"cache_level,omitempty"`
	Mode        ComparisonMode  `json:"mode"`
	Primary     Resolution      `json:"primary"`
	Comparison  Resolution      `json:"comparison"`
	Payload     json.RawMessage `json:"payload"`
}
