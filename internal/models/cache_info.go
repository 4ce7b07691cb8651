package models

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// CachePolicy represents how a report category interacts with the cache
type CachePolicy string

const (
	CachePolicyCache  CachePolicy = "cache"
	CachePolicyBypass CachePolicy = "bypass"
)

// UnmarshalYAML implements custom YAML unmarshaling for CachePolicy
func (c *CachePolicy) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	switch str {
	case "cache", "bypass":
		*c = CachePolicy(str)
		return nil
	default:
		return fmt.Errorf("invalid cache policy '%s': must be one of 'cache', 'bypass'", str)
	}
}

// CacheStatus is reported back to callers for every report request
type CacheStatus string

const (
	CacheStatusHit    CacheStatus = "HIT"
	CacheStatusMiss   CacheStatus = "MISS"
	CacheStatusBypass CacheStatus = "BYPASS"
)

// CacheLevel identifies which backend served a hit
type CacheLevel int

const (
	CacheLevelMiss CacheLevel = iota
	CacheLevelL1
	CacheLevelL2
)

// String returns the metric label of the level
func (l CacheLevel) String() string {
	switch l {
	case CacheLevelL1:
		return "l1"
	case CacheLevelL2:
		return "l2"
	default:
		return "miss"
	}
}

// Params is the set of scalar request parameters a cache key is built from
type Params map[string]interface{}

// CacheKey addresses one cache entry. Value is the human-readable key
// ("category/name=value&name=value"); Category and YearTag are carried
// alongside so backends can lay entries out for scoped purges.
type CacheKey struct {
	Category string
	YearTag  int
	Value    string
}

// String returns the readable key
func (k CacheKey) String() string {
	return k.Value
}

// CacheEntry represents a stored report payload
type CacheEntry struct {
	Key       string          `json:"key"`
	Category  string          `json:"category"`
	YearTag   int             `json:"year_tag"`
	Data      json.RawMessage `json:"data"`
	CreatedAt int64           `json:"created_at"`
}

// CategoryStats aggregates entries of one category
type CategoryStats struct {
	Entries    int64 `json:"entries"`
	TotalBytes int64 `json:"total_bytes"`
}

// CacheStats is the introspection view of a cache backend
type CacheStats struct {
	Entries    int64                    `json:"entries"`
	TotalBytes int64                    `json:"total_bytes"`
	Categories map[string]CategoryStats `json:"categories"`
}

// NewCacheStats returns an empty stats value ready for Add
func NewCacheStats() CacheStats {
	return CacheStats{Categories: make(map[string]CategoryStats)}
}

// Add accounts one entry of size bytes in category
func (s *CacheStats) Add(category string, size int64) {
	if s.Categories == nil {
		s.Categories = make(map[string]CategoryStats)
	}
	cs := s.Categories[category]
	cs.Entries++
	cs.TotalBytes += size
	s.Categories[category] = cs
	s.Entries++
	s.TotalBytes += size
}

// CacheResult represents the result of a level-aware cache lookup
type CacheResult struct {
	Entry *CacheEntry
	Found bool
	Level CacheLevel
}
