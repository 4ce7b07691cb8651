package models

import (
	"time"
)

// PeriodDefinition is a catalog row describing a named period for one year.
type PeriodDefinition struct {
	Code  string    `json:"code" yaml:"code"`
	Name  string    `json:"name" yaml:"name"`
	Year  int       `json:"year" yaml:"year"`
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// ResolvedRange is an inclusive interval normalized to day boundaries:
// Start at 00:00:00 and End at 23:59:59.
type ResolvedRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the length of the range.
func (r ResolvedRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Days returns the number of calendar days covered by the range, counted
// in the location of Start so DST shifts never add or drop a day.
func (r ResolvedRange) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	end := r.End.In(r.Start.Location())
	first := time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(last.Sub(first).Hours()/24) + 1
}

// Contains reports whether t lies inside the range (inclusive).
func (r ResolvedRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// MatchTier identifies which resolution step produced a range
type MatchTier string

const (
	TierAlias      MatchTier = "alias"
	TierCode       MatchTier = "code"
	TierName       MatchTier = "name"
	TierNormalized MatchTier = "normalized"
	TierHeuristic  MatchTier = "heuristic"
	TierOverride   MatchTier = "override"
	TierShifted    MatchTier = "shifted"
	TierFallback   MatchTier = "fallback"
)

// Resolution is the outcome of resolving a descriptor for a year.
// WasFallback is set when no catalog row matched and the full calendar
// year was returned instead.
type Resolution struct {
	Range       ResolvedRange     `json:"range"`
	Tier        MatchTier         `json:"tier"`
	WasFallback bool              `json:"was_fallback"`
	Definition  *PeriodDefinition `json:"definition,omitempty"`
}

// ComparisonMode tells how the comparison range was produced
type ComparisonMode string

const (
	ComparisonModeCatalog  ComparisonMode = "catalog"
	ComparisonModeOverride ComparisonMode = "override"
)

// ComparisonRequest carries the caller inputs that decide both ranges.
// CompareYear defaults to Year-1 when nil.
type ComparisonRequest struct {
	Year          int        `json:"year"`
	Descriptor    string     `json:"descriptor"`
	CompareYear   *int       `json:"compare_year,omitempty"`
	OverrideStart *time.Time `json:"override_start,omitempty"`
	OverrideEnd   *time.Time `json:"override_end,omitempty"`
}

// EffectiveCompareYear returns CompareYear or Year-1.
func (r ComparisonRequest) EffectiveCompareYear() int {
	if r.CompareYear != nil {
		return *r.CompareYear
	}
	return r.Year - 1
}

// RangePair holds the primary and comparison resolutions of one request
type RangePair struct {
	Primary    Resolution     `json:"primary"`
	Comparison Resolution     `json:"comparison"`
	Mode       ComparisonMode `json:"mode"`
}

// WeekendMarkers lists the 2nd and 3rd Saturdays of a range.
// InsufficientRange is set when the range holds fewer than three Saturdays;
// the missing markers are then nil.
type WeekendMarkers struct {
	SecondSaturday    *time.Time `json:"second_saturday,omitempty"`
	ThirdSaturday     *time.Time `json:"third_saturday,omitempty"`
	InsufficientRange bool       `json:"insufficient_range"`
}
