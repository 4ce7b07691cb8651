package period

import (
	"context"
	"time"

	"go.uber.org/zap"

	"go-report-cache/internal/metrics"
	"go-report-cache/internal/models"
)

// ComparisonDeriver produces the comparison range of a report request
type ComparisonDeriver struct {
	resolver *Resolver
	logger   *zap.Logger
}

// NewComparisonDeriver creates a deriver resolving catalog-mode comparisons
// through resolver
func NewComparisonDeriver(resolver *Resolver, logger *zap.Logger) *ComparisonDeriver {
	return &ComparisonDeriver{
		resolver: resolver,
		logger:   logger,
	}
}

// Derive returns the primary and comparison ranges of req.
//
// With a valid override (both dates set, end not before start) the primary
// becomes the override dates and the comparison is the same dates shifted to
// the comparison year. Otherwise the comparison is resolved from the catalog
// for the comparison year, independently of the primary range.
func (d *ComparisonDeriver) Derive(ctx context.Context, req models.ComparisonRequest, primary models.Resolution) models.RangePair {
	if start, end, ok := d.override(req); ok {
		loc := d.resolver.Location()
		delta := -1
		if req.CompareYear != nil {
			delta = *req.CompareYear - start.Year()
		}

		metrics.RecordResolution(string(models.TierOverride))
		return models.RangePair{
			Primary: models.Resolution{
				Range: DayRange(start, end, loc),
				Tier:  models.TierOverride,
			},
			Comparison: models.Resolution{
				Range: DayRange(ShiftYears(start, delta), ShiftYears(end, delta), loc),
				Tier:  models.TierShifted,
			},
			Mode: models.ComparisonModeOverride,
		}
	}

	return models.RangePair{
		Primary:    primary,
		Comparison: d.resolver.Resolve(ctx, req.EffectiveCompareYear(), req.Descriptor),
		Mode:       models.ComparisonModeCatalog,
	}
}

// override returns the override dates when they form a usable range
func (d *ComparisonDeriver) override(req models.ComparisonRequest) (time.Time, time.Time, bool) {
	if req.OverrideStart == nil && req.OverrideEnd == nil {
		return time.Time{}, time.Time{}, false
	}

	if req.OverrideStart == nil || req.OverrideEnd == nil {
		d.logger.Info("Ignoring incomplete override range",
			zap.Bool("has_start", req.OverrideStart != nil),
			zap.Bool("has_end", req.OverrideEnd != nil))
		return time.Time{}, time.Time{}, false
	}

	start, end := *req.OverrideStart, *req.OverrideEnd
	loc := d.resolver.Location()
	if StartOfDay(end, loc).Before(StartOfDay(start, loc)) {
		d.logger.Info("Ignoring inverted override range",
			zap.Time("start", start),
			zap.Time("end", end))
		return time.Time{}, time.Time{}, false
	}

	return start, end, true
}

// ShiftYears moves t by years calendar years keeping month, day and time of
// day. A day that does not exist in the target month (Feb 29 in a non-leap
// year) is clamped to the last day of that month.
func ShiftYears(t time.Time, years int) time.Time {
	y, m, d := t.Date()
	y += years
	if last := daysIn(y, m); d > last {
		d = last
	}
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysIn returns the number of days of month m in year y
func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
