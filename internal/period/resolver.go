package period

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/metrics"
	"go-report-cache/internal/models"
	"go-report-cache/internal/utils"
)

// Resolver turns a (year, descriptor) pair into a concrete date range.
// It is safe for concurrent use; the only shared state is the read-only
// catalog.
type Resolver struct {
	catalog  interfaces.PeriodCatalog
	location *time.Location
	logger   *zap.Logger
}

// NewResolver creates a resolver over catalog. Day boundaries are computed
// in loc, UTC when nil.
func NewResolver(catalog interfaces.PeriodCatalog, loc *time.Location, logger *zap.Logger) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{
		catalog:  catalog,
		location: loc,
		logger:   logger,
	}
}

// Location returns the time zone day boundaries are computed in
func (r *Resolver) Location() *time.Location {
	return r.location
}

// lookup is one catalog tier
type lookup struct {
	tier models.MatchTier
	find func(ctx context.Context) (*models.PeriodDefinition, error)
}

// Resolve never fails: when no tier matches, or the catalog is unavailable,
// the full calendar year is returned with WasFallback set.
func (r *Resolver) Resolve(ctx context.Context, year int, descriptor string) models.Resolution {
	descriptor = strings.TrimSpace(descriptor)
	alias := Classify(descriptor)

	if alias.Class == AliasFullYear {
		metrics.RecordResolution(string(models.TierAlias))
		return models.Resolution{
			Range: FullYear(year, r.location),
			Tier:  models.TierAlias,
		}
	}

	if descriptor != "" {
		for _, l := range r.tiers(year, descriptor, alias) {
			def := r.find(ctx, l, year, descriptor)
			if def == nil {
				continue
			}

			metrics.RecordResolution(string(l.tier))
			r.logger.Debug("Resolved period",
				zap.Int("year", year),
				zap.String("descriptor", descriptor),
				zap.String("tier", string(l.tier)),
				zap.String("code", def.Code))
			return models.Resolution{
				Range:      DayRange(def.Start, def.End, r.location),
				Tier:       l.tier,
				Definition: def,
			}
		}
	}

	metrics.RecordResolution(string(models.TierFallback))
	r.logger.Warn("No catalog period matched, using full year",
		zap.Int("year", year),
		zap.String("descriptor", descriptor),
		zap.String("alias_class", alias.Class.String()))
	return models.Resolution{
		Range:       FullYear(year, r.location),
		Tier:        models.TierFallback,
		WasFallback: true,
	}
}

// tiers lists the catalog lookups in the order they are tried
func (r *Resolver) tiers(year int, descriptor string, alias Alias) []lookup {
	tiers := []lookup{
		{tier: models.TierCode, find: func(ctx context.Context) (*models.PeriodDefinition, error) {
			return r.catalog.FindByCode(ctx, descriptor, year)
		}},
		{tier: models.TierName, find: func(ctx context.Context) (*models.PeriodDefinition, error) {
			return r.catalog.FindByNameFold(ctx, descriptor, year)
		}},
	}

	if label := utils.NormalizeLabel(descriptor); label != "" {
		tiers = append(tiers, lookup{tier: models.TierNormalized, find: func(ctx context.Context) (*models.PeriodDefinition, error) {
			return r.catalog.FindNormalized(ctx, label, year)
		}})
	}

	if alias.Heuristic() {
		tiers = append(tiers, lookup{tier: models.TierHeuristic, find: func(ctx context.Context) (*models.PeriodDefinition, error) {
			return r.catalog.FindNameContaining(ctx, alias.Token, year)
		}})
	}

	return tiers
}

// find runs one tier; catalog errors are logged and reported as not found
func (r *Resolver) find(ctx context.Context, l lookup, year int, descriptor string) *models.PeriodDefinition {
	def, err := l.find(ctx)
	if err != nil {
		metrics.RecordCatalogError(string(l.tier))
		r.logger.Error("Catalog lookup failed, treating as not found",
			zap.String("tier", string(l.tier)),
			zap.Int("year", year),
			zap.String("descriptor", descriptor),
			zap.Error(err))
		return nil
	}
	return def
}

// FullYear returns [Jan 1 00:00:00, Dec 31 23:59:59] of year in loc
func FullYear(year int, loc *time.Location) models.ResolvedRange {
	return models.ResolvedRange{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
		End:   time.Date(year, time.December, 31, 23, 59, 59, 0, loc),
	}
}

// DayRange normalizes start and end to the day boundaries of their calendar
// dates in loc, whatever time of day the inputs carry
func DayRange(start, end time.Time, loc *time.Location) models.ResolvedRange {
	return models.ResolvedRange{
		Start: StartOfDay(start, loc),
		End:   EndOfDay(end, loc),
	}
}

// StartOfDay returns 00:00:00 of t's calendar date placed in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// EndOfDay returns 23:59:59 of t's calendar date placed in loc
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, loc)
}
