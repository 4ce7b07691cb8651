package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"go-report-cache/internal/cache/service"
	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/metrics"
	"go-report-cache/internal/models"
	"go-report-cache/internal/period"
	"go-report-cache/internal/utils"
)

// ErrInvalidRequest is returned for requests that cannot be served
var ErrInvalidRequest = errors.New("invalid report request")

// Coordinator serves report requests: it resolves both ranges, looks the
// request up in the cache and runs the aggregation on a miss
type Coordinator struct {
	resolver   *period.Resolver
	deriver    *period.ComparisonDeriver
	cache      *service.CacheService
	aggregator interfaces.Aggregator
	zones      interfaces.ZoneMapper
	logger     *zap.Logger
}

// NewCoordinator creates a coordinator
func NewCoordinator(
	resolver *period.Resolver,
	deriver *period.ComparisonDeriver,
	cache *service.CacheService,
	aggregator interfaces.Aggregator,
	zones interfaces.ZoneMapper,
	logger *zap.Logger,
) *Coordinator {
	return &Coordinator{
		resolver:   resolver,
		deriver:    deriver,
		cache:      cache,
		aggregator: aggregator,
		zones:      zones,
		logger:     logger,
	}
}

// Ranges resolves the primary and comparison ranges of req without touching
// the cache
func (c *Coordinator) Ranges(ctx context.Context, req models.ComparisonRequest) models.RangePair {
	primary := c.resolver.Resolve(ctx, req.Year, req.Descriptor)
	return c.deriver.Derive(ctx, req, primary)
}

// Handle serves one report request. Only aggregation failures and invalid
// requests are returned as errors; resolution and cache problems degrade.
func (c *Coordinator) Handle(ctx context.Context, req models.ReportRequest) (*models.ReportResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	requestID := ulid.Make().String()
	logger := c.logger.With(zap.String("request_id", requestID), zap.String("category", req.Category))

	zone := c.zones.ToBaseName(strings.TrimSpace(req.Zone))
	pair := c.Ranges(ctx, req.ComparisonRequest)
	params := KeyParams(req, pair, zone)

	result := &models.ReportResult{
		RequestID:  requestID,
		Category:   req.Category,
		Mode:       pair.Mode,
		Primary:    pair.Primary,
		Comparison: pair.Comparison,
	}

	cached, err := c.cache.Get(req.Category, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	result.Key = cached.Key

	if cached.Found {
		logger.Debug("Serving report from cache",
			zap.String("key", cached.Key),
			zap.String("level", cached.CacheLevel.String()))
		result.CacheStatus = models.CacheStatusHit
		result.CacheLevel = cached.CacheLevel.String()
		result.Payload = cached.Entry.Data
		return result, nil
	}

	timer := metrics.TimeAggregation(req.Category)
	payload, err := c.aggregator.Compute(ctx, pair.Primary.Range, pair.Comparison.Range, zone, req.Limit)
	timer()
	if err != nil {
		metrics.RecordAggregationError(req.Category)
		logger.Error("Aggregation failed", zap.String("key", cached.Key), zap.Error(err))
		return nil, fmt.Errorf("aggregation failed for %s: %w", cached.Key, err)
	}

	if err := c.cache.Set(req.Category, params, payload); err != nil {
		logger.Warn("Failed to store report", zap.String("key", cached.Key), zap.Error(err))
	}

	result.CacheStatus = cached.Status()
	result.Payload = payload
	logger.Info("Computed report",
		zap.String("key", cached.Key),
		zap.String("cache_status", string(result.CacheStatus)),
		zap.Bool("primary_fallback", pair.Primary.WasFallback),
		zap.Bool("comparison_fallback", pair.Comparison.WasFallback))
	return result, nil
}

// KeyParams returns the parameters a report is cached under. Resolved
// ranges are never part of the key, only the inputs that determine them.
func KeyParams(req models.ReportRequest, pair models.RangePair, zone string) models.Params {
	params := models.Params{
		"year":       req.Year,
		"descriptor": strings.TrimSpace(req.Descriptor),
		"zone":       zone,
		"limit":      req.Limit,
	}
	if req.CompareYear != nil {
		params["compare_year"] = *req.CompareYear
	}
	if pair.Mode == models.ComparisonModeOverride {
		params["start"] = utils.FormatDate(pair.Primary.Range.Start)
		params["end"] = utils.FormatDate(pair.Primary.Range.End)
	}
	return params
}

func validate(req models.ReportRequest) error {
	if strings.TrimSpace(req.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidRequest)
	}
	if req.Year < 1 || req.Year > 9999 {
		return fmt.Errorf("%w: year %d is out of range", ErrInvalidRequest, req.Year)
	}
	if req.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", ErrInvalidRequest)
	}
	return nil
}
