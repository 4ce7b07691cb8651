package report

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"go-report-cache/internal/cache/fs"
	"go-report-cache/internal/cache/l1"
	"go-report-cache/internal/cache/service"
	"go-report-cache/internal/cache_rules"
	"go-report-cache/internal/catalog"
	"go-report-cache/internal/config"
	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/interfaces/mock"
	"go-report-cache/internal/models"
	"go-report-cache/internal/period"
	"go-report-cache/internal/zone"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endOfDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
}

type fixture struct {
	coordinator *Coordinator
	aggregator  *mock.MockAggregator
	cache       *service.CacheService
}

func newFixture(t *testing.T, periodCatalog interfaces.PeriodCatalog) *fixture {
	ctrl := gomock.NewController(t)
	logger := zaptest.NewLogger(t)

	if periodCatalog == nil {
		periodCatalog = catalog.NewMemoryCatalog([]models.PeriodDefinition{
			{Code: "hiver", Name: "Vacances d'hiver", Year: 2024, Start: day(2024, 2, 10), End: day(2024, 3, 10)},
			{Code: "hiver", Name: "Vacances d'hiver", Year: 2023, Start: day(2023, 2, 4), End: day(2023, 3, 5)},
		})
	}

	l1Cache, err := l1.NewBigCache(&config.BigCacheConfig{Enabled: true, Size: 8}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l1Cache.Close() })
	l2Cache, err := fs.NewFilesystemCache(t.TempDir(), logger)
	require.NoError(t, err)

	rules := cache_rules.NewCacheConfig(&cache_rules.CacheRulesConfig{
		DefaultPolicy: models.CachePolicyCache,
		Categories:    map[string]models.CachePolicy{"live": models.CachePolicyBypass},
	}, logger)
	cacheService := service.NewCacheService(l1Cache, l2Cache, cache_rules.NewClassifier(logger, rules), true, logger)

	resolver := period.NewResolver(periodCatalog, time.UTC, logger)
	aggregator := mock.NewMockAggregator(ctrl)

	return &fixture{
		coordinator: NewCoordinator(resolver, period.NewComparisonDeriver(resolver, logger), cacheService, aggregator, zone.NewDefaultMapper(), logger),
		aggregator:  aggregator,
		cache:       cacheService,
	}
}

func TestCoordinator_EndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	payload := json.RawMessage(`{"origins":[{"name":"Paris","visitors":4200}]}`)

	primary := models.ResolvedRange{Start: day(2024, 2, 10), End: endOfDay(2024, 3, 10)}
	comparison := models.ResolvedRange{Start: day(2023, 2, 4), End: endOfDay(2023, 3, 5)}
	f.aggregator.EXPECT().Compute(gomock.Any(), primary, comparison, "CANTAL", 10).Return(payload, nil).Times(1)

	req := models.ReportRequest{
		Category:          "frequentation",
		Zone:              "CANTAL",
		Limit:             10,
		ComparisonRequest: models.ComparisonRequest{Year: 2024, Descriptor: "hiver"},
	}

	first, err := f.coordinator.Handle(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.CacheStatusMiss, first.CacheStatus)
	assert.Equal(t, models.ComparisonModeCatalog, first.Mode)
	assert.Equal(t, primary, first.Primary.Range)
	assert.Equal(t, comparison, first.Comparison.Range)
	assert.False(t, first.Comparison.WasFallback)
	assert.JSONEq(t, string(payload), string(first.Payload))
	assert.Equal(t, "frequentation/descriptor=hiver&limit=10&year=2024&zone=CANTAL", first.Key)
	assert.NotEmpty(t, first.RequestID)

	second, err := f.coordinator.Handle(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.CacheStatusHit, second.CacheStatus)
	assert.Equal(t, "l1", second.CacheLevel)
	assert.JSONEq(t, string(payload), string(second.Payload))
	assert.Equal(t, first.Key, second.Key)
	assert.NotEqual(t, first.RequestID, second.RequestID)
}

func TestCoordinator_DisplayZoneSharesKeyWithBaseName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	f.aggregator.EXPECT().Compute(gomock.Any(), gomock.Any(), gomock.Any(), "CANTAL", 10).Return(json.RawMessage(`[]`), nil).Times(1)

	req := models.ReportRequest{Category: "frequentation", Zone: "Cantal", Limit: 10, ComparisonRequest: models.ComparisonRequest{Year: 2024, Descriptor: "hiver"}}
	_, err := f.coordinator.Handle(ctx, req)
	require.NoError(t, err)

	req.Zone = "CANTAL"
	got, err := f.coordinator.Handle(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.CacheStatusHit, got.CacheStatus)
}

func TestCoordinator_DifferentLimitIsAnotherEntry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	f.aggregator.EXPECT().Compute(gomock.Any(), gomock.Any(), gomock.Any(), "CANTAL", gomock.Any()).Return(json.RawMessage(`[]`), nil).Times(2)

	req := models.ReportRequest{Category: "frequentation", Zone: "CANTAL", Limit: 10, ComparisonRequest: models.ComparisonRequest{Year: 2024, Descriptor: "hiver"}}
	_, err := f.coordinator.Handle(ctx, req)
	require.NoError(t, err)

	req.Limit = 20
	got, err := f.coordinator.Handle(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.CacheStatusMiss, got.CacheStatus)
}

func TestCoordinator_OverrideMode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	start, end := day(2024, 2, 10), day(2024, 2, 20)

	f.aggregator.EXPECT().Compute(gomock.Any(),
		models.ResolvedRange{Start: day(2024, 2, 10), End: endOfDay(2024, 2, 20)},
		models.ResolvedRange{Start: day(2023, 2, 10), End: endOfDay(2023, 2, 20)},
		"CANTAL", 10,
	).Return(json.RawMessage(`{}`), nil)

	got, err := f.coordinator.Handle(ctx, models.ReportRequest{
		Category: "frequentation",
		Zone:     "CANTAL",
		Limit:    10,
		ComparisonRequest: models.ComparisonRequest{
			Year:          2024,
			Descriptor:    "custom",
			OverrideStart: &start,
			OverrideEnd:   &end,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ComparisonModeOverride, got.Mode)
	assert.Equal(t, "frequentation/descriptor=custom&end=2024-02-20&limit=10&start=2024-02-10&year=2024&zone=CANTAL", got.Key)
}

func TestCoordinator_AggregationErrorPropagatesAndIsNotCached(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	upstreamErr := errors.New("upstream timeout")

	gomock.InOrder(
		f.aggregator.EXPECT().Compute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, upstreamErr),
		f.aggregator.EXPECT().Compute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(json.RawMessage(`{}`), nil),
	)

	req := models.ReportRequest{Category: "frequentation", Zone: "CANTAL", Limit: 10, ComparisonRequest: models.ComparisonRequest{Year: 2024, Descriptor: "hiver"}}

	_, err := f.coordinator.Handle(ctx, req)
	assert.ErrorIs(t, err, upstreamErr)

	got, err := f.coordinator.Handle(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.CacheStatusMiss, got.CacheStatus)
}

func TestCoordinator_BypassCategoryAlwaysComputes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	f.aggregator.EXPECT().Compute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(json.RawMessage(`{}`), nil).Times(2)

	req := models.ReportRequest{Category: "live", Zone: "CANTAL", ComparisonRequest: models.ComparisonRequest{Year: 2024, Descriptor: "hiver"}}
	for i := 0; i < 2; i++ {
		got, err := f.coordinator.Handle(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, models.CacheStatusBypass, got.CacheStatus)
	}
}

func TestCoordinator_CatalogFailureStillAnswers(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	broken := mock.NewMockPeriodCatalog(ctrl)
	dbErr := errors.New("connection refused")
	broken.EXPECT().FindByCode(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, dbErr).AnyTimes()
	broken.EXPECT().FindByNameFold(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, dbErr).AnyTimes()
	broken.EXPECT().FindNormalized(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, dbErr).AnyTimes()
	broken.EXPECT().FindNameContaining(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, dbErr).AnyTimes()

	f := newFixture(t, broken)
	f.aggregator.EXPECT().Compute(gomock.Any(),
		models.ResolvedRange{Start: day(2024, 1, 1), End: endOfDay(2024, 12, 31)},
		models.ResolvedRange{Start: day(2023, 1, 1), End: endOfDay(2023, 12, 31)},
		"CANTAL", 10,
	).Return(json.RawMessage(`{}`), nil)

	got, err := f.coordinator.Handle(ctx, models.ReportRequest{
		Category:          "frequentation",
		Zone:              "CANTAL",
		Limit:             10,
		ComparisonRequest: models.ComparisonRequest{Year: 2024, Descriptor: "hiver"},
	})
	require.NoError(t, err)
	assert.True(t, got.Primary.WasFallback)
	assert.True(t, got.Comparison.WasFallback)
}

func TestCoordinator_InvalidRequests(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name string
		req  models.ReportRequest
	}{
		{"missing category", models.ReportRequest{ComparisonRequest: models.ComparisonRequest{Year: 2024}}},
		{"year zero", models.ReportRequest{Category: "frequentation"}},
		{"negative limit", models.ReportRequest{Category: "frequentation", Limit: -1, ComparisonRequest: models.ComparisonRequest{Year: 2024}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.coordinator.Handle(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestKeyParams(t *testing.T) {
	compareYear := 2020
	req := models.ReportRequest{
		Zone:              "CANTAL",
		Limit:             5,
		ComparisonRequest: models.ComparisonRequest{Year: 2024, Descriptor: " hiver ", CompareYear: &compareYear},
	}

	params := KeyParams(req, models.RangePair{Mode: models.ComparisonModeCatalog}, "CANTAL")
	assert.Equal(t, models.Params{
		"year":         2024,
		"descriptor":   "hiver",
		"zone":         "CANTAL",
		"limit":        5,
		"compare_year": 2020,
	}, params)
}
