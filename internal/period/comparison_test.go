package period

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"go-report-cache/internal/models"
)

func ptr[T any](v T) *T {
	return &v
}

func newTestDeriver(t *testing.T) (*Resolver, *ComparisonDeriver) {
	r := newTestResolver(t)
	return r, NewComparisonDeriver(r, zaptest.NewLogger(t))
}

func TestComparisonDeriver_OverrideShift(t *testing.T) {
	ctx := context.Background()
	r, d := newTestDeriver(t)

	req := models.ComparisonRequest{
		Year:          2024,
		Descriptor:    "custom",
		OverrideStart: ptr(at(2024, 2, 10, 0, 0, 0)),
		OverrideEnd:   ptr(at(2024, 2, 20, 0, 0, 0)),
	}
	pair := d.Derive(ctx, req, r.Resolve(ctx, req.Year, req.Descriptor))

	assert.Equal(t, models.ComparisonModeOverride, pair.Mode)
	assert.Equal(t, models.TierOverride, pair.Primary.Tier)
	assert.Equal(t, models.ResolvedRange{Start: at(2024, 2, 10, 0, 0, 0), End: at(2024, 2, 20, 23, 59, 59)}, pair.Primary.Range)
	assert.Equal(t, models.TierShifted, pair.Comparison.Tier)
	assert.Equal(t, models.ResolvedRange{Start: at(2023, 2, 10, 0, 0, 0), End: at(2023, 2, 20, 23, 59, 59)}, pair.Comparison.Range)
	assert.Equal(t, pair.Primary.Range.Duration(), pair.Comparison.Range.Duration())
}

func TestComparisonDeriver_OverrideExplicitCompareYear(t *testing.T) {
	ctx := context.Background()
	_, d := newTestDeriver(t)

	req := models.ComparisonRequest{
		Year:          2024,
		CompareYear:   ptr(2019),
		OverrideStart: ptr(at(2024, 12, 20, 0, 0, 0)),
		OverrideEnd:   ptr(at(2025, 1, 4, 0, 0, 0)),
	}
	pair := d.Derive(ctx, req, models.Resolution{})

	// the whole range moves by the same number of years
	assert.Equal(t, at(2019, 12, 20, 0, 0, 0), pair.Comparison.Range.Start)
	assert.Equal(t, at(2020, 1, 4, 23, 59, 59), pair.Comparison.Range.End)
}

func TestComparisonDeriver_LeapDayClamps(t *testing.T) {
	ctx := context.Background()
	_, d := newTestDeriver(t)

	req := models.ComparisonRequest{
		Year:          2024,
		OverrideStart: ptr(at(2024, 2, 29, 0, 0, 0)),
		OverrideEnd:   ptr(at(2024, 2, 29, 0, 0, 0)),
	}
	pair := d.Derive(ctx, req, models.Resolution{})

	assert.Equal(t, models.ResolvedRange{Start: at(2023, 2, 28, 0, 0, 0), End: at(2023, 2, 28, 23, 59, 59)}, pair.Comparison.Range)
}

func TestComparisonDeriver_CatalogMode(t *testing.T) {
	ctx := context.Background()
	r, d := newTestDeriver(t)

	req := models.ComparisonRequest{Year: 2024, Descriptor: "HIV"}
	primary := r.Resolve(ctx, req.Year, req.Descriptor)
	pair := d.Derive(ctx, req, primary)

	assert.Equal(t, models.ComparisonModeCatalog, pair.Mode)
	assert.Equal(t, primary, pair.Primary)
	// looked up for 2023, not shifted from 2024
	assert.Equal(t, models.ResolvedRange{Start: at(2023, 2, 4, 0, 0, 0), End: at(2023, 3, 5, 23, 59, 59)}, pair.Comparison.Range)
	assert.Equal(t, models.TierCode, pair.Comparison.Tier)
}

func TestComparisonDeriver_CatalogModeExplicitYearFallsBack(t *testing.T) {
	ctx := context.Background()
	r, d := newTestDeriver(t)

	req := models.ComparisonRequest{Year: 2024, Descriptor: "HIV", CompareYear: ptr(2010)}
	pair := d.Derive(ctx, req, r.Resolve(ctx, req.Year, req.Descriptor))

	assert.True(t, pair.Comparison.WasFallback)
	assert.Equal(t, FullYear(2010, time.UTC), pair.Comparison.Range)
}

func TestComparisonDeriver_InvalidOverrideUsesCatalog(t *testing.T) {
	ctx := context.Background()
	r, d := newTestDeriver(t)

	tests := []struct {
		name  string
		start *time.Time
		end   *time.Time
	}{
		{"inverted", ptr(at(2024, 2, 20, 0, 0, 0)), ptr(at(2024, 2, 10, 0, 0, 0))},
		{"start only", ptr(at(2024, 2, 10, 0, 0, 0)), nil},
		{"end only", nil, ptr(at(2024, 2, 10, 0, 0, 0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := models.ComparisonRequest{Year: 2024, Descriptor: "HIV", OverrideStart: tt.start, OverrideEnd: tt.end}
			primary := r.Resolve(ctx, req.Year, req.Descriptor)
			pair := d.Derive(ctx, req, primary)

			assert.Equal(t, models.ComparisonModeCatalog, pair.Mode)
			assert.Equal(t, primary, pair.Primary)
			assert.Equal(t, at(2023, 2, 4, 0, 0, 0), pair.Comparison.Range.Start)
		})
	}
}

func TestComparisonDeriver_SameDayOverride(t *testing.T) {
	ctx := context.Background()
	_, d := newTestDeriver(t)

	// end earlier in the day than start is still the same calendar day
	req := models.ComparisonRequest{
		Year:          2024,
		OverrideStart: ptr(at(2024, 7, 14, 18, 0, 0)),
		OverrideEnd:   ptr(at(2024, 7, 14, 9, 0, 0)),
	}
	pair := d.Derive(ctx, req, models.Resolution{})

	assert.Equal(t, models.ComparisonModeOverride, pair.Mode)
	assert.Equal(t, 1, pair.Primary.Range.Days())
}

func TestShiftYears(t *testing.T) {
	tests := []struct {
		name  string
		in    time.Time
		years int
		want  time.Time
	}{
		{"back one", at(2024, 3, 15, 0, 0, 0), -1, at(2023, 3, 15, 0, 0, 0)},
		{"leap to non leap", at(2024, 2, 29, 0, 0, 0), -1, at(2023, 2, 28, 0, 0, 0)},
		{"leap to leap", at(2024, 2, 29, 0, 0, 0), -4, at(2020, 2, 29, 0, 0, 0)},
		{"forward", at(2023, 12, 31, 23, 59, 59), 2, at(2025, 12, 31, 23, 59, 59)},
		{"zero", at(2024, 1, 1, 0, 0, 0), 0, at(2024, 1, 1, 0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShiftYears(tt.in, tt.years))
		})
	}
}
