package period

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"go-report-cache/internal/catalog"
	"go-report-cache/internal/interfaces/mock"
	"go-report-cache/internal/models"
)

func at(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC)
}

func testCatalog() *catalog.MemoryCatalog {
	return catalog.NewMemoryCatalog([]models.PeriodDefinition{
		// stored with arbitrary times of day
		{Code: "HIV", Name: "Vacances d'hiver", Year: 2024, Start: at(2024, 2, 10, 14, 30, 0), End: at(2024, 3, 10, 8, 0, 0)},
		{Code: "HIV", Name: "Vacances d'hiver", Year: 2023, Start: at(2023, 2, 4, 0, 0, 0), End: at(2023, 3, 5, 0, 0, 0)},
		{Code: "PM", Name: "Pont Mai", Year: 2024, Start: at(2024, 5, 8, 0, 0, 0), End: at(2024, 5, 12, 0, 0, 0)},
		{Code: "ASC24", Name: "Week-end de l'Ascension", Year: 2024, Start: at(2024, 5, 9, 0, 0, 0), End: at(2024, 5, 12, 0, 0, 0)},
		{Code: "NOEL", Name: "Vacances de Noël 2024", Year: 2024, Start: at(2024, 12, 21, 0, 0, 0), End: at(2025, 1, 5, 0, 0, 0)},
	})
}

func newTestResolver(t *testing.T) *Resolver {
	return NewResolver(testCatalog(), time.UTC, zaptest.NewLogger(t))
}

func TestResolver_CatalogExactness(t *testing.T) {
	ctx := context.Background()
	r := newTestResolver(t)
	want := models.ResolvedRange{
		Start: at(2024, 2, 10, 0, 0, 0),
		End:   at(2024, 3, 10, 23, 59, 59),
	}

	byCode := r.Resolve(ctx, 2024, "HIV")
	byName := r.Resolve(ctx, 2024, "Vacances d'hiver")
	byNameFold := r.Resolve(ctx, 2024, "VACANCES D'HIVER")

	assert.Equal(t, want, byCode.Range)
	assert.Equal(t, models.TierCode, byCode.Tier)
	assert.Equal(t, want, byName.Range)
	assert.Equal(t, models.TierName, byName.Tier)
	assert.Equal(t, want, byNameFold.Range)
	assert.False(t, byCode.WasFallback)
	require.NotNil(t, byCode.Definition)
	assert.Equal(t, "HIV", byCode.Definition.Code)
}

func TestResolver_NormalizationIdempotence(t *testing.T) {
	ctx := context.Background()
	r := newTestResolver(t)

	want := r.Resolve(ctx, 2024, "Pont_Mai")
	require.False(t, want.WasFallback)
	assert.Equal(t, models.ResolvedRange{Start: at(2024, 5, 8, 0, 0, 0), End: at(2024, 5, 12, 23, 59, 59)}, want.Range)

	for _, descriptor := range []string{"pont-mai", "PONT MAI", "  pont__mai "} {
		got := r.Resolve(ctx, 2024, descriptor)
		assert.Equal(t, want.Range, got.Range, descriptor)
	}
}

func TestResolver_FallbackTotality(t *testing.T) {
	ctx := context.Background()
	r := newTestResolver(t)

	tests := []struct {
		year       int
		descriptor string
	}{
		{2024, "inconnu"},
		{2024, ""},
		{2019, "HIV"},
		{1999, "custom"},
		{2024, "octobre"},
	}

	for _, tt := range tests {
		t.Run(tt.descriptor, func(t *testing.T) {
			got := r.Resolve(ctx, tt.year, tt.descriptor)
			assert.True(t, got.WasFallback)
			assert.Equal(t, models.TierFallback, got.Tier)
			assert.Nil(t, got.Definition)
			assert.Equal(t, models.ResolvedRange{
				Start: at(tt.year, 1, 1, 0, 0, 0),
				End:   at(tt.year, 12, 31, 23, 59, 59),
			}, got.Range)
		})
	}
}

func TestResolver_FullYearAliasBypassesCatalog(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalogMock := mock.NewMockPeriodCatalog(ctrl)
	r := NewResolver(catalogMock, nil, zaptest.NewLogger(t))

	for _, descriptor := range []string{"annee_complete", "Année complète", "ANNEE"} {
		got := r.Resolve(context.Background(), 2024, descriptor)
		assert.Equal(t, models.TierAlias, got.Tier, descriptor)
		assert.False(t, got.WasFallback)
		assert.Equal(t, FullYear(2024, time.UTC), got.Range)
	}
}

func TestResolver_HeuristicSubstring(t *testing.T) {
	ctx := context.Background()
	r := newTestResolver(t)

	got := r.Resolve(ctx, 2024, "vacances de noel")
	assert.Equal(t, models.TierHeuristic, got.Tier)
	assert.Equal(t, "NOEL", got.Definition.Code)
	assert.Equal(t, at(2025, 1, 5, 23, 59, 59), got.Range.End)

	got = r.Resolve(ctx, 2024, "ascension")
	assert.Equal(t, models.TierHeuristic, got.Tier)
	assert.Equal(t, "ASC24", got.Definition.Code)

	// only alias classes get the substring tier
	got = r.Resolve(ctx, 2024, "vacances d")
	assert.True(t, got.WasFallback)
}

func TestResolver_CatalogErrorsDegradeToFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalogMock := mock.NewMockPeriodCatalog(ctrl)
	r := NewResolver(catalogMock, time.UTC, zaptest.NewLogger(t))
	dbErr := errors.New("connection refused")

	catalogMock.EXPECT().FindByCode(gomock.Any(), "hiver", 2024).Return(nil, dbErr)
	catalogMock.EXPECT().FindByNameFold(gomock.Any(), "hiver", 2024).Return(nil, dbErr)
	catalogMock.EXPECT().FindNormalized(gomock.Any(), "hiver", 2024).Return(nil, dbErr)
	catalogMock.EXPECT().FindNameContaining(gomock.Any(), "hiver", 2024).Return(nil, dbErr)

	got := r.Resolve(context.Background(), 2024, "hiver")
	assert.True(t, got.WasFallback)
	assert.Equal(t, FullYear(2024, time.UTC), got.Range)
}

func TestResolver_CatalogErrorOnOneTierContinues(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalogMock := mock.NewMockPeriodCatalog(ctrl)
	r := NewResolver(catalogMock, time.UTC, zaptest.NewLogger(t))
	def := &models.PeriodDefinition{Code: "HIV", Name: "Hiver", Year: 2024, Start: at(2024, 2, 10, 0, 0, 0), End: at(2024, 3, 10, 0, 0, 0)}

	gomock.InOrder(
		catalogMock.EXPECT().FindByCode(gomock.Any(), "Hiver", 2024).Return(nil, errors.New("timeout")),
		catalogMock.EXPECT().FindByNameFold(gomock.Any(), "Hiver", 2024).Return(def, nil),
	)

	got := r.Resolve(context.Background(), 2024, "Hiver")
	assert.False(t, got.WasFallback)
	assert.Equal(t, models.TierName, got.Tier)
}

func TestResolver_Location(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	r := NewResolver(testCatalog(), paris, zaptest.NewLogger(t))

	got := r.Resolve(context.Background(), 2024, "HIV")
	assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, paris), got.Range.Start)
	assert.Equal(t, time.Date(2024, 3, 10, 23, 59, 59, 0, paris), got.Range.End)
	assert.Equal(t, paris, r.Location())
}

func TestDayRange(t *testing.T) {
	got := DayRange(at(2024, 6, 1, 17, 45, 12), at(2024, 6, 3, 0, 0, 1), time.UTC)
	assert.Equal(t, at(2024, 6, 1, 0, 0, 0), got.Start)
	assert.Equal(t, at(2024, 6, 3, 23, 59, 59), got.End)
	assert.Equal(t, 3, got.Days())
}
