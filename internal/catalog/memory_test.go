package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-report-cache/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testDefinitions() []models.PeriodDefinition {
	return []models.PeriodDefinition{
		{Code: "HIV", Name: "Vacances d'hiver", Year: 2024, Start: date(2024, 2, 10), End: date(2024, 3, 10)},
		{Code: "HIV", Name: "Vacances d'hiver", Year: 2023, Start: date(2023, 2, 4), End: date(2023, 3, 5)},
		{Code: "pont_mai", Name: "Pont de l'Ascension", Year: 2024, Start: date(2024, 5, 8), End: date(2024, 5, 12)},
		{Code: "ETE", Name: "Été", Year: 2024, Start: date(2024, 7, 6), End: date(2024, 9, 1)},
		{Code: "NOEL", Name: "Vacances de Noël", Year: 2024, Start: date(2024, 12, 21), End: date(2025, 1, 5)},
	}
}

func TestMemoryCatalog_Lookups(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCatalog(testDefinitions())

	tests := []struct {
		name     string
		find     func() (*models.PeriodDefinition, error)
		wantCode string
	}{
		{"code exact", func() (*models.PeriodDefinition, error) { return c.FindByCode(ctx, "HIV", 2024) }, "HIV"},
		{"code is case sensitive", func() (*models.PeriodDefinition, error) { return c.FindByCode(ctx, "hiv", 2024) }, ""},
		{"code wrong year", func() (*models.PeriodDefinition, error) { return c.FindByCode(ctx, "HIV", 2022) }, ""},
		{"name fold", func() (*models.PeriodDefinition, error) { return c.FindByNameFold(ctx, "VACANCES D'HIVER", 2024) }, "HIV"},
		{"name fold unicode", func() (*models.PeriodDefinition, error) { return c.FindByNameFold(ctx, "ÉTÉ", 2024) }, "ETE"},
		{"normalized code", func() (*models.PeriodDefinition, error) { return c.FindNormalized(ctx, "PONT-MAI", 2024) }, "pont_mai"},
		{"normalized name without accents", func() (*models.PeriodDefinition, error) { return c.FindNormalized(ctx, "ete", 2024) }, "ETE"},
		{"containing", func() (*models.PeriodDefinition, error) { return c.FindNameContaining(ctx, "noel", 2024) }, "NOEL"},
		{"containing empty token", func() (*models.PeriodDefinition, error) { return c.FindNameContaining(ctx, "", 2024) }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := tt.find()
			require.NoError(t, err)
			if tt.wantCode == "" {
				assert.Nil(t, def)
				return
			}
			require.NotNil(t, def)
			assert.Equal(t, tt.wantCode, def.Code)
		})
	}
}

func TestMemoryCatalog_DuplicatesResolveDeterministically(t *testing.T) {
	ctx := context.Background()
	defs := []models.PeriodDefinition{
		{Code: "B", Name: "Vacances", Year: 2024, Start: date(2024, 7, 1), End: date(2024, 7, 31)},
		{Code: "A", Name: "Vacances", Year: 2024, Start: date(2024, 7, 1), End: date(2024, 8, 31)},
		{Code: "C", Name: "Vacances", Year: 2024, Start: date(2024, 2, 1), End: date(2024, 2, 28)},
	}

	for i := 0; i < 3; i++ {
		c := NewMemoryCatalog(defs)
		def, err := c.FindByNameFold(ctx, "vacances", 2024)
		require.NoError(t, err)
		require.NotNil(t, def)
		assert.Equal(t, "C", def.Code)

		defs = append(defs[1:], defs[0])
	}

	c := NewMemoryCatalog(defs[:2])
	def, err := c.FindNormalized(ctx, "vacances", 2024)
	require.NoError(t, err)
	assert.Equal(t, "A", def.Code)
}

func TestMemoryCatalog_ReturnsCopies(t *testing.T) {
	c := NewMemoryCatalog(testDefinitions())

	def, err := c.FindByCode(context.Background(), "HIV", 2024)
	require.NoError(t, err)
	def.Code = "changed"

	again, err := c.FindByCode(context.Background(), "HIV", 2024)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, "HIV", again.Code)
}

func TestParseSeed(t *testing.T) {
	defs, err := ParseSeed([]byte(`
periods:
  - code: HIV
    name: Vacances d'hiver
    year: 2024
    start: 2024-02-10
    end: 2024-03-10
  - code: NOEL
    name: Vacances de Noël
    start: "2023-12-23"
    end: "2024-01-07"
`))
	require.NoError(t, err)
	require.Len(t, defs, 2)

	assert.Equal(t, models.PeriodDefinition{
		Code: "HIV", Name: "Vacances d'hiver", Year: 2024,
		Start: date(2024, 2, 10), End: date(2024, 3, 10),
	}, defs[0])
	assert.Equal(t, 2023, defs[1].Year, "year defaults to the start year")
}

func TestParseSeed_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "periods: [\n"},
		{"missing code and name", "periods:\n  - start: 2024-01-01\n    end: 2024-01-02\n"},
		{"bad date", "periods:\n  - code: X\n    start: 01/02/2024\n    end: 2024-01-02\n"},
		{"inverted", "periods:\n  - code: X\n    start: 2024-02-01\n    end: 2024-01-02\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeed([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "periods.yaml")
	require.NoError(t, os.WriteFile(path, []byte("periods:\n  - code: HIV\n    name: Hiver\n    start: 2024-02-10\n    end: 2024-03-10\n"), 0644))

	defs, err := LoadSeedFile(path)
	require.NoError(t, err)
	assert.Len(t, defs, 1)

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadSeedFile_ShippedSeed(t *testing.T) {
	defs, err := LoadSeedFile(filepath.Join("..", "..", "configs", "periods.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, defs)

	c := NewMemoryCatalog(defs)
	def, err := c.FindNameContaining(context.Background(), "noel", 2024)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "NOEL", def.Code)
	assert.Equal(t, date(2025, 1, 5), def.End)
}

func TestMemoryCatalog_ContainingMatchesWholeWords(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCatalog([]models.PeriodDefinition{
		{Code: "S12", Name: "Semaine 12", Year: 2024, Start: date(2024, 3, 18), End: date(2024, 3, 24)},
		{Code: "PMAI", Name: "Pont du 1er mai", Year: 2024, Start: date(2024, 5, 1), End: date(2024, 5, 5)},
		{Code: "ASC", Name: "Week-end de l'Ascension", Year: 2024, Start: date(2024, 5, 9), End: date(2024, 5, 12)},
	})

	def, err := c.FindNameContaining(ctx, "mai", 2024)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "PMAI", def.Code)

	def, err = c.FindNameContaining(ctx, "ascension", 2024)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "ASC", def.Code)

	def, err = c.FindNameContaining(ctx, "week end", 2024)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "ASC", def.Code)

	for _, token := range []string{"sem", "maine", "scen"} {
		def, err = c.FindNameContaining(ctx, token, 2024)
		require.NoError(t, err)
		assert.Nil(t, def, "token %q", token)
	}
}
