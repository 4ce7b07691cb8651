package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"go-report-cache/internal/config"
	"go-report-cache/internal/models"
)

func newTestSQLite(t *testing.T) *SQLCatalog {
	c, err := NewSQLiteCatalog(filepath.Join(t.TempDir(), "catalog.db"), "periods", 5*time.Second, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Insert(context.Background(), testDefinitions()...))
	return c
}

func TestSQLiteCatalog_Lookups(t *testing.T) {
	ctx := context.Background()
	c := newTestSQLite(t)

	def, err := c.FindByCode(ctx, "HIV", 2024)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "Vacances d'hiver", def.Name)
	assert.Equal(t, 2024, def.Year)
	assert.Equal(t, "2024-02-10", def.Start.Format("2006-01-02"))
	assert.Equal(t, "2024-03-10", def.End.Format("2006-01-02"))

	def, err = c.FindByCode(ctx, "hiv", 2024)
	require.NoError(t, err)
	assert.Nil(t, def)

	def, err = c.FindByNameFold(ctx, "vacances D'HIVER", 2023)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, 2023, def.Year)

	def, err = c.FindByNameFold(ctx, "ÉTÉ", 2024)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "ETE", def.Code)

	def, err = c.FindNormalized(ctx, "pont mai", 2024)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "pont_mai", def.Code)

	def, err = c.FindNameContaining(ctx, "noel", 2024)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "NOEL", def.Code)

	def, err = c.FindNameContaining(ctx, "paques", 2024)
	require.NoError(t, err)
	assert.Nil(t, def)
}

func TestSQLiteCatalog_DuplicateOrdering(t *testing.T) {
	ctx := context.Background()
	c := newTestSQLite(t)

	require.NoError(t, c.Insert(ctx, models.PeriodDefinition{
		Code: "HIV", Name: "Hiver (zone C)", Year: 2024, Start: date(2024, 2, 3), End: date(2024, 3, 3),
	}))

	def, err := c.FindByCode(ctx, "HIV", 2024)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "Hiver (zone C)", def.Name, "earliest start wins")
}

func TestSQLiteCatalog_ClosedDatabaseErrors(t *testing.T) {
	c := newTestSQLite(t)
	require.NoError(t, c.db.Close())

	_, err := c.FindByCode(context.Background(), "HIV", 2024)
	assert.Error(t, err)

	_, err = c.FindNormalized(context.Background(), "hiver", 2024)
	assert.Error(t, err)
}

func TestSQLiteCatalog_InvalidTableName(t *testing.T) {
	_, err := NewSQLiteCatalog(filepath.Join(t.TempDir(), "catalog.db"), "periods; DROP TABLE x", time.Second, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestDialectRebind(t *testing.T) {
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", postgresDialect.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))
	assert.Equal(t, "SELECT * FROM t WHERE a = ?", sqliteDialect.rebind("SELECT * FROM t WHERE a = ?"))
}

func TestNew_Drivers(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)
	dir := t.TempDir()
	seed := filepath.Join(dir, "periods.yaml")
	require.NoError(t, os.WriteFile(seed, []byte("periods:\n  - code: HIV\n    name: Vacances d'hiver\n    year: 2024\n    start: 2024-02-10\n    end: 2024-03-10\n"), 0644))

	t.Run("memory with lookup cache", func(t *testing.T) {
		cfg := &config.CatalogConfig{
			Driver:      "memory",
			SeedFile:    seed,
			LookupCache: config.LookupCacheConfig{Enabled: true, LifeWindow: time.Minute, Size: 1},
		}
		c, err := New(ctx, cfg, logger)
		require.NoError(t, err)
		defer c.Close()

		assert.IsType(t, &ReadThrough{}, c)
		def, err := c.FindByCode(ctx, "HIV", 2024)
		require.NoError(t, err)
		require.NotNil(t, def)
	})

	t.Run("memory without seed", func(t *testing.T) {
		c, err := New(ctx, &config.CatalogConfig{Driver: "memory"}, logger)
		require.NoError(t, err)
		defer c.Close()

		def, err := c.FindByCode(ctx, "HIV", 2024)
		require.NoError(t, err)
		assert.Nil(t, def)
	})

	t.Run("sqlite seeded once", func(t *testing.T) {
		cfg := &config.CatalogConfig{
			Driver:       "sqlite",
			DSN:          filepath.Join(dir, "catalog.db"),
			Table:        "periods",
			SeedFile:     seed,
			QueryTimeout: time.Second,
		}
		for i := 0; i < 2; i++ {
			c, err := New(ctx, cfg, logger)
			require.NoError(t, err)

			sqlCatalog := c.(*SQLCatalog)
			var count int
			require.NoError(t, sqlCatalog.DB().QueryRow("SELECT COUNT(*) FROM periods").Scan(&count))
			assert.Equal(t, 1, count)
			require.NoError(t, c.Close())
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := New(ctx, &config.CatalogConfig{Driver: "oracle"}, logger)
		assert.Error(t, err)
	})
}
