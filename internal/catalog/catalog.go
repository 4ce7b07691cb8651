// Package catalog provides the read-only period catalog the resolver looks
// definitions up in: Postgres (optionally with RDS IAM auth), sqlite, or an
// in-memory table loaded from a YAML seed file, optionally behind a
// read-through lookup memo.
package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"go-report-cache/internal/config"
	"go-report-cache/internal/interfaces"
)

// Catalog is a PeriodCatalog owning resources that must be released
type Catalog interface {
	interfaces.PeriodCatalog
	Close() error
}

// New builds the catalog selected by cfg.Driver
func New(ctx context.Context, cfg *config.CatalogConfig, logger *zap.Logger) (Catalog, error) {
	var (
		c   Catalog
		err error
	)

	switch cfg.Driver {
	case "postgres":
		c, err = NewPostgresCatalog(ctx, cfg, logger)
	case "sqlite":
		c, err = newSeededSQLite(ctx, cfg, logger)
	case "memory", "":
		c, err = newSeededMemory(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown catalog driver '%s'", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if !cfg.LookupCache.Enabled {
		return c, nil
	}

	rt, err := NewReadThrough(c, &cfg.LookupCache, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create catalog lookup cache: %w", err)
	}
	logger.Info("Catalog lookup cache enabled", zap.Duration("life_window", cfg.LookupCache.LifeWindow))
	return rt, nil
}

func newSeededMemory(cfg *config.CatalogConfig, logger *zap.Logger) (*MemoryCatalog, error) {
	if cfg.SeedFile == "" {
		logger.Warn("Memory catalog has no seed file, every lookup will fall back to the full year")
		return NewMemoryCatalog(nil), nil
	}

	defs, err := LoadSeedFile(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded period catalog seed", zap.String("file", cfg.SeedFile), zap.Int("periods", len(defs)))
	return NewMemoryCatalog(defs), nil
}

// newSeededSQLite opens the sqlite catalog and, when a seed file is
// configured and the table is empty, loads the seed into it
func newSeededSQLite(ctx context.Context, cfg *config.CatalogConfig, logger *zap.Logger) (*SQLCatalog, error) {
	c, err := NewSQLiteCatalog(cfg.DSN, cfg.Table, cfg.QueryTimeout, logger)
	if err != nil {
		return nil, err
	}
	if cfg.SeedFile == "" {
		return c, nil
	}

	var count int
	if err := c.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", c.table)).Scan(&count); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to count catalog rows: %w", err)
	}
	if count > 0 {
		return c, nil
	}

	defs, err := LoadSeedFile(cfg.SeedFile)
	if err != nil {
		c.Close()
		return nil, err
	}
	if err := c.Insert(ctx, defs...); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}
