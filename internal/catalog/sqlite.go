package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// NewSQLiteCatalog opens the sqlite database at path and creates the
// catalog table when missing
func NewSQLiteCatalog(path, table string, timeout time.Duration, logger *zap.Logger) (*SQLCatalog, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	c, err := newSQLCatalog(db, sqliteDialect, table, timeout, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	if err := c.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Opened sqlite period catalog", zap.String("path", path), zap.String("table", table))
	return c, nil
}

// migrate creates the catalog schema
func (c *SQLCatalog) migrate(ctx context.Context) error {
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %[1]s (
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		year INTEGER NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_%[1]s_year_code ON %[1]s(year, code);
	`, c.table)

	_, err := c.db.ExecContext(ctx, schema)
	return err
}
