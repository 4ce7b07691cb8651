package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/models"
)

// Ensure SQLCatalog implements interfaces.PeriodCatalog
var _ interfaces.PeriodCatalog = (*SQLCatalog)(nil)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// dialect captures the few differences between the supported SQL drivers
type dialect struct {
	name        string
	placeholder func(n int) string
}

var (
	postgresDialect = dialect{name: "postgres", placeholder: func(n int) string { return "$" + strconv.Itoa(n) }}
	sqliteDialect   = dialect{name: "sqlite3", placeholder: func(int) string { return "?" }}
)

// rebind rewrites '?' placeholders into the dialect's form
func (d dialect) rebind(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(d.placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SQLCatalog reads period definitions from a table
//
//	(code TEXT, name TEXT, year INTEGER, start_date DATE, end_date DATE)
//
// Exact lookups are done in SQL. Normalized and substring lookups need the
// accent folding of utils.NormalizeLabel, so they load the rows of the year
// and match in Go.
type SQLCatalog struct {
	db      *sql.DB
	dialect dialect
	table   string
	timeout time.Duration
	logger  *zap.Logger
}

func newSQLCatalog(db *sql.DB, d dialect, table string, timeout time.Duration, logger *zap.Logger) (*SQLCatalog, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid catalog table name '%s'", table)
	}
	return &SQLCatalog{
		db:      db,
		dialect: d,
		table:   table,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// DB returns the underlying connection pool
func (c *SQLCatalog) DB() *sql.DB {
	return c.db
}

func (c *SQLCatalog) columns() string {
	return "code, name, year, start_date, end_date"
}

func (c *SQLCatalog) orderBy() string {
	return "ORDER BY start_date, code, name"
}

func (c *SQLCatalog) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// queryOne returns the first row of query or nil when there is none
func (c *SQLCatalog) queryOne(ctx context.Context, query string, args ...interface{}) (*models.PeriodDefinition, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	row := c.db.QueryRowContext(ctx, c.dialect.rebind(query), args...)

	var def models.PeriodDefinition
	if err := row.Scan(&def.Code, &def.Name, &def.Year, &def.Start, &def.End); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query period catalog: %w", err)
	}
	return &def, nil
}

// yearRows loads every row of year in lookup order
func (c *SQLCatalog) yearRows(ctx context.Context, year int) ([]models.PeriodDefinition, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf("SELECT %s FROM %s WHERE year = ? %s", c.columns(), c.table, c.orderBy())
	rows, err := c.db.QueryContext(ctx, c.dialect.rebind(query), year)
	if err != nil {
		return nil, fmt.Errorf("failed to query period catalog: %w", err)
	}
	defer rows.Close()

	var defs []models.PeriodDefinition
	for rows.Next() {
		var def models.PeriodDefinition
		if err := rows.Scan(&def.Code, &def.Name, &def.Year, &def.Start, &def.End); err != nil {
			return nil, fmt.Errorf("failed to scan period row: %w", err)
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read period rows: %w", err)
	}
	return defs, nil
}

func (c *SQLCatalog) FindByCode(ctx context.Context, code string, year int) (*models.PeriodDefinition, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE code = ? AND year = ? %s LIMIT 1", c.columns(), c.table, c.orderBy())
	return c.queryOne(ctx, query, code, year)
}

func (c *SQLCatalog) FindByNameFold(ctx context.Context, name string, year int) (*models.PeriodDefinition, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE LOWER(name) = LOWER(?) AND year = ? %s LIMIT 1", c.columns(), c.table, c.orderBy())
	def, err := c.queryOne(ctx, query, name, year)
	if err != nil || def != nil {
		return def, err
	}

	// LOWER is ASCII-only in sqlite; retry non-ASCII names with Unicode folding
	if !isASCII(name) {
		defs, err := c.yearRows(ctx, year)
		if err != nil {
			return nil, err
		}
		return first(defs, year, nameFoldMatcher(name)), nil
	}
	return nil, nil
}

func (c *SQLCatalog) FindNormalized(ctx context.Context, label string, year int) (*models.PeriodDefinition, error) {
	defs, err := c.yearRows(ctx, year)
	if err != nil {
		return nil, err
	}
	return first(defs, year, normalizedMatcher(label)), nil
}

func (c *SQLCatalog) FindNameContaining(ctx context.Context, token string, year int) (*models.PeriodDefinition, error) {
	defs, err := c.yearRows(ctx, year)
	if err != nil {
		return nil, err
	}
	return first(defs, year, containingMatcher(token)), nil
}

// Insert adds definitions in one transaction
func (c *SQLCatalog) Insert(ctx context.Context, defs ...models.PeriodDefinition) error {
	if len(defs) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?)", c.table, c.columns())
	stmt, err := tx.PrepareContext(ctx, c.dialect.rebind(query))
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, def := range defs {
		if _, err := stmt.ExecContext(ctx, def.Code, def.Name, def.Year, def.Start, def.End); err != nil {
			return fmt.Errorf("failed to insert period %s/%d: %w", def.Code, def.Year, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	c.logger.Info("Inserted catalog periods", zap.Int("count", len(defs)), zap.String("table", c.table))
	return nil
}

// Close closes the connection pool
func (c *SQLCatalog) Close() error {
	return c.db.Close()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
