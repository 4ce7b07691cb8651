package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	rdsutils "github.com/aws/aws-sdk-go-v2/feature/rds/auth"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"go-report-cache/internal/config"
)

// NewPostgresCatalog connects to the Postgres catalog described by cfg.
// With rds_iam enabled the password is a short-lived IAM token built from
// the default AWS credential chain; otherwise cfg.DSN is used as is.
func NewPostgresCatalog(ctx context.Context, cfg *config.CatalogConfig, logger *zap.Logger) (*SQLCatalog, error) {
	dsn := cfg.DSN
	if cfg.RDSIAM.Enabled {
		var err error
		dsn, err = rdsIAMConnString(ctx, &cfg.RDSIAM)
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.QueryTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping catalog database: %w", err)
	}

	c, err := newSQLCatalog(db, postgresDialect, cfg.Table, cfg.QueryTimeout, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Connected to postgres period catalog",
		zap.String("table", cfg.Table),
		zap.Bool("rds_iam", cfg.RDSIAM.Enabled))
	return c, nil
}

// rdsIAMConnString builds a connection string whose password is an RDS IAM
// auth token. Building the token is local; no AWS API call is made.
func rdsIAMConnString(ctx context.Context, cfg *config.RDSIAMConfig) (string, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to load AWS config for RDS: %w", err)
	}

	endpoint := fmt.Sprintf("%s:%d", cfg.Endpoint, cfg.Port)
	token, err := rdsutils.BuildAuthToken(ctx, endpoint, cfg.Region, cfg.User, awsCfg.Credentials)
	if err != nil {
		return "", fmt.Errorf("failed to create authentication token: %w", err)
	}

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=require",
		url.QueryEscape(cfg.User),
		url.QueryEscape(token),
		endpoint,
		url.QueryEscape(cfg.Database),
	), nil
}
