package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config represents the main configuration structure
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Resolver    ResolverConfig    `yaml:"resolver"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	BigCache    BigCacheConfig    `yaml:"bigcache"`
	Store       StoreConfig       `yaml:"store"`
	MultiCache  MultiCacheConfig  `yaml:"multi_cache"`
	DailyPurge  DailyPurgeConfig  `yaml:"daily_purge"`
	Aggregation AggregationConfig `yaml:"aggregation"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	ListenAddr   string        `yaml:"listen_addr" validate:"required"`
	ReadTimeout  time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gt=0"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" validate:"gt=0"`
}

// ResolverConfig configures period resolution
type ResolverConfig struct {
	// Location is the IANA zone used for day boundaries
	Location string `yaml:"location" validate:"required"`
}

// CatalogConfig selects and configures the period catalog
type CatalogConfig struct {
	Driver       string            `yaml:"driver" validate:"oneof=postgres sqlite memory"`
	DSN          string            `yaml:"dsn" validate:"required_if=Driver sqlite"`
	Table        string            `yaml:"table" validate:"required"`
	SeedFile     string            `yaml:"seed_file"`
	QueryTimeout time.Duration     `yaml:"query_timeout" validate:"gt=0"`
	LookupCache  LookupCacheConfig `yaml:"lookup_cache"`
	RDSIAM       RDSIAMConfig      `yaml:"rds_iam"`
}

// LookupCacheConfig configures the read-through catalog lookup cache
type LookupCacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	LifeWindow time.Duration `yaml:"life_window"`
	Size       int           `yaml:"size"` // Size in MB
}

// RDSIAMConfig enables IAM token authentication against an RDS Postgres catalog
type RDSIAMConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Profile  string `yaml:"profile"`
	Region   string `yaml:"region" validate:"required_if=Enabled true"`
	Endpoint string `yaml:"endpoint" validate:"required_if=Enabled true"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user" validate:"required_if=Enabled true"`
	Database string `yaml:"database" validate:"required_if=Enabled true"`
}

// BigCacheConfig configures the L1 in-memory cache
type BigCacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Size       int           `yaml:"size"` // Size in MB
	LifeWindow time.Duration `yaml:"life_window"`
}

// StoreConfig selects the durable L2 backend
type StoreConfig struct {
	Backend    string           `yaml:"backend" validate:"oneof=filesystem keydb s3 badger none"`
	Filesystem FilesystemConfig `yaml:"filesystem"`
	KeyDB      KeyDBConfig      `yaml:"keydb"`
	S3         S3Config         `yaml:"s3"`
	Badger     BadgerConfig     `yaml:"badger"`
}

// FilesystemConfig configures the on-disk JSON backend
type FilesystemConfig struct {
	Root string `yaml:"root"`
}

// KeyDBConfig configures the KeyDB/Redis backend
type KeyDBConfig struct {
	Namespace  string          `yaml:"namespace"`
	Connection ConnectionConfig `yaml:"connection"`
	Keepalive  KeepaliveConfig  `yaml:"keepalive"`
}

// ConnectionConfig holds KeyDB timeouts
type ConnectionConfig struct {
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	SendTimeout    time.Duration `yaml:"send_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
}

// KeepaliveConfig holds KeyDB pool settings
type KeepaliveConfig struct {
	PoolSize       int           `yaml:"pool_size"`
	MaxIdleTimeout time.Duration `yaml:"max_idle_timeout"`
}

// S3Config configures the object-store backend
type S3Config struct {
	Bucket  string        `yaml:"bucket"`
	Prefix  string        `yaml:"prefix"`
	Region  string        `yaml:"region"`
	Profile string        `yaml:"profile"`
	Timeout time.Duration `yaml:"timeout"`
}

// BadgerConfig configures the embedded badger backend
type BadgerConfig struct {
	Dir      string `yaml:"dir"`
	InMemory bool   `yaml:"in_memory"`
}

// MultiCacheConfig configures the L1/L2 composition
type MultiCacheConfig struct {
	EnablePropagation bool `yaml:"enable_propagation"`
}

// DailyPurgeConfig configures the scheduled current-year purge
type DailyPurgeConfig struct {
	Enabled  bool   `yaml:"enabled"`
	At       string `yaml:"at" validate:"required,datetime=15:04"`
	Location string `yaml:"location" validate:"required"`
}

// AggregationConfig configures the upstream aggregation service
type AggregationConfig struct {
	URL     string        `yaml:"url" validate:"omitempty,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

var validate = validator.New()

// LoadConfig loads configuration from file path
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration", zap.String("path", configPath))

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var config Config
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	config.applyEnv()

	// Apply defaults
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Validate checks the configuration with struct tags and cross-field rules
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := time.LoadLocation(c.Resolver.Location); err != nil {
		return fmt.Errorf("invalid resolver location %q: %w", c.Resolver.Location, err)
	}
	if _, err := time.LoadLocation(c.DailyPurge.Location); err != nil {
		return fmt.Errorf("invalid daily purge location %q: %w", c.DailyPurge.Location, err)
	}
	if c.Store.Backend == "s3" && c.Store.S3.Bucket == "" {
		return fmt.Errorf("invalid configuration: store.s3.bucket is required for the s3 backend")
	}
	if c.Catalog.Driver == "postgres" && c.Catalog.DSN == "" && !c.Catalog.RDSIAM.Enabled {
		return fmt.Errorf("invalid configuration: catalog.dsn or catalog.rds_iam is required for the postgres driver")
	}
	return nil
}

// applyEnv lets deployments set the catalog secret and the listener without
// editing the config file
func (c *Config) applyEnv() {
	if v := os.Getenv("CATALOG_DSN"); v != "" {
		c.Catalog.DSN = v
	}
	if v := os.Getenv("REPORT_CACHE_LISTEN_ADDR"); v != "" {
		c.Server.ListenAddr = v
	}
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 120 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}

	if c.Resolver.Location == "" {
		c.Resolver.Location = "UTC"
	}

	if c.Catalog.Driver == "" {
		c.Catalog.Driver = "memory"
	}
	if c.Catalog.Table == "" {
		c.Catalog.Table = "periods"
	}
	if c.Catalog.QueryTimeout == 0 {
		c.Catalog.QueryTimeout = 5 * time.Second
	}
	if c.Catalog.LookupCache.LifeWindow == 0 {
		c.Catalog.LookupCache.LifeWindow = 10 * time.Minute
	}
	if c.Catalog.LookupCache.Size == 0 {
		c.Catalog.LookupCache.Size = 16
	}
	if c.Catalog.RDSIAM.Port == 0 {
		c.Catalog.RDSIAM.Port = 5432
	}

	if c.BigCache.Size == 0 {
		c.BigCache.Size = 64
	}
	if c.BigCache.LifeWindow == 0 {
		c.BigCache.LifeWindow = 24 * time.Hour
	}

	if c.Store.Backend == "" {
		c.Store.Backend = "filesystem"
	}
	if c.Store.Filesystem.Root == "" {
		c.Store.Filesystem.Root = "/var/cache/report-cache"
	}
	c.Store.KeyDB.applyDefaults()
	if c.Store.S3.Prefix == "" {
		c.Store.S3.Prefix = "report-cache"
	}
	if c.Store.S3.Timeout == 0 {
		c.Store.S3.Timeout = 10 * time.Second
	}
	if c.Store.Badger.Dir == "" {
		c.Store.Badger.Dir = "/var/cache/report-cache-badger"
	}

	if c.DailyPurge.At == "" {
		c.DailyPurge.At = "03:00"
	}
	if c.DailyPurge.Location == "" {
		c.DailyPurge.Location = c.Resolver.Location
	}

	if c.Aggregation.Timeout == 0 {
		c.Aggregation.Timeout = 60 * time.Second
	}
}

func (k *KeyDBConfig) applyDefaults() {
	if k.Namespace == "" {
		k.Namespace = "report-cache"
	}
	if k.Connection.ConnectTimeout == 0 {
		k.Connection.ConnectTimeout = 2 * time.Second
	}
	if k.Connection.SendTimeout == 0 {
		k.Connection.SendTimeout = 2 * time.Second
	}
	if k.Connection.ReadTimeout == 0 {
		k.Connection.ReadTimeout = 2 * time.Second
	}
	if k.Keepalive.PoolSize == 0 {
		k.Keepalive.PoolSize = 10
	}
	if k.Keepalive.MaxIdleTimeout == 0 {
		k.Keepalive.MaxIdleTimeout = 30 * time.Second
	}
}

// GetReadTimeout returns the KeyDB read timeout
func (k *KeyDBConfig) GetReadTimeout() time.Duration {
	return k.Connection.ReadTimeout
}

// GetSendTimeout returns the KeyDB send timeout
func (k *KeyDBConfig) GetSendTimeout() time.Duration {
	return k.Connection.SendTimeout
}
