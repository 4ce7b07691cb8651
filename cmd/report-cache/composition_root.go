package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"go-report-cache/internal/aggregation"
	"go-report-cache/internal/cache/badgerstore"
	"go-report-cache/internal/cache/fs"
	"go-report-cache/internal/cache/l1"
	"go-report-cache/internal/cache/l2"
	"go-report-cache/internal/cache/noop"
	"go-report-cache/internal/cache/s3store"
	"go-report-cache/internal/cache/service"
	"go-report-cache/internal/cache_rules"
	"go-report-cache/internal/catalog"
	"go-report-cache/internal/config"
	"go-report-cache/internal/httpserver"
	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/period"
	"go-report-cache/internal/report"
	"go-report-cache/internal/scheduler"
	"go-report-cache/internal/zone"
)

// metricsInterval is how often cache usage gauges are refreshed
const metricsInterval = 30 * time.Second

// Options tells the composition root where to find its files
type Options struct {
	ConfigPath string
	RulesPath  string
	Debug      bool
}

// CompositionRoot holds all application dependencies and provides a centralized
// place for dependency injection and service initialization.
type CompositionRoot struct {
	// Configuration
	Config     *config.Config
	Logger     *zap.Logger
	CacheRules interfaces.CacheRulesClassifier
	Clock      clock.Clock

	// Period resolution
	Catalog  catalog.Catalog
	Resolver *period.Resolver
	Deriver  *period.ComparisonDeriver

	// Cache components
	L1Cache interfaces.Cache
	L2Cache interfaces.Cache

	// Services
	CacheService *service.CacheService
	Coordinator  *report.Coordinator
	HTTPServer   *httpserver.Server

	// Background jobs
	DailyPurge     *scheduler.Daily
	MetricsUpdater *scheduler.Scheduler
}

// NewCompositionRoot creates and initializes all application dependencies.
//
// Initialization order:
// 1. Logger (needed by all other components)
// 2. Configuration and cache rules
// 3. Period catalog, resolver and comparison deriver
// 4. Cache components (L1, durable L2)
// 5. Services (cache service, coordinator)
// 6. HTTP server and background jobs
func NewCompositionRoot(ctx context.Context, opts Options) (*CompositionRoot, error) {
	root := &CompositionRoot{Clock: clock.New()}

	if err := root.initLogger(opts.Debug); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := root.loadConfig(opts.ConfigPath); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := root.loadCacheRules(opts.RulesPath); err != nil {
		return nil, fmt.Errorf("failed to load cache rules: %w", err)
	}

	if err := root.initPeriods(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize period catalog: %w", err)
	}

	if err := root.initCacheComponents(ctx); err != nil {
		_ = root.Cleanup()
		return nil, fmt.Errorf("failed to initialize cache components: %w", err)
	}

	if err := root.initServices(); err != nil {
		_ = root.Cleanup()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := root.initJobs(); err != nil {
		_ = root.Cleanup()
		return nil, fmt.Errorf("failed to initialize background jobs: %w", err)
	}

	return root, nil
}

// initLogger initializes the application logger
func (r *CompositionRoot) initLogger(debug bool) error {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	r.Logger = logger
	return nil
}

// loadConfig loads the application configuration
func (r *CompositionRoot) loadConfig(path string) error {
	cfg, err := config.LoadConfig(GetConfigPath(path), r.Logger)
	if err != nil {
		return err
	}

	r.Config = cfg
	return nil
}

// loadCacheRules loads cache rules configuration
func (r *CompositionRoot) loadCacheRules(path string) error {
	cacheRules, err := cache_rules.LoadCacheRulesConfig(GetRulesPath(path), r.Logger)
	if err != nil {
		return err
	}

	r.CacheRules = cache_rules.NewClassifier(r.Logger, cacheRules)
	return nil
}

// initPeriods opens the catalog and builds the resolver chain
func (r *CompositionRoot) initPeriods(ctx context.Context) error {
	loc, err := time.LoadLocation(r.Config.Resolver.Location)
	if err != nil {
		return err
	}

	periodCatalog, err := catalog.New(ctx, &r.Config.Catalog, r.Logger)
	if err != nil {
		return err
	}
	r.Catalog = periodCatalog
	r.Logger.Info("Period catalog initialized",
		zap.String("driver", r.Config.Catalog.Driver),
		zap.Bool("lookup_cache", r.Config.Catalog.LookupCache.Enabled))

	r.Resolver = period.NewResolver(periodCatalog, loc, r.Logger)
	r.Deriver = period.NewComparisonDeriver(r.Resolver, r.Logger)
	return nil
}

// initCacheComponents initializes all cache-related components
func (r *CompositionRoot) initCacheComponents(ctx context.Context) error {
	if err := r.initL1Cache(); err != nil {
		return fmt.Errorf("failed to initialize L1 cache: %w", err)
	}

	if err := r.initL2Cache(ctx); err != nil {
		return fmt.Errorf("failed to initialize L2 cache: %w", err)
	}

	return nil
}

// initL1Cache initializes the L1 cache (BigCache)
func (r *CompositionRoot) initL1Cache() error {
	if r.Config.BigCache.Enabled {
		l1Cache, err := l1.NewBigCache(&r.Config.BigCache, r.Logger)
		if err != nil {
			return err
		}
		r.L1Cache = l1Cache
		r.Logger.Info("BigCache (L1) initialized", zap.Int("size_mb", r.Config.BigCache.Size))
	} else {
		r.L1Cache = noop.NewNoOpCache()
		r.Logger.Info("BigCache (L1) disabled")
	}
	return nil
}

// initL2Cache initializes the durable store selected by store.backend
func (r *CompositionRoot) initL2Cache(ctx context.Context) error {
	store := &r.Config.Store

	switch store.Backend {
	case "filesystem":
		fsCache, err := fs.NewFilesystemCache(store.Filesystem.Root, r.Logger)
		if err != nil {
			return err
		}
		r.L2Cache = fsCache
		r.Logger.Info("Filesystem store (L2) initialized", zap.String("root", store.Filesystem.Root))

	case "keydb":
		keydbURL := GetKeyDBURL(r.Logger)
		keydbClient, err := l2.NewRedisKeyDbClient(&store.KeyDB, keydbURL, r.Logger)
		if err != nil {
			r.Logger.Warn("Failed to connect to KeyDB, falling back to no L2 cache",
				zap.String("keydb_url", keydbURL),
				zap.Error(err))
			r.L2Cache = noop.NewNoOpCache()
			return nil
		}
		r.L2Cache = l2.NewKeyDBCache(&store.KeyDB, keydbClient, r.Logger)
		r.Logger.Info("KeyDB (L2) initialized", zap.String("keydb_url", keydbURL))

	case "s3":
		client, err := s3store.NewS3Client(ctx, &store.S3)
		if err != nil {
			return err
		}
		r.L2Cache = s3store.NewS3Cache(client, &store.S3, r.Logger)
		r.Logger.Info("S3 store (L2) initialized",
			zap.String("bucket", store.S3.Bucket),
			zap.String("prefix", store.S3.Prefix))

	case "badger":
		badgerCache, err := badgerstore.NewBadgerCache(&store.Badger, r.Logger)
		if err != nil {
			return err
		}
		r.L2Cache = badgerCache
		r.Logger.Info("Badger store (L2) initialized",
			zap.String("dir", store.Badger.Dir),
			zap.Bool("in_memory", store.Badger.InMemory))

	default:
		r.L2Cache = noop.NewNoOpCache()
		r.Logger.Info("Durable store (L2) disabled")
	}
	return nil
}

// initServices initializes application services
func (r *CompositionRoot) initServices() error {
	purgeLoc, err := time.LoadLocation(r.Config.DailyPurge.Location)
	if err != nil {
		return err
	}

	r.CacheService = service.NewCacheService(
		r.L1Cache,
		r.L2Cache,
		r.CacheRules,
		r.Config.MultiCache.EnablePropagation,
		r.Logger,
	).WithClock(r.Clock, purgeLoc)

	var aggregator interfaces.Aggregator = aggregation.Unavailable
	if r.Config.Aggregation.URL != "" {
		aggregator = aggregation.NewHTTPAggregator(&r.Config.Aggregation, r.Logger)
	} else {
		r.Logger.Warn("No aggregation URL configured, cache misses will fail")
	}

	r.Coordinator = report.NewCoordinator(
		r.Resolver,
		r.Deriver,
		r.CacheService,
		aggregator,
		zone.NewDefaultMapper(),
		r.Logger,
	)

	r.HTTPServer = httpserver.NewServer(r.Coordinator, r.CacheService, &r.Config.Server, r.Logger)
	return nil
}

// initJobs prepares the daily purge and the usage metrics refresher.
// They are started by StartJobs.
func (r *CompositionRoot) initJobs() error {
	if r.Config.DailyPurge.Enabled {
		loc, err := time.LoadLocation(r.Config.DailyPurge.Location)
		if err != nil {
			return err
		}
		daily, err := scheduler.NewDaily(r.Config.DailyPurge.At, loc, r.runDailyPurge, r.Clock, r.Logger)
		if err != nil {
			return err
		}
		r.DailyPurge = daily
	}

	r.MetricsUpdater = scheduler.NewWithClock(metricsInterval, r.CacheService.UpdateUsageMetrics, r.Clock)
	return nil
}

func (r *CompositionRoot) runDailyPurge() {
	if _, err := r.CacheService.RunDailyPurge(); err != nil {
		r.Logger.Error("Scheduled daily purge failed", zap.Error(err))
	}
}

// StartJobs starts the background jobs
func (r *CompositionRoot) StartJobs() {
	if r.DailyPurge != nil {
		r.DailyPurge.Start()
		r.Logger.Info("Daily purge scheduled",
			zap.String("at", r.Config.DailyPurge.At),
			zap.String("location", r.Config.DailyPurge.Location))
	}
	if r.MetricsUpdater != nil {
		r.MetricsUpdater.Start()
	}
}

// Cleanup performs cleanup of all resources
func (r *CompositionRoot) Cleanup() error {
	var errors []error

	if r.DailyPurge != nil {
		r.DailyPurge.Stop()
	}
	if r.MetricsUpdater != nil {
		r.MetricsUpdater.Stop()
	}

	// Close caches
	for name, c := range map[string]interfaces.Cache{"L1": r.L1Cache, "L2": r.L2Cache} {
		if closer, ok := c.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errors = append(errors, fmt.Errorf("failed to close %s cache: %w", name, err))
			}
		}
	}

	// Close catalog
	if r.Catalog != nil {
		if err := r.Catalog.Close(); err != nil {
			errors = append(errors, fmt.Errorf("failed to close period catalog: %w", err))
		}
	}

	// Sync logger
	if r.Logger != nil {
		_ = r.Logger.Sync()
	}

	// Return first error if any
	if len(errors) > 0 {
		return errors[0]
	}

	return nil
}
