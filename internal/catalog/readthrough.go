package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/allegro/bigcache/v3"
	"go.uber.org/zap"

	"go-report-cache/internal/config"
	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/models"
)

// Ensure ReadThrough implements interfaces.PeriodCatalog
var _ interfaces.PeriodCatalog = (*ReadThrough)(nil)

// notFound marks a remembered miss
var notFound = []byte("null")

// ReadThrough memoizes catalog lookups, including misses, for a bounded
// time. Errors are never remembered. The memo belongs to the instance:
// callers own its lifecycle through Reset and Close.
type ReadThrough struct {
	next   interfaces.PeriodCatalog
	memo   *bigcache.BigCache
	logger *zap.Logger
}

// NewReadThrough wraps next with a lookup memo sized by cfg
func NewReadThrough(next interfaces.PeriodCatalog, cfg *config.LookupCacheConfig, logger *zap.Logger) (*ReadThrough, error) {
	lifeWindow := cfg.LifeWindow
	if lifeWindow <= 0 {
		lifeWindow = 10 * time.Minute
	}

	bcConfig := bigcache.DefaultConfig(lifeWindow)
	bcConfig.Shards = 64
	bcConfig.HardMaxCacheSize = cfg.Size // Size in MB
	bcConfig.Verbose = false

	memo, err := bigcache.New(context.Background(), bcConfig)
	if err != nil {
		return nil, err
	}

	return &ReadThrough{
		next:   next,
		memo:   memo,
		logger: logger,
	}, nil
}

func memoKey(op string, year int, arg string) string {
	return op + "|" + strconv.Itoa(year) + "|" + arg
}

// lookup serves op from the memo or calls find and remembers its result
func (r *ReadThrough) lookup(ctx context.Context, op string, year int, arg string, find func(context.Context) (*models.PeriodDefinition, error)) (*models.PeriodDefinition, error) {
	key := memoKey(op, year, arg)

	if data, err := r.memo.Get(key); err == nil {
		var def *models.PeriodDefinition
		if err := json.Unmarshal(data, &def); err == nil {
			return def, nil
		}
		_ = r.memo.Delete(key)
	} else if !errors.Is(err, bigcache.ErrEntryNotFound) {
		r.logger.Debug("Catalog memo read failed", zap.String("key", key), zap.Error(err))
	}

	def, err := find(ctx)
	if err != nil {
		return nil, err
	}

	data := notFound
	if def != nil {
		if data, err = json.Marshal(def); err != nil {
			return def, nil
		}
	}
	if err := r.memo.Set(key, data); err != nil {
		r.logger.Debug("Catalog memo write failed", zap.String("key", key), zap.Error(err))
	}
	return def, nil
}

func (r *ReadThrough) FindByCode(ctx context.Context, code string, year int) (*models.PeriodDefinition, error) {
	return r.lookup(ctx, "code", year, code, func(ctx context.Context) (*models.PeriodDefinition, error) {
		return r.next.FindByCode(ctx, code, year)
	})
}

func (r *ReadThrough) FindByNameFold(ctx context.Context, name string, year int) (*models.PeriodDefinition, error) {
	return r.lookup(ctx, "name", year, name, func(ctx context.Context) (*models.PeriodDefinition, error) {
		return r.next.FindByNameFold(ctx, name, year)
	})
}

func (r *ReadThrough) FindNormalized(ctx context.Context, label string, year int) (*models.PeriodDefinition, error) {
	return r.lookup(ctx, "normalized", year, label, func(ctx context.Context) (*models.PeriodDefinition, error) {
		return r.next.FindNormalized(ctx, label, year)
	})
}

func (r *ReadThrough) FindNameContaining(ctx context.Context, token string, year int) (*models.PeriodDefinition, error) {
	return r.lookup(ctx, "containing", year, token, func(ctx context.Context) (*models.PeriodDefinition, error) {
		return r.next.FindNameContaining(ctx, token, year)
	})
}

// Len returns the number of remembered lookups
func (r *ReadThrough) Len() int {
	return r.memo.Len()
}

// Reset forgets every remembered lookup, e.g. after the catalog was edited
func (r *ReadThrough) Reset() error {
	return r.memo.Reset()
}

// Close releases the memo and closes the wrapped catalog when it can be closed
func (r *ReadThrough) Close() error {
	err := r.memo.Close()
	if closer, ok := r.next.(interface{ Close() error }); ok {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
