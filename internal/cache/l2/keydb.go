package l2

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"go-report-cache/internal/config"
	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/metrics"
	"go-report-cache/internal/models"
)

// Ensure KeyDBCache implements interfaces.Cache
var _ interfaces.Cache = (*KeyDBCache)(nil)

// KeyDBCache implements L2 cache using Redis/KeyDB.
//
// Entries live under "<ns>:e:<key>". Index sets keep purges scoped without
// SCAN: "<ns>:idx:<category>:<year>" holds the keys of one category/year,
// "<ns>:idx:<category>:years" the years of a category and
// "<ns>:idx:categories" every category. Empty index sets are removed after
// purges.
type KeyDBCache struct {
	client interfaces.KeyDbClient
	config *config.KeyDBConfig
	logger *zap.Logger
}

// NewKeyDBCache creates a new KeyDBCache instance with provided client
func NewKeyDBCache(cfg *config.KeyDBConfig, client interfaces.KeyDbClient, logger *zap.Logger) *KeyDBCache {
	return &KeyDBCache{
		client: client,
		config: cfg,
		logger: logger,
	}
}

func (kc *KeyDBCache) entryKey(key string) string {
	return kc.config.Namespace + ":e:" + key
}

func (kc *KeyDBCache) yearIndex(category string, year int) string {
	return kc.config.Namespace + ":idx:" + category + ":" + strconv.Itoa(year)
}

func (kc *KeyDBCache) yearsIndex(category string) string {
	return kc.config.Namespace + ":idx:" + category + ":years"
}

func (kc *KeyDBCache) categoriesIndex() string {
	return kc.config.Namespace + ":idx:categories"
}

// Get retrieves an entry from KeyDB
func (kc *KeyDBCache) Get(key models.CacheKey) (*models.CacheEntry, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetReadTimeout())
	defer cancel()

	data, err := kc.client.Get(ctx, kc.entryKey(key.Value)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			kc.logger.Error("L2 cache get error", zap.String("key", key.Value), zap.Error(err))
			metrics.RecordCacheError("l2", "read")
		}
		return nil, false
	}

	var entry models.CacheEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		kc.logger.Error("Failed to unmarshal L2 cache entry", zap.String("key", key.Value), zap.Error(err))
		metrics.RecordCacheError("l2", "decode")
		kc.client.Del(context.Background(), kc.entryKey(key.Value))
		return nil, false
	}

	return &entry, true
}

// Set stores an entry in KeyDB and indexes it by category and year
func (kc *KeyDBCache) Set(key models.CacheKey, entry *models.CacheEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetSendTimeout())
	defer cancel()

	data, err := json.Marshal(entry)
	if err != nil {
		kc.logger.Error("Failed to marshal L2 cache entry", zap.String("key", key.Value), zap.Error(err))
		metrics.RecordCacheError("l2", "encode")
		return
	}

	// No expiration: entries live until purged
	if err := kc.client.Set(ctx, kc.entryKey(key.Value), data, 0).Err(); err != nil {
		kc.logger.Error("Failed to set L2 cache entry", zap.String("key", key.Value), zap.Error(err))
		metrics.RecordCacheError("l2", "write")
		return
	}

	if err := kc.index(ctx, key); err != nil {
		kc.logger.Error("Failed to index L2 cache entry", zap.String("key", key.Value), zap.Error(err))
		metrics.RecordCacheError("l2", "write")
	}
}

func (kc *KeyDBCache) index(ctx context.Context, key models.CacheKey) error {
	if err := kc.client.SAdd(ctx, kc.yearIndex(key.Category, key.YearTag), key.Value).Err(); err != nil {
		return err
	}
	if err := kc.client.SAdd(ctx, kc.yearsIndex(key.Category), strconv.Itoa(key.YearTag)).Err(); err != nil {
		return err
	}
	return kc.client.SAdd(ctx, kc.categoriesIndex(), key.Category).Err()
}

// Delete removes entry from KeyDB cache
func (kc *KeyDBCache) Delete(key models.CacheKey) {
	ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetSendTimeout())
	defer cancel()

	if err := kc.client.Del(ctx, kc.entryKey(key.Value)).Err(); err != nil {
		kc.logger.Error("Failed to delete L2 cache entry", zap.String("key", key.Value), zap.Error(err))
		return
	}
	kc.client.SRem(ctx, kc.yearIndex(key.Category, key.YearTag), key.Value)
	if err := kc.cleanupCategory(ctx, key.Category, key.YearTag); err != nil {
		kc.logger.Warn("Failed to clean up L2 index", zap.String("category", key.Category), zap.Error(err))
	}
}

// PurgeCategoryYear removes every entry of category tagged with year
func (kc *KeyDBCache) PurgeCategoryYear(category string, year int) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetSendTimeout())
	defer cancel()

	removed, err := kc.purgeYear(ctx, category, year)
	if err != nil {
		return 0, err
	}
	if err := kc.cleanupCategory(ctx, category, year); err != nil {
		return removed, err
	}
	return removed, nil
}

func (kc *KeyDBCache) purgeYear(ctx context.Context, category string, year int) (int, error) {
	members, err := kc.client.SMembers(ctx, kc.yearIndex(category, year)).Result()
	if err != nil {
		return 0, err
	}

	removed := 0
	if len(members) > 0 {
		keys := make([]string, len(members))
		for i, m := range members {
			keys[i] = kc.entryKey(m)
		}
		n, err := kc.client.Del(ctx, keys...).Result()
		if err != nil {
			return 0, err
		}
		removed = int(n)
	}

	if err := kc.client.Del(ctx, kc.yearIndex(category, year)).Err(); err != nil {
		return removed, err
	}
	return removed, nil
}

// cleanupCategory drops year and category index members that no longer hold entries
func (kc *KeyDBCache) cleanupCategory(ctx context.Context, category string, year int) error {
	members, err := kc.client.SMembers(ctx, kc.yearIndex(category, year)).Result()
	if err != nil {
		return err
	}
	if len(members) > 0 {
		return nil
	}
	if err := kc.client.SRem(ctx, kc.yearsIndex(category), strconv.Itoa(year)).Err(); err != nil {
		return err
	}

	years, err := kc.client.SMembers(ctx, kc.yearsIndex(category)).Result()
	if err != nil {
		return err
	}
	if len(years) > 0 {
		return nil
	}
	if err := kc.client.Del(ctx, kc.yearsIndex(category)).Err(); err != nil {
		return err
	}
	return kc.client.SRem(ctx, kc.categoriesIndex(), category).Err()
}

// PurgeAll removes every indexed entry
func (kc *KeyDBCache) PurgeAll() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetSendTimeout())
	defer cancel()

	categories, err := kc.client.SMembers(ctx, kc.categoriesIndex()).Result()
	if err != nil {
		return 0, err
	}

	total := 0
	for _, category := range categories {
		years, err := kc.years(ctx, category)
		if err != nil {
			return total, err
		}
		for _, year := range years {
			n, err := kc.purgeYear(ctx, category, year)
			total += n
			if err != nil {
				return total, err
			}
		}
		if err := kc.client.Del(ctx, kc.yearsIndex(category)).Err(); err != nil {
			return total, err
		}
	}

	if err := kc.client.Del(ctx, kc.categoriesIndex()).Err(); err != nil {
		return total, err
	}
	return total, nil
}

func (kc *KeyDBCache) years(ctx context.Context, category string) ([]int, error) {
	raw, err := kc.client.SMembers(ctx, kc.yearsIndex(category)).Result()
	if err != nil {
		return nil, err
	}
	years := make([]int, 0, len(raw))
	for _, r := range raw {
		y, err := strconv.Atoi(r)
		if err != nil {
			kc.logger.Warn("Ignoring malformed year index member", zap.String("category", category), zap.String("member", r))
			continue
		}
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}

// Categories lists the indexed categories
func (kc *KeyDBCache) Categories() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetReadTimeout())
	defer cancel()

	categories, err := kc.client.SMembers(ctx, kc.categoriesIndex()).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(categories)
	return categories, nil
}

// Stats returns entry counts and stored sizes per category
func (kc *KeyDBCache) Stats() (models.CacheStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetReadTimeout())
	defer cancel()

	stats := models.NewCacheStats()
	categories, err := kc.client.SMembers(ctx, kc.categoriesIndex()).Result()
	if err != nil {
		return stats, err
	}

	for _, category := range categories {
		years, err := kc.years(ctx, category)
		if err != nil {
			return stats, err
		}
		for _, year := range years {
			members, err := kc.client.SMembers(ctx, kc.yearIndex(category, year)).Result()
			if err != nil {
				return stats, err
			}
			for _, m := range members {
				size, err := kc.client.StrLen(ctx, kc.entryKey(m)).Result()
				if err != nil {
					return stats, err
				}
				if size == 0 {
					continue // indexed but already gone
				}
				stats.Add(category, size)
			}
		}
	}

	metrics.UpdateCacheUsage("l2", stats.Entries, stats.TotalBytes)
	return stats, nil
}

// Close closes the KeyDB connection
func (kc *KeyDBCache) Close() error {
	return kc.client.Close()
}
