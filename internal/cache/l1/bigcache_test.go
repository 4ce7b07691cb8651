package l1

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-report-cache/internal/cache/cachetest"
	"go-report-cache/internal/config"
	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/models"
)

func newTestBigCache(t *testing.T) *BigCache {
	cache, err := NewBigCache(&config.BigCacheConfig{Enabled: true, Size: 10}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestNewBigCache(t *testing.T) {
	logger := zap.NewNop()

	cache, err := NewBigCache(&config.BigCacheConfig{Size: 10}, logger)
	require.NoError(t, err)
	defer cache.Close()

	assert.NotNil(t, cache.cache)
	assert.Equal(t, logger, cache.logger)
	assert.True(t, cache.metricsScheduler.IsRunning())
}

func TestBigCache_Contract(t *testing.T) {
	cachetest.RunBackendSuite(t, func(t *testing.T) interfaces.Cache {
		return newTestBigCache(t)
	})
}

func TestBigCache_Get_CorruptedEntry(t *testing.T) {
	cache := newTestBigCache(t)
	key := cachetest.Key("bloc_a", 2024, "")

	require.NoError(t, cache.cache.Set(key.Value, []byte("not-json")))

	result, found := cache.Get(key)
	assert.False(t, found)
	assert.Nil(t, result)

	// corrupted entry is removed
	_, err := cache.cache.Get(key.Value)
	assert.Error(t, err)
}

func TestBigCache_GetStats(t *testing.T) {
	cache := newTestBigCache(t)
	for i := 0; i < 5; i++ {
		key := cachetest.Key("bloc_a", 2024, fmt.Sprintf("limit=%d", i))
		cache.Set(key, cachetest.Entry(key, `{"v":1}`))
	}

	entries, capacity := cache.GetStats()
	assert.Equal(t, int64(5), entries)
	assert.Greater(t, capacity, int64(0))
}

func TestBigCache_Concurrent_Access(t *testing.T) {
	cache := newTestBigCache(t)

	numGoroutines := 10
	numOperations := 100
	done := make(chan bool, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			for j := 0; j < numOperations; j++ {
				key := models.CacheKey{
					Category: "bloc_a",
					YearTag:  2024,
					Value:    fmt.Sprintf("bloc_a/limit=%d&year=2024&zone=%d", j, id),
				}
				cache.Set(key, cachetest.Entry(key, `{"v":1}`))

				if result, found := cache.Get(key); found {
					assert.Equal(t, key.Value, result.Key)
				}
				cache.Delete(key)
			}
			done <- true
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		<-done
	}
}
