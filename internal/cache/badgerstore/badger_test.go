package badgerstore

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"go-report-cache/internal/cache/cachetest"
	"go-report-cache/internal/config"
	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/models"
)

func newTestCache(t *testing.T) *BadgerCache {
	c, err := NewBadgerCache(&config.BadgerConfig{InMemory: true}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestBadgerCache_Contract(t *testing.T) {
	cachetest.RunBackendSuite(t, func(t *testing.T) interfaces.Cache {
		return newTestCache(t)
	})
}

func TestBadgerCache_OnDisk(t *testing.T) {
	dir := t.TempDir()
	logger := zaptest.NewLogger(t)
	key := cachetest.Key("bloc_a", 2024, "zone=CANTAL")

	c, err := NewBadgerCache(&config.BadgerConfig{Dir: dir}, logger)
	require.NoError(t, err)
	c.Set(key, cachetest.Entry(key, `{"v":1}`))
	require.NoError(t, c.Close())

	reopened, err := NewBadgerCache(&config.BadgerConfig{Dir: dir}, logger)
	require.NoError(t, err)
	defer reopened.Close()

	entry, found := reopened.Get(key)
	require.True(t, found)
	assert.JSONEq(t, `{"v":1}`, string(entry.Data))
}

func TestBadgerCache_CategoryPrefixesDoNotOverlap(t *testing.T) {
	c := newTestCache(t)
	short := models.CacheKey{Category: "bloc", YearTag: 2024, Value: "bloc/year=2024"}
	long := models.CacheKey{Category: "bloc_a", YearTag: 2024, Value: "bloc_a/year=2024"}
	c.Set(short, cachetest.Entry(short, `{"v":1}`))
	c.Set(long, cachetest.Entry(long, `{"v":2}`))

	removed, err := c.PurgeCategoryYear("bloc", 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, found := c.Get(long)
	assert.True(t, found)
}

func TestBadgerCache_CorruptedValueIsMiss(t *testing.T) {
	c := newTestCache(t)
	key := cachetest.Key("bloc_a", 2024, "")

	require.NoError(t, c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entryKey(key), []byte("garbage"))
	}))

	_, found := c.Get(key)
	assert.False(t, found)

	categories, err := c.Categories()
	require.NoError(t, err)
	assert.Empty(t, categories)
}
