// Package cachetest holds a behaviour suite shared by every cache backend.
package cachetest

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/models"
)

// Key builds a readable key the same way the key builder lays it out
func Key(category string, year int, rest string) models.CacheKey {
	value := fmt.Sprintf("%s/year=%d", category, year)
	if rest != "" {
		value = fmt.Sprintf("%s/%s&year=%d", category, rest, year)
	}
	return models.CacheKey{Category: category, YearTag: year, Value: value}
}

// Entry builds an entry for key holding payload
func Entry(key models.CacheKey, payload string) *models.CacheEntry {
	return &models.CacheEntry{
		Key:       key.Value,
		Category:  key.Category,
		YearTag:   key.YearTag,
		Data:      json.RawMessage(payload),
		CreatedAt: 1700000000,
	}
}

// RunBackendSuite exercises the Cache contract against backends built by newCache
func RunBackendSuite(t *testing.T, newCache func(t *testing.T) interfaces.Cache) {
	t.Run("get missing", func(t *testing.T) {
		c := newCache(t)
		entry, found := c.Get(Key("bloc_a", 2024, "zone=CANTAL"))
		assert.False(t, found)
		assert.Nil(t, entry)
	})

	t.Run("set then get", func(t *testing.T) {
		c := newCache(t)
		key := Key("bloc_a", 2024, "zone=CANTAL")
		c.Set(key, Entry(key, `{"visitors":1200}`))

		entry, found := c.Get(key)
		require.True(t, found)
		assert.JSONEq(t, `{"visitors":1200}`, string(entry.Data))
		assert.Equal(t, "bloc_a", entry.Category)
		assert.Equal(t, 2024, entry.YearTag)
		assert.Equal(t, key.Value, entry.Key)
	})

	t.Run("set overwrites", func(t *testing.T) {
		c := newCache(t)
		key := Key("bloc_a", 2024, "")
		c.Set(key, Entry(key, `{"v":1}`))
		c.Set(key, Entry(key, `{"v":2}`))

		entry, found := c.Get(key)
		require.True(t, found)
		assert.JSONEq(t, `{"v":2}`, string(entry.Data))

		stats, err := c.Stats()
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.Entries)
	})

	t.Run("delete", func(t *testing.T) {
		c := newCache(t)
		key := Key("bloc_a", 2024, "")
		c.Set(key, Entry(key, `{"v":1}`))
		c.Delete(key)

		_, found := c.Get(key)
		assert.False(t, found)

		// deleting again is harmless
		c.Delete(key)
	})

	t.Run("purge category year is scoped", func(t *testing.T) {
		c := newCache(t)
		a2024 := Key("bloc_a", 2024, "zone=CANTAL")
		a2024b := Key("bloc_a", 2024, "zone=LOZERE")
		a2023 := Key("bloc_a", 2023, "zone=CANTAL")
		b2024 := Key("bloc_b", 2024, "zone=CANTAL")
		for _, k := range []models.CacheKey{a2024, a2024b, a2023, b2024} {
			c.Set(k, Entry(k, `{"v":1}`))
		}

		removed, err := c.PurgeCategoryYear("bloc_a", 2024)
		require.NoError(t, err)
		assert.Equal(t, 2, removed)

		_, found := c.Get(a2024)
		assert.False(t, found)
		_, found = c.Get(a2024b)
		assert.False(t, found)
		_, found = c.Get(a2023)
		assert.True(t, found, "other years must survive")
		_, found = c.Get(b2024)
		assert.True(t, found, "other categories must survive")

		// a second purge finds nothing
		removed, err = c.PurgeCategoryYear("bloc_a", 2024)
		require.NoError(t, err)
		assert.Equal(t, 0, removed)
	})

	t.Run("purge removes empty categories", func(t *testing.T) {
		c := newCache(t)
		k := Key("bloc_c", 2024, "")
		c.Set(k, Entry(k, `{"v":1}`))
		keep := Key("bloc_d", 2022, "")
		c.Set(keep, Entry(keep, `{"v":1}`))

		_, err := c.PurgeCategoryYear("bloc_c", 2024)
		require.NoError(t, err)

		categories, err := c.Categories()
		require.NoError(t, err)
		assert.Equal(t, []string{"bloc_d"}, categories)
	})

	t.Run("purge all", func(t *testing.T) {
		c := newCache(t)
		for i, cat := range []string{"bloc_a", "bloc_b", "bloc_c"} {
			k := Key(cat, 2020+i, "")
			c.Set(k, Entry(k, `{"v":1}`))
		}

		removed, err := c.PurgeAll()
		require.NoError(t, err)
		assert.Equal(t, 3, removed)

		stats, err := c.Stats()
		require.NoError(t, err)
		assert.Equal(t, int64(0), stats.Entries)

		categories, err := c.Categories()
		require.NoError(t, err)
		assert.Empty(t, categories)
	})

	t.Run("stats per category", func(t *testing.T) {
		c := newCache(t)
		k1 := Key("bloc_a", 2024, "zone=CANTAL")
		k2 := Key("bloc_a", 2023, "zone=CANTAL")
		k3 := Key("bloc_b", 2024, "zone=CANTAL")
		for _, k := range []models.CacheKey{k1, k2, k3} {
			c.Set(k, Entry(k, `{"v":1}`))
		}

		stats, err := c.Stats()
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.Entries)
		assert.Greater(t, stats.TotalBytes, int64(0))
		assert.Equal(t, int64(2), stats.Categories["bloc_a"].Entries)
		assert.Equal(t, int64(1), stats.Categories["bloc_b"].Entries)
	})
}
