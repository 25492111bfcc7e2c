package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windscape-energy/windscape-backend/internal/projects/cache"
	"github.com/windscape-energy/windscape-backend/internal/projects/domain"
)

func record(name string) *domain.ProjectRecord {
	return &domain.ProjectRecord{
		ProjectID:   "id-" + name,
		ProjectName: name,
		Sections:    map[string]interface{}{"coordinates": []interface{}{1.0, 2.0}},
	}
}

// newTestCache returns a cache on a manual clock plus a function that
// advances it.
func newTestCache(ttl time.Duration) (*cache.RecordCache, func(time.Duration)) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := cache.New(ttl, cache.WithClock(func() time.Time { return now }))
	return c, func(d time.Duration) { now = now.Add(d) }
}

func TestRecordCache_GetPut(t *testing.T) {
	t.Run("fresh entry is returned", func(t *testing.T) {
		c, _ := newTestCache(time.Minute)
		c.Put("alpha", record("alpha"))

		got, ok := c.Get("alpha")
		require.True(t, ok)
		assert.Equal(t, "alpha", got.ProjectName)
	})

	t.Run("absent entry misses", func(t *testing.T) {
		c, _ := newTestCache(time.Minute)
		_, ok := c.Get("missing")
		assert.False(t, ok)
	})

	t.Run("expired entry misses but stays available stale", func(t *testing.T) {
		c, advance := newTestCache(time.Minute)
		c.Put("alpha", record("alpha"))
		advance(2 * time.Minute)

		_, ok := c.Get("alpha")
		assert.False(t, ok)

		stale, ok := c.GetStale("alpha")
		require.True(t, ok)
		assert.Equal(t, "alpha", stale.ProjectName)
	})

	t.Run("returned record is a copy", func(t *testing.T) {
		c, _ := newTestCache(time.Minute)
		c.Put("alpha", record("alpha"))

		got, _ := c.Get("alpha")
		got.Sections["terrain"] = "mutated"

		again, _ := c.Get("alpha")
		assert.NotContains(t, again.Sections, "terrain")
	})
}

func TestRecordCache_ListSnapshot(t *testing.T) {
	records := []domain.ProjectRecord{*record("alpha"), *record("beta")}

	t.Run("fresh snapshot is returned", func(t *testing.T) {
		c, _ := newTestCache(time.Minute)
		c.PutList(records)

		got, ok := c.GetList()
		require.True(t, ok)
		assert.Len(t, got, 2)
	})

	t.Run("expired snapshot misses but stays available stale", func(t *testing.T) {
		c, advance := newTestCache(time.Minute)
		c.PutList(records)
		advance(2 * time.Minute)

		_, ok := c.GetList()
		assert.False(t, ok)

		stale, ok := c.GetStaleList()
		require.True(t, ok)
		assert.Len(t, stale, 2)
	})

	t.Run("put of a new name drops the snapshot", func(t *testing.T) {
		c, _ := newTestCache(time.Minute)
		c.PutList(records)
		c.Put("gamma", record("gamma"))

		_, ok := c.GetList()
		assert.False(t, ok)
	})

	t.Run("put of a known name keeps the snapshot", func(t *testing.T) {
		c, _ := newTestCache(time.Minute)
		c.Put("alpha", record("alpha"))
		c.PutList(records)
		c.Put("alpha", record("alpha"))

		_, ok := c.GetList()
		assert.True(t, ok)
	})
}

func TestRecordCache_Invalidate(t *testing.T) {
	t.Run("drops the entry and the snapshot", func(t *testing.T) {
		c, _ := newTestCache(time.Minute)
		c.Put("alpha", record("alpha"))
		c.PutList([]domain.ProjectRecord{*record("alpha")})

		c.Invalidate("alpha")

		_, ok := c.GetStale("alpha")
		assert.False(t, ok)
		_, ok = c.GetStaleList()
		assert.False(t, ok)
	})
}

func TestRecordCache_Clear(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Put("alpha", record("alpha"))
	c.Put("beta", record("beta"))
	c.PutList([]domain.ProjectRecord{*record("alpha")})

	c.Clear()

	stats := c.Stats()
	assert.Equal(t, 0, stats.EntryCount)
	assert.False(t, stats.HasList)
}

func TestRecordCache_PruneExpired(t *testing.T) {
	t.Run("keeps fresh and recently expired entries", func(t *testing.T) {
		c, advance := newTestCache(time.Minute)
		c.Put("old", record("old"))
		advance(5 * time.Minute)
		c.Put("recent", record("recent"))
		advance(90 * time.Second) // "recent" expired but within retention

		pruned := c.PruneExpired(5 * time.Minute)
		assert.Equal(t, 1, pruned)

		_, ok := c.GetStale("old")
		assert.False(t, ok)
		_, ok = c.GetStale("recent")
		assert.True(t, ok)
	})

	t.Run("retention below the TTL is clamped", func(t *testing.T) {
		c, _ := newTestCache(time.Minute)
		c.Put("alpha", record("alpha"))

		pruned := c.PruneExpired(0)
		assert.Equal(t, 0, pruned)

		_, ok := c.Get("alpha")
		assert.True(t, ok)
	})
}

func TestRecordCache_Stats(t *testing.T) {
	c, _ := newTestCache(45 * time.Second)
	c.Put("alpha", record("alpha"))
	c.PutList([]domain.ProjectRecord{*record("alpha")})

	stats := c.Stats()
	assert.Equal(t, 1, stats.EntryCount)
	assert.True(t, stats.HasList)
	assert.Equal(t, 45*time.Second, stats.TTL)
}
