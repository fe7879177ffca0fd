package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventify/eventify-go/internal/app/models"
)

// fakeClock lets tests move time forward deterministically.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestCache(ttl time.Duration, clk *fakeClock) *Cache[string] {
	return New[string](ttl, "test", nil, WithClock[string](clk.Now))
}

func TestGetMissingKey(t *testing.T) {
	clk := &fakeClock{now: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)}
	c := newTestCache(time.Minute, clk)

	_, expired, ok := c.Get("absent")
	assert.False(t, ok)
	assert.True(t, expired)
}

func TestTTLExpiry(t *testing.T) {
	clk := &fakeClock{now: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)}
	c := newTestCache(10*time.Minute, clk)

	c.Set("k", "v")

	tests := []struct {
		name        string
		advance     time.Duration
		wantExpired bool
	}{
		{"immediately fresh", 0, false},
		{"just under ttl", 10*time.Minute - time.Nanosecond, false},
		{"exactly at boundary", time.Nanosecond, true}, // cumulative: == ttl
		{"well past ttl", time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clk.Advance(tt.advance)
			v, expired, ok := c.Get("k")
			require.True(t, ok)
			assert.Equal(t, "v", v)
			assert.Equal(t, tt.wantExpired, expired)
		})
	}
}

func TestStaleEntryStillReadable(t *testing.T) {
	clk := &fakeClock{now: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)}
	c := newTestCache(time.Minute, clk)

	c.Set("k", "old")
	clk.Advance(2 * time.Hour)

	v, expired, ok := c.Get("k")
	require.True(t, ok, "stale entries must stay available for fallback")
	assert.True(t, expired)
	assert.Equal(t, "old", v)

	_, ok = c.GetFresh("k")
	assert.False(t, ok)
}

func TestSetOverwritesUnconditionally(t *testing.T) {
	clk := &fakeClock{now: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)}
	c := newTestCache(time.Minute, clk)

	c.Set("k", "first")
	clk.Advance(30 * time.Second)
	c.Set("k", "second")
	clk.Advance(45 * time.Second)

	// The overwrite restarted the TTL window.
	v, expired, ok := c.Get("k")
	require.True(t, ok)
	assert.False(t, expired)
	assert.Equal(t, "second", v)
}

func TestPerEntryTTL(t *testing.T) {
	clk := &fakeClock{now: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)}
	c := newTestCache(time.Minute, clk)

	c.SetWithTTL("long", "v", time.Hour)
	c.Set("short", "v")
	clk.Advance(30 * time.Minute)

	_, expired, _ := c.Get("long")
	assert.False(t, expired)
	_, expired, _ = c.Get("short")
	assert.True(t, expired)
}

func TestDeleteAndClear(t *testing.T) {
	clk := &fakeClock{now: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)}
	c := newTestCache(time.Minute, clk)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Delete("a")
	_, _, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestMetrics(t *testing.T) {
	clk := &fakeClock{now: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)}
	c := newTestCache(time.Minute, clk)

	c.Set("k", "v")
	c.Get("k")      // hit
	c.Get("absent") // miss
	clk.Advance(2 * time.Minute)
	c.Get("k") // stale

	m := c.GetMetrics()
	assert.Equal(t, int64(1), m.Hits)
	assert.Equal(t, int64(1), m.Misses)
	assert.Equal(t, int64(1), m.Stale)
	assert.Equal(t, int64(1), m.Sets)
}

func TestManagerResetSessionScoped(t *testing.T) {
	m := NewManager(DefaultTTLs(), nil)

	m.Events.Set(KeyAllEvents, []models.Event{{Title: "Jazz Night"}})
	m.PopularEvents.Set(KeyPopularEvents, []models.Event{{Title: "Rock Fest"}})
	m.FeaturedEvents.Set(KeyFeaturedEvents, []models.Event{{Title: "Hamlet"}})

	m.ResetSessionScoped()

	_, ok := m.Events.GetFresh(KeyAllEvents)
	assert.True(t, ok, "catalog caches survive a session reset")
	_, _, ok = m.PopularEvents.Get(KeyPopularEvents)
	assert.False(t, ok)
	_, _, ok = m.FeaturedEvents.Get(KeyFeaturedEvents)
	assert.False(t, ok)
}
