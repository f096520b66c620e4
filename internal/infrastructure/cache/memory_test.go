package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsprint/skillsprint-backend/internal/domain/resource"
)

// fakeClock is a manually advanced clock for expiry tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func sampleResources() []resource.Resource {
	return []resource.Resource{
		{Title: "Arrays Guide", URL: "https://example.com/arrays", Type: resource.TypeArticle, QualityScore: 80},
		{Title: "Arrays Video", URL: "https://youtube.com/watch?v=abc", Type: resource.TypeVideo, QualityScore: 72},
	}
}

func TestMemoryCacheHitBeforeTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMemory(Config{TTL: 45 * time.Minute, MaxEntries: 10, Clock: clock.Now})
	ctx := context.Background()

	m.PutResources(ctx, 1, "arrays", sampleResources())

	clock.Advance(44 * time.Minute)
	items, ok := m.GetResources(ctx, 1, "arrays")
	require.True(t, ok)
	assert.Len(t, items, 2)
	assert.Equal(t, "Arrays Guide", items[0].Title)
}

func TestMemoryCacheMissAfterTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMemory(Config{TTL: 45 * time.Minute, MaxEntries: 10, Clock: clock.Now})
	ctx := context.Background()

	m.PutResources(ctx, 1, "arrays", sampleResources())

	clock.Advance(46 * time.Minute)
	_, ok := m.GetResources(ctx, 1, "arrays")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len(), "expired entry is swept on access")
}

func TestMemoryCacheKeysAreIndependent(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMemory(Config{TTL: time.Hour, MaxEntries: 10, Clock: clock.Now})
	ctx := context.Background()

	m.PutResources(ctx, 1, "arrays", sampleResources())

	_, ok := m.GetResources(ctx, 1, "linked lists")
	assert.False(t, ok)

	_, ok = m.GetResources(ctx, 2, "arrays")
	assert.False(t, ok, "same subskill under another skill is a different key")
}

func TestMemoryCacheReturnsCopy(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMemory(Config{TTL: time.Hour, MaxEntries: 10, Clock: clock.Now})
	ctx := context.Background()

	m.PutResources(ctx, 1, "arrays", sampleResources())

	items, ok := m.GetResources(ctx, 1, "arrays")
	require.True(t, ok)
	items[0].Title = "mutated"

	again, ok := m.GetResources(ctx, 1, "arrays")
	require.True(t, ok)
	assert.Equal(t, "Arrays Guide", again[0].Title)
}

func TestMemoryCacheInvalidate(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMemory(Config{TTL: time.Hour, MaxEntries: 10, Clock: clock.Now})
	ctx := context.Background()

	m.PutResources(ctx, 1, "arrays", sampleResources())
	m.InvalidateResources(ctx, 1, "arrays")

	_, ok := m.GetResources(ctx, 1, "arrays")
	assert.False(t, ok)
}

func TestMemoryCacheEvictsOldestAtCapacity(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMemory(Config{TTL: time.Hour, MaxEntries: 3, Clock: clock.Now})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		m.PutResources(ctx, int64(i), "topic", sampleResources())
		clock.Advance(time.Minute)
	}
	require.Equal(t, 3, m.Len())

	m.PutResources(ctx, 99, "topic", sampleResources())

	assert.Equal(t, 3, m.Len())
	_, ok := m.GetResources(ctx, 0, "topic")
	assert.False(t, ok, "oldest entry was evicted")
	_, ok = m.GetResources(ctx, 99, "topic")
	assert.True(t, ok)
}

func TestMemoryCacheIgnoresEmptyLists(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMemory(Config{TTL: time.Hour, MaxEntries: 10, Clock: clock.Now})
	ctx := context.Background()

	m.PutResources(ctx, 1, "arrays", nil)
	m.PutResources(ctx, 1, "arrays", []resource.Resource{})

	assert.Equal(t, 0, m.Len())
}

func TestMemoryCacheDefaults(t *testing.T) {
	m := NewMemory(Config{})
	ctx := context.Background()

	m.PutResources(ctx, 1, "arrays", sampleResources())
	_, ok := m.GetResources(ctx, 1, "arrays")
	assert.True(t, ok, "zero config falls back to defaults with a real clock")
}

func TestMemoryCacheConcurrentAccess(t *testing.T) {
	m := NewMemory(Config{TTL: time.Hour, MaxEntries: 100})
	ctx := context.Background()

	done := make(chan struct{})
	for g := 0; g < 4; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 50; i++ {
				key := fmt.Sprintf("topic-%d", i%5)
				m.PutResources(ctx, int64(g), key, sampleResources())
				m.GetResources(ctx, int64(g), key)
			}
		}(g)
	}
	for g := 0; g < 4; g++ {
		<-done
	}

	assert.LessOrEqual(t, m.Len(), 100)
}
