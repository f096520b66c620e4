// Package cache provides an in-process TTL cache for selected resource
// lists. It is the default store for single-instance deployments; the
// Redis-backed implementation in persistence/redis covers multi-instance
// setups.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/skillsprint/skillsprint-backend/internal/domain/resource"
)

// Clock returns the current time. Injected so tests can control expiry.
type Clock func() time.Time

// Config holds memory cache configuration.
type Config struct {
	// TTL is how long an entry stays valid.
	TTL time.Duration

	// MaxEntries bounds memory use. Oldest entries are evicted first.
	MaxEntries int

	// Clock supplies the current time. Defaults to time.Now.
	Clock Clock
}

// DefaultConfig returns sensible defaults for the memory cache.
func DefaultConfig() Config {
	return Config{
		TTL:        45 * time.Minute,
		MaxEntries: 1024,
	}
}

type entry struct {
	items     []resource.Resource
	expiresAt time.Time
	storedAt  time.Time
}

// Memory is a thread-safe in-process TTL cache for resource lists.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	config  Config
	clock   Clock
}

// NewMemory creates a Memory cache with the given configuration.
func NewMemory(config Config) *Memory {
	if config.TTL <= 0 {
		config.TTL = DefaultConfig().TTL
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultConfig().MaxEntries
	}
	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Memory{
		entries: make(map[string]entry),
		config:  config,
		clock:   clock,
	}
}

// GetResources returns the cached resource list for a subskill.
// Expired entries are removed lazily on access.
func (m *Memory) GetResources(_ context.Context, skillID int64, subskill string) ([]resource.Resource, bool) {
	key := cacheKey(skillID, subskill)
	now := m.clock()

	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if now.After(e.expiresAt) {
		m.mu.Lock()
		// Re-check: another goroutine may have refreshed the entry.
		if cur, still := m.entries[key]; still && now.After(cur.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}

	// Copy so callers cannot mutate the cached slice.
	out := make([]resource.Resource, len(e.items))
	copy(out, e.items)
	return out, true
}

// PutResources stores the resource list for a subskill.
func (m *Memory) PutResources(_ context.Context, skillID int64, subskill string, items []resource.Resource) {
	if len(items) == 0 {
		return
	}

	now := m.clock()
	stored := make([]resource.Resource, len(items))
	copy(stored, items)

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) >= m.config.MaxEntries {
		m.evictOldestLocked()
	}

	m.entries[cacheKey(skillID, subskill)] = entry{
		items:     stored,
		expiresAt: now.Add(m.config.TTL),
		storedAt:  now,
	}
}

// InvalidateResources drops the cached list for a subskill.
func (m *Memory) InvalidateResources(_ context.Context, skillID int64, subskill string) {
	m.mu.Lock()
	delete(m.entries, cacheKey(skillID, subskill))
	m.mu.Unlock()
}

// Len returns the number of live entries, counting expired ones not yet
// swept. Used by tests and the health endpoint.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// evictOldestLocked removes the entry with the earliest store time.
// Caller must hold the write lock.
func (m *Memory) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for key, e := range m.entries {
		if first || e.storedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = e.storedAt
			first = false
		}
	}
	if oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}

func cacheKey(skillID int64, subskill string) string {
	return fmt.Sprintf("%d:%s", skillID, subskill)
}
