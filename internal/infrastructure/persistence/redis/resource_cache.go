package redis

import (
	"context"
	"time"

	"github.com/skillsprint/skillsprint-backend/internal/domain/resource"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESOURCE CACHE
// ══════════════════════════════════════════════════════════════════════════════

// ResourceCache stores selected resource lists per subskill in Redis.
// It satisfies the same store contract as the in-process memory cache, so
// deployments without Redis can swap implementations.
type ResourceCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewResourceCache creates a ResourceCache with the given TTL.
// A non-positive TTL falls back to TTLResources.
func NewResourceCache(cache *Cache, ttl time.Duration) *ResourceCache {
	if ttl <= 0 {
		ttl = TTLResources
	}
	return &ResourceCache{cache: cache, ttl: ttl}
}

// GetResources returns the cached resource list for a subskill.
// A miss or a Redis failure both report "not found": the caller recomputes.
func (rc *ResourceCache) GetResources(ctx context.Context, skillID int64, subskill string) ([]resource.Resource, bool) {
	var items []resource.Resource
	// A Redis failure is treated like a miss: Redis being down should not
	// break resource lookups.
	if err := rc.cache.Get(ctx, ResourcesKey(skillID, subskill), &items); err != nil {
		return nil, false
	}
	return items, true
}

// PutResources stores the resource list for a subskill.
// Write failures are silently dropped for the same reason reads are.
func (rc *ResourceCache) PutResources(ctx context.Context, skillID int64, subskill string, items []resource.Resource) {
	if len(items) == 0 {
		return
	}
	_ = rc.cache.Set(ctx, ResourcesKey(skillID, subskill), items, rc.ttl)
}

// InvalidateResources drops the cached list for a subskill.
func (rc *ResourceCache) InvalidateResources(ctx context.Context, skillID int64, subskill string) {
	_ = rc.cache.Delete(ctx, ResourcesKey(skillID, subskill))
}
