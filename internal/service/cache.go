package service

import (
	"context"
	"time"

	"osplits/internal/observability"

	"github.com/jellydator/ttlcache/v3"
)

// Cache keeps recent analyses in memory, addressable by id or slug. Slugs
// live in a second cache with the same TTL so an alias never outlives its
// analysis by more than one sweep.
type Cache struct {
	entries *ttlcache.Cache[string, *Analysis]
	slugs   *ttlcache.Cache[string, string]
}

func NewCache(ttl time.Duration) *Cache {
	c := &Cache{
		entries: ttlcache.New(
			ttlcache.WithTTL[string, *Analysis](ttl),
			ttlcache.WithDisableTouchOnHit[string, *Analysis](),
		),
		slugs: ttlcache.New(
			ttlcache.WithTTL[string, string](ttl),
			ttlcache.WithDisableTouchOnHit[string, string](),
		),
	}
	c.entries.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, _ *ttlcache.Item[string, *Analysis]) {
		if reason == ttlcache.EvictionReasonExpired {
			observability.RecordCacheEvictions(1)
		}
	})
	return c
}

func (c *Cache) Get(key string) (*Analysis, bool) {
	if alias := c.slugs.Get(key); alias != nil {
		key = alias.Value()
	}
	item := c.entries.Get(key)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

func (c *Cache) Put(a *Analysis) {
	c.entries.Set(a.ID, a, ttlcache.DefaultTTL)
	if a.Slug != "" {
		c.slugs.Set(a.Slug, a.ID, ttlcache.DefaultTTL)
	}
}

func (c *Cache) Remove(id string) {
	item, ok := c.entries.GetAndDelete(id)
	if !ok {
		c.entries.Delete(id)
		return
	}
	if slug := item.Value().Slug; slug != "" {
		c.slugs.Delete(slug)
	}
}

// EvictExpired drops entries past their TTL and reports how many went.
func (c *Cache) EvictExpired() int {
	before := c.entries.Metrics().Evictions
	c.entries.DeleteExpired()
	c.slugs.DeleteExpired()
	return int(c.entries.Metrics().Evictions - before)
}

func (c *Cache) Len() int {
	return c.entries.Len()
}
