package utils

import (
	"time"

	"github.com/jellydator/ttlcache/v3"

	"market-dashboard/src/models"
)

// -----------------------------------------------------------------------------
// ChartCache holds chart results keyed by (symbol, period), bounded by entry
// count (least recently used evicted first) and an optional time to live.
// Reads do not extend an entry's lifetime.
// -----------------------------------------------------------------------------

type ChartCache struct {
	cache *ttlcache.Cache[string, models.MChartResult]
}

// -----------------------------------------------------------------------------

// NewChartCache returns a cache; maxEntries <= 0 means unbounded and ttl <= 0
// means entries never expire.
func NewChartCache(maxEntries int, ttl time.Duration) *ChartCache {
	opts := []ttlcache.Option[string, models.MChartResult]{
		ttlcache.WithDisableTouchOnHit[string, models.MChartResult](),
	}
	if maxEntries > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, models.MChartResult](uint64(maxEntries)))
	}
	if ttl > 0 {
		opts = append(opts, ttlcache.WithTTL[string, models.MChartResult](ttl))
	}
	return &ChartCache{cache: ttlcache.New(opts...)}
}

// -----------------------------------------------------------------------------

// CacheKey joins symbol and period into the map key.
func CacheKey(symbol, period string) string {
	return symbol + "|" + period
}

// -----------------------------------------------------------------------------

// Get returns the cached result and marks it recently used. Expired entries
// are reported as misses.
func (c *ChartCache) Get(symbol, period string) (models.MChartResult, bool) {
	item := c.cache.Get(CacheKey(symbol, period))
	if item == nil {
		return models.MChartResult{}, false
	}
	return item.Value(), true
}

// -----------------------------------------------------------------------------

// Put stores result with the cache-wide TTL.
func (c *ChartCache) Put(symbol, period string, result models.MChartResult) {
	c.cache.DeleteExpired()
	c.cache.Set(CacheKey(symbol, period), result, ttlcache.DefaultTTL)
}

// -----------------------------------------------------------------------------

// PutWithTTL stores result with its own lifetime (ttl <= 0 never expires).
func (c *ChartCache) PutWithTTL(symbol, period string, result models.MChartResult, ttl time.Duration) {
	if ttl <= 0 {
		ttl = ttlcache.NoTTL
	}
	c.cache.DeleteExpired()
	c.cache.Set(CacheKey(symbol, period), result, ttl)
}

// -----------------------------------------------------------------------------

// Delete removes one entry and reports whether a live entry existed.
func (c *ChartCache) Delete(symbol, period string) bool {
	_, ok := c.cache.GetAndDelete(CacheKey(symbol, period))
	return ok
}

// -----------------------------------------------------------------------------

// DeleteSymbol removes every period cached for symbol.
func (c *ChartCache) DeleteSymbol(symbol string) int {
	var keys []string
	c.cache.Range(func(item *ttlcache.Item[string, models.MChartResult]) bool {
		if item.Value().Symbol == symbol {
			keys = append(keys, item.Key())
		}
		return true
	})
	for _, key := range keys {
		c.cache.Delete(key)
	}
	return len(keys)
}

// -----------------------------------------------------------------------------

// Clear empties the cache and returns how many live entries were dropped.
func (c *ChartCache) Clear() int {
	n := c.cache.Len()
	c.cache.DeleteAll()
	return n
}

// -----------------------------------------------------------------------------

// Len counts live entries.
func (c *ChartCache) Len() int {
	return c.cache.Len()
}

// -----------------------------------------------------------------------------

// Keys lists live keys, most recently used first.
func (c *ChartCache) Keys() []string {
	keys := make([]string, 0, c.cache.Len())
	c.cache.Range(func(item *ttlcache.Item[string, models.MChartResult]) bool {
		keys = append(keys, item.Key())
		return true
	})
	return keys
}
