package analysis

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"market-dashboard/src/chart"
	"market-dashboard/src/interfaces"
	"market-dashboard/src/logger"
	"market-dashboard/src/metrics"
	"market-dashboard/src/models"
	"market-dashboard/src/utils"
)

// ChartFacade is the single entry point of the chart pipeline:
// cache, then routed source fetch, then cache and snapshot store.
type ChartFacade struct {
	Router      interfaces.IChartRouter
	Cache       *utils.ChartCache
	Store       interfaces.IDatabase // optional
	Metrics     *metrics.Metrics     // optional
	Labels      chart.LabelFormatter
	DegradedTTL time.Duration
	Logger      *logger.Logger
	Now         func() time.Time

	group singleflight.Group
}

// -----------------------------------------------------------------------------

func NewChartFacade(router interfaces.IChartRouter, cache *utils.ChartCache, cfg models.MChartConfig, log *logger.Logger) *ChartFacade {
	return &ChartFacade{
		Router:      router,
		Cache:       cache,
		Labels:      chart.NewLabelFormatter(cfg.LabelTimezone),
		DegradedTTL: time.Duration(cfg.DegradedTTLSeconds) * time.Second,
		Logger:      log,
		Now:         time.Now,
	}
}

// -----------------------------------------------------------------------------

// Cached is the synchronous cache check.
func (f *ChartFacade) Cached(symbol, period string) (models.MChartResult, bool) {
	res, ok := f.Cache.Get(symbol, period)
	if ok {
		f.Metrics.CacheHit()
	} else {
		f.Metrics.CacheMiss()
	}
	return res, ok
}

// -----------------------------------------------------------------------------

// Get returns the chart for (symbol, period), fetching on a cache miss.
// Concurrent misses for the same key share one fetch. Never fails.
func (f *ChartFacade) Get(ctx context.Context, category, symbol, period string) models.MChartResult {
	if res, ok := f.Cached(symbol, period); ok {
		return res
	}

	key := category + "|" + utils.CacheKey(symbol, period)
	v, _, _ := f.group.Do(key, func() (interface{}, error) {
		// the fetch outlives any single waiter
		return f.fetch(context.WithoutCancel(ctx), category, symbol, period), nil
	})
	return v.(models.MChartResult)
}

// -----------------------------------------------------------------------------

func (f *ChartFacade) fetch(ctx context.Context, category, symbol, period string) models.MChartResult {
	start := f.Now()
	res := f.Router.Fetch(ctx, category, symbol, period)
	f.Metrics.ObserveFetch(res.Source, res.Status, f.Now().Sub(start))

	if res.IsLive() {
		f.Cache.Put(symbol, period, res)
		f.persist(ctx, res)
	} else {
		f.Logger.Warning("Serving fallback chart for %s/%s: %s", symbol, period, res.Reason)
		f.Cache.PutWithTTL(symbol, period, res, f.DegradedTTL)
	}
	f.Metrics.SetCacheEntries(f.Cache.Len())
	return res
}

// -----------------------------------------------------------------------------

func (f *ChartFacade) persist(ctx context.Context, res models.MChartResult) {
	if f.Store == nil {
		return
	}
	if err := f.Store.SaveChartSnapshot(ctx, res); err != nil {
		f.Logger.Error("Failed to persist snapshot %s/%s: %v", res.Symbol, res.Period, err)
	}
}

// -----------------------------------------------------------------------------

// View renders labels and stats for a result.
func (f *ChartFacade) View(res models.MChartResult) models.MChartView {
	return models.MChartView{
		MChartResult: res,
		Labels:       f.Labels.Labels(res.Series, res.Period),
		Stats:        chart.Stats(res.Series),
	}
}

// -----------------------------------------------------------------------------

// Warm loads stored live snapshots newer than since into the cache.
func (f *ChartFacade) Warm(ctx context.Context, since time.Time) (int, error) {
	if f.Store == nil {
		return 0, nil
	}
	snapshots, err := f.Store.LoadChartSnapshots(ctx, since)
	if err != nil {
		return 0, err
	}

	loaded := 0
	// newest first; keep only the latest per key
	for i := len(snapshots) - 1; i >= 0; i-- {
		snap := snapshots[i]
		if !snap.IsLive() {
			continue
		}
		f.Cache.Put(snap.Symbol, snap.Period, snap)
		loaded++
	}
	f.Metrics.SetCacheEntries(f.Cache.Len())
	f.Logger.Info("Warmed chart cache with %d snapshots", loaded)
	return loaded, nil
}

// -----------------------------------------------------------------------------

// Invalidate drops every cached period of symbol.
func (f *ChartFacade) Invalidate(symbol string) int {
	n := f.Cache.DeleteSymbol(symbol)
	f.Metrics.SetCacheEntries(f.Cache.Len())
	return n
}

// -----------------------------------------------------------------------------

// Clear empties the cache.
func (f *ChartFacade) Clear() int {
	n := f.Cache.Clear()
	f.Metrics.SetCacheEntries(0)
	f.Logger.Info("Chart cache cleared (%d entries)", n)
	return n
}
