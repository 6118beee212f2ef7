package datasource

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"market-dashboard/src/chart"
	"market-dashboard/src/interfaces"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"
)

// SourceRegistry routes (category, symbol) pairs to a source adapter.
// A per-symbol override wins over the category adapter.
type SourceRegistry struct {
	Categories map[string]interfaces.ISourceAdapter
	Overrides  map[string]interfaces.ISourceAdapter
	Logger     *logger.Logger
	Now        func() time.Time
	mu         sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewSourceRegistry(log *logger.Logger) *SourceRegistry {
	return &SourceRegistry{
		Categories: make(map[string]interfaces.ISourceAdapter),
		Overrides:  make(map[string]interfaces.ISourceAdapter),
		Logger:     log,
		Now:        time.Now,
	}
}

// -----------------------------------------------------------------------------

// Register binds an adapter to a category, replacing any previous one.
func (r *SourceRegistry) Register(category string, adapter interfaces.ISourceAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Categories[category] = adapter
	r.Logger.Info("Registered source %s for category %s", adapter.Name(), category)
}

// -----------------------------------------------------------------------------

// Override routes one symbol to adapter regardless of category.
func (r *SourceRegistry) Override(symbol string, adapter interfaces.ISourceAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Overrides[strings.ToUpper(symbol)] = adapter
	r.Logger.Info("Symbol %s routed to source %s", symbol, adapter.Name())
}

// -----------------------------------------------------------------------------

// RemoveCategory drops the adapter bound to category.
func (r *SourceRegistry) RemoveCategory(category string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.Categories[category]; !exists {
		return fmt.Errorf("category %s not found", category)
	}
	delete(r.Categories, category)
	r.Logger.Info("Removed category: %s", category)
	return nil
}

// -----------------------------------------------------------------------------

// Resolve returns the adapter serving symbol within category.
func (r *SourceRegistry) Resolve(category, symbol string) (interfaces.ISourceAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if adapter, ok := r.Overrides[strings.ToUpper(symbol)]; ok {
		return adapter, nil
	}
	adapter, ok := r.Categories[category]
	if !ok {
		return nil, fmt.Errorf("no source for category %q", category)
	}
	return adapter, nil
}

// -----------------------------------------------------------------------------

// Fetch resolves and fetches. An unroutable request yields a degraded result.
func (r *SourceRegistry) Fetch(ctx context.Context, category, symbol, period string) models.MChartResult {
	adapter, err := r.Resolve(category, symbol)
	if err != nil {
		r.Logger.Warning("Cannot route %s/%s: %v", category, symbol, err)
		return chart.Degraded(symbol, period, err.Error(), r.Now())
	}
	return adapter.Fetch(ctx, symbol, period)
}

// -----------------------------------------------------------------------------

// CategoryNames lists the registered categories in sorted order.
func (r *SourceRegistry) CategoryNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.Categories))
	for name := range r.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// -----------------------------------------------------------------------------

// Routes describes every binding as category|symbol -> adapter name.
func (r *SourceRegistry) Routes() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.Categories)+len(r.Overrides))
	for category, adapter := range r.Categories {
		out[category] = adapter.Name()
	}
	for symbol, adapter := range r.Overrides {
		out[symbol] = adapter.Name()
	}
	return out
}
