package carousel

import (
	"context"
	"fmt"
	"sync"

	"market-dashboard/src/chart"
	"market-dashboard/src/helpers"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"
)

// MaxStocks is how many trending quotes become carousel stocks.
const MaxStocks = 4

// ChartProvider is the part of the chart pipeline the carousel drives.
type ChartProvider interface {
	Cached(symbol, period string) (models.MChartResult, bool)
	Get(ctx context.Context, category, symbol, period string) models.MChartResult
}

// Token identifies one chart request issued for a carousel slot.
type Token struct {
	Category string
	Index    int
	Symbol   string
	Period   string
	Seq      uint64
}

func (t Token) slot() string {
	return fmt.Sprintf("%s|%d|%s", t.Category, t.Index, t.Symbol)
}

// DefaultCommodities seeds the commodities category.
func DefaultCommodities() []models.MAssetState {
	return []models.MAssetState{
		{Symbol: "GOLD", Name: "Gold", Category: models.CategoryCommodities, CurrentPrice: 2045.30, ChangePercent: 0.5, Currency: "$"},
		{Symbol: "SILVER", Name: "Silver", Category: models.CategoryCommodities, CurrentPrice: 24.15, ChangePercent: -0.3, Currency: "$"},
		{Symbol: "OIL", Name: "Crude Oil", Category: models.CategoryCommodities, CurrentPrice: 85.40, ChangePercent: 1.8, Currency: "$"},
	}
}

// -----------------------------------------------------------------------------
// Controller owns the carousel selection. Every effective change issues a
// request token; a completed fetch only lands in its own slot while its token
// is still the newest for that slot, and only reaches listeners while it
// matches the current selection.
// -----------------------------------------------------------------------------

type Controller struct {
	Charts ChartProvider
	Logger *logger.Logger

	ctx       context.Context
	mu        sync.Mutex
	category  string
	index     int
	period    string
	assets    map[string][]models.MAssetState
	seq       uint64
	latest    map[string]uint64
	current   Token
	listeners []func(models.MCarouselState)
	wg        sync.WaitGroup

	// Every snapshot handed to listeners carries a publish number taken
	// under mu; notifyMu keeps delivery in that order.
	pubSeq    uint64
	notifyMu  sync.Mutex
	published uint64
}

// -----------------------------------------------------------------------------

// NewController starts on the stocks category. Background fetches run under ctx.
func NewController(ctx context.Context, charts ChartProvider, period string, log *logger.Logger) *Controller {
	if !chart.IsKnownPeriod(period) {
		period = chart.DefaultPeriod
	}
	return &Controller{
		Charts:   charts,
		Logger:   log,
		ctx:      ctx,
		category: models.CategoryStocks,
		period:   period,
		assets: map[string][]models.MAssetState{
			models.CategoryStocks:      {},
			models.CategoryCommodities: DefaultCommodities(),
		},
		latest: make(map[string]uint64),
	}
}

// -----------------------------------------------------------------------------

// OnChange registers a listener for active-asset updates. Listeners run one
// at a time, newest state last, and must not call the navigation methods.
func (c *Controller) OnChange(fn func(models.MCarouselState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// -----------------------------------------------------------------------------

// Next advances the index, wrapping to 0 after the last asset.
func (c *Controller) Next() models.MCarouselState {
	return c.move(1)
}

// Prev steps back, wrapping to the last asset before 0.
func (c *Controller) Prev() models.MCarouselState {
	return c.move(-1)
}

func (c *Controller) move(step int) models.MCarouselState {
	c.mu.Lock()
	n := len(c.assets[c.category])
	if n == 0 {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}
	c.index = ((c.index+step)%n + n) % n
	return c.activateAndUnlock()
}

// -----------------------------------------------------------------------------

// SelectIndex jumps to asset i of the active category.
func (c *Controller) SelectIndex(i int) (models.MCarouselState, error) {
	c.mu.Lock()
	if n := len(c.assets[c.category]); i < 0 || i >= n {
		c.mu.Unlock()
		return models.MCarouselState{}, helpers.NewValidationError("index %d out of range [0,%d)", i, n)
	}
	c.index = i
	return c.activateAndUnlock(), nil
}

// -----------------------------------------------------------------------------

// SetCategory switches category and resets the index to 0.
func (c *Controller) SetCategory(category string) (models.MCarouselState, error) {
	c.mu.Lock()
	if _, ok := c.assets[category]; !ok {
		c.mu.Unlock()
		return models.MCarouselState{}, helpers.NewValidationError("unknown category %q", category)
	}
	c.category = category
	c.index = 0
	return c.activateAndUnlock(), nil
}

// -----------------------------------------------------------------------------

// SetPeriod changes the period of the active chart.
func (c *Controller) SetPeriod(period string) (models.MCarouselState, error) {
	if !chart.IsKnownPeriod(period) {
		return models.MCarouselState{}, helpers.NewValidationError("unknown period %q", period)
	}
	c.mu.Lock()
	c.period = period
	return c.activateAndUnlock(), nil
}

// -----------------------------------------------------------------------------

// SeedStocks replaces the stock list with the first MaxStocks quotes. An empty
// list keeps the current stocks.
func (c *Controller) SeedStocks(quotes []models.MQuote) {
	if len(quotes) == 0 {
		return
	}
	if len(quotes) > MaxStocks {
		quotes = quotes[:MaxStocks]
	}

	stocks := make([]models.MAssetState, len(quotes))
	for i, q := range quotes {
		stocks[i] = models.MAssetState{
			Symbol:        q.Symbol,
			Name:          q.Name,
			Category:      models.CategoryStocks,
			CurrentPrice:  q.Price,
			ChangePercent: q.ChangePercent,
			Currency:      q.Currency,
		}
	}

	c.mu.Lock()
	old := c.assets[models.CategoryStocks]
	for i := range stocks {
		// keep charts already loaded for the same symbol in the same slot
		if i < len(old) && old[i].Symbol == stocks[i].Symbol {
			stocks[i].Chart = old[i].Chart
			stocks[i].Stats = old[i].Stats
			stocks[i].Loading = old[i].Loading
		}
	}
	c.assets[models.CategoryStocks] = stocks

	if c.category != models.CategoryStocks {
		c.mu.Unlock()
		return
	}
	if c.index >= len(stocks) {
		c.index = 0
	}
	if c.current.Symbol == stocks[c.index].Symbol && c.current.Index == c.index &&
		c.current.Period == c.period && c.current.Category == c.category && c.current.Seq != 0 {
		c.mu.Unlock()
		return
	}
	c.activateAndUnlock()
}

// -----------------------------------------------------------------------------

// Current returns the token of the active selection.
func (c *Controller) Current() Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Snapshot copies the carousel state.
func (c *Controller) Snapshot() models.MCarouselState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Wait blocks until every background fetch has completed.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// -----------------------------------------------------------------------------

// activateAndUnlock issues a token for the current selection, must be called
// with c.mu held, and releases it before notifying listeners.
func (c *Controller) activateAndUnlock() models.MCarouselState {
	assets := c.assets[c.category]
	if len(assets) == 0 {
		c.current = Token{}
		snap, pub := c.publishLocked()
		c.mu.Unlock()
		c.notify(snap, pub)
		return snap
	}

	c.seq++
	asset := assets[c.index]
	token := Token{Category: c.category, Index: c.index, Symbol: asset.Symbol, Period: c.period, Seq: c.seq}
	c.latest[token.slot()] = token.Seq
	c.current = token

	if res, ok := c.Charts.Cached(token.Symbol, token.Period); ok {
		c.applyLocked(token, res)
	} else {
		assets[c.index].Loading = true
		c.wg.Add(1)
		go c.fetch(token)
	}

	snap, pub := c.publishLocked()
	c.mu.Unlock()
	c.notify(snap, pub)
	return snap
}

// -----------------------------------------------------------------------------

func (c *Controller) fetch(token Token) {
	defer c.wg.Done()

	res := c.Charts.Get(c.ctx, token.Category, token.Symbol, token.Period)

	c.mu.Lock()
	if c.latest[token.slot()] != token.Seq {
		c.mu.Unlock()
		c.Logger.Debug("Dropping stale chart %s/%s (seq %d)", token.Symbol, token.Period, token.Seq)
		return
	}
	if !c.applyLocked(token, res) {
		c.mu.Unlock()
		return
	}
	if token != c.current {
		c.mu.Unlock()
		return
	}
	snap, pub := c.publishLocked()
	c.mu.Unlock()
	c.notify(snap, pub)
}

// -----------------------------------------------------------------------------

// applyLocked writes res into the token's slot if that slot still holds the symbol.
func (c *Controller) applyLocked(token Token, res models.MChartResult) bool {
	assets := c.assets[token.Category]
	if token.Index >= len(assets) || assets[token.Index].Symbol != token.Symbol {
		return false
	}
	r := res
	assets[token.Index].Chart = &r
	assets[token.Index].Stats = chart.Stats(res.Series)
	assets[token.Index].Loading = false
	return true
}

// -----------------------------------------------------------------------------

func (c *Controller) snapshotLocked() models.MCarouselState {
	src := c.assets[c.category]
	assets := make([]models.MAssetState, len(src))
	copy(assets, src)

	state := models.MCarouselState{
		Category: c.category,
		Index:    c.index,
		Period:   c.period,
		Assets:   assets,
	}
	if c.index < len(assets) {
		active := assets[c.index]
		state.Active = &active
	}
	return state
}

// -----------------------------------------------------------------------------

// publishLocked snapshots the state and numbers it for notify.
func (c *Controller) publishLocked() (models.MCarouselState, uint64) {
	c.pubSeq++
	return c.snapshotLocked(), c.pubSeq
}

// -----------------------------------------------------------------------------

// notify delivers state unless a newer one has already been delivered.
func (c *Controller) notify(state models.MCarouselState, pub uint64) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if pub <= c.published {
		c.Logger.Debug("Dropping superseded carousel state %d", pub)
		return
	}
	c.published = pub

	c.mu.Lock()
	listeners := append([]func(models.MCarouselState){}, c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}
