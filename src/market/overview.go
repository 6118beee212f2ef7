package market

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"market-dashboard/src/interfaces"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"
	"market-dashboard/src/utils"
)

// Instrument is a tracked symbol with its display name and quote source.
type Instrument struct {
	Symbol   string
	Name     string
	Currency string
	Index    bool // quoted through the index source
}

var DefaultIndices = []Instrument{
	{Symbol: "SPY", Name: "S&P 500", Currency: "$"},
	{Symbol: "QQQ", Name: "NASDAQ", Currency: "$"},
	{Symbol: "DIA", Name: "DOW JONES", Currency: "$"},
	{Symbol: "^NSEI", Name: "NIFTY 50", Currency: "₹", Index: true},
}

var DefaultTrending = []Instrument{
	{Symbol: "NVDA", Name: "NVIDIA Corp", Currency: "$"},
	{Symbol: "TSLA", Name: "Tesla Inc", Currency: "$"},
	{Symbol: "AAPL", Name: "Apple Inc", Currency: "$"},
	{Symbol: "MSFT", Name: "Microsoft Corp", Currency: "$"},
	{Symbol: "GOOGL", Name: "Alphabet Inc", Currency: "$"},
}

const (
	trendingLimit = 5
	moversLimit   = 3
	// quoteConcurrency bounds in-flight quote requests per refresh.
	quoteConcurrency = 4
)

// -----------------------------------------------------------------------------
// OverviewService assembles the market panel. Sections with no usable quotes
// fall back to mock data and are listed in MMarketOverview.Degraded.
// -----------------------------------------------------------------------------

type OverviewService struct {
	Quotes      interfaces.IQuoteSource
	IndexQuotes interfaces.IQuoteSource
	Currency    *CurrencyClient
	Market      *utils.MarketScheduler // optional
	Indices     []Instrument
	Trending    []Instrument
	Logger      *logger.Logger
	Now         func() time.Time

	mu     sync.RWMutex
	latest *models.MMarketOverview
}

// -----------------------------------------------------------------------------

func NewOverviewService(quotes, indexQuotes interfaces.IQuoteSource, currency *CurrencyClient, log *logger.Logger) *OverviewService {
	return &OverviewService{
		Quotes:      quotes,
		IndexQuotes: indexQuotes,
		Currency:    currency,
		Indices:     DefaultIndices,
		Trending:    DefaultTrending,
		Logger:      log,
		Now:         time.Now,
	}
}

// -----------------------------------------------------------------------------

// Refresh fetches indices, trending quotes and currency rates concurrently.
func (s *OverviewService) Refresh(ctx context.Context) models.MMarketOverview {
	var indices, trending []models.MQuote
	var currencies models.MCurrencyRates
	var currencyLive bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		indices = s.fetchQuotes(gctx, s.Indices)
		return nil
	})
	g.Go(func() error {
		trending = s.fetchQuotes(gctx, s.Trending)
		return nil
	})
	g.Go(func() error {
		currencies, currencyLive = s.Currency.Rates(gctx)
		return nil
	})
	_ = g.Wait()

	overview := models.MMarketOverview{Currencies: currencies, UpdatedAt: s.Now().UTC()}
	if !currencyLive {
		overview.Degraded = append(overview.Degraded, "currencies")
	}

	if len(indices) == 0 {
		indices = MockIndices()
		overview.Degraded = append(overview.Degraded, "indices")
	}
	overview.Indices = indices

	if len(trending) == 0 {
		overview.Trending = MockTrending()
		overview.Gainers = MockGainers()
		overview.Losers = MockLosers()
		overview.Degraded = append(overview.Degraded, "trending")
	} else {
		overview.Trending, overview.Gainers, overview.Losers = Rank(trending)
		if len(overview.Gainers) == 0 {
			overview.Gainers = MockGainers()
			overview.Degraded = append(overview.Degraded, "gainers")
		}
		if len(overview.Losers) == 0 {
			overview.Losers = MockLosers()
			overview.Degraded = append(overview.Degraded, "losers")
		}
	}

	if s.Market != nil {
		overview.MarketOpen = s.Market.AnyMarketOpenAt(overview.UpdatedAt)
	}

	s.mu.Lock()
	s.latest = &overview
	s.mu.Unlock()

	s.Logger.Info("Market overview refreshed: %d indices, %d trending, degraded=%v", len(overview.Indices), len(overview.Trending), overview.Degraded)
	return overview
}

// -----------------------------------------------------------------------------

// Latest returns the last refreshed overview, or mock data before the first refresh.
func (s *OverviewService) Latest() models.MMarketOverview {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		mock := MockOverview()
		mock.Degraded = []string{"indices", "trending", "currencies"}
		return mock
	}
	return *s.latest
}

// -----------------------------------------------------------------------------

// Symbols lists every tracked instrument, indices first.
func (s *OverviewService) Symbols() []string {
	out := make([]string, 0, len(s.Indices)+len(s.Trending))
	for _, in := range s.Indices {
		out = append(out, in.Symbol)
	}
	for _, in := range s.Trending {
		out = append(out, in.Symbol)
	}
	return out
}

// -----------------------------------------------------------------------------

// fetchQuotes quotes every instrument, dropping failures; input order is kept.
func (s *OverviewService) fetchQuotes(ctx context.Context, instruments []Instrument) []models.MQuote {
	results := make([]*models.MQuote, len(instruments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(quoteConcurrency)
	for i, in := range instruments {
		g.Go(func() error {
			source := s.Quotes
			if in.Index && s.IndexQuotes != nil {
				source = s.IndexQuotes
			}
			q, err := source.Quote(gctx, in.Symbol)
			if err != nil || q.Price <= 0 {
				s.Logger.Warning("No quote for %s: %v", in.Symbol, err)
				return nil
			}
			q.Symbol = in.Symbol
			q.Name = in.Name
			q.Currency = in.Currency
			results[i] = &q
			return nil
		})
	}
	_ = g.Wait()

	quotes := make([]models.MQuote, 0, len(results))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes
}

// -----------------------------------------------------------------------------

// Rank orders quotes by absolute move (top 5) and splits the top 3 gainers
// (largest rise first) and losers (largest fall first).
func Rank(quotes []models.MQuote) (trending, gainers, losers []models.MQuote) {
	trending = append([]models.MQuote(nil), quotes...)
	sort.SliceStable(trending, func(i, j int) bool {
		return math.Abs(trending[i].ChangePercent) > math.Abs(trending[j].ChangePercent)
	})
	if len(trending) > trendingLimit {
		trending = trending[:trendingLimit]
	}

	for _, q := range quotes {
		switch {
		case q.ChangePercent > 0:
			gainers = append(gainers, q)
		case q.ChangePercent < 0:
			losers = append(losers, q)
		}
	}
	sort.SliceStable(gainers, func(i, j int) bool { return gainers[i].ChangePercent > gainers[j].ChangePercent })
	sort.SliceStable(losers, func(i, j int) bool { return losers[i].ChangePercent < losers[j].ChangePercent })
	if len(gainers) > moversLimit {
		gainers = gainers[:moversLimit]
	}
	if len(losers) > moversLimit {
		losers = losers[:moversLimit]
	}
	return trending, gainers, losers
}
