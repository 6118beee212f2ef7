package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"market-dashboard/src/interfaces"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"
)

// OverviewRefresher produces a market overview.
type OverviewRefresher interface {
	Refresh(ctx context.Context) models.MMarketOverview
}

// NewsFetcher produces a category feed.
type NewsFetcher interface {
	Fetch(ctx context.Context, category string) []models.MNewsItem
}

// StockSeeder receives the trending quotes that populate the carousel.
type StockSeeder interface {
	SeedStocks(quotes []models.MQuote)
}

// MarketClock reports whether any tracked market is trading.
type MarketClock interface {
	AnyMarketOpen() bool
}

// -----------------------------------------------------------------------------
// OverviewJob refreshes the market panel, reseeds the carousel stocks and
// pushes the result. With MarketHoursOnly, refreshes after the first are
// skipped while every market is closed.
// -----------------------------------------------------------------------------

type OverviewJob struct {
	Overview        OverviewRefresher
	Carousel        StockSeeder               // optional
	Exchange        interfaces.IDataExchanger // optional
	Market          MarketClock               // optional
	MarketHoursOnly bool
	Logger          *logger.Logger

	loaded atomic.Bool
}

func (j *OverviewJob) Name() string { return "overview" }

func (j *OverviewJob) Run(ctx context.Context) error {
	if j.MarketHoursOnly && j.loaded.Load() && j.Market != nil && !j.Market.AnyMarketOpen() {
		j.Logger.Debug("All markets closed, skipping overview refresh")
		return nil
	}

	overview := j.Overview.Refresh(ctx)
	j.loaded.Store(true)

	if j.Carousel != nil {
		j.Carousel.SeedStocks(overview.Trending)
	}
	if j.Exchange != nil {
		j.Exchange.Broadcast(models.MDashboardUpdate{
			Type:      "UPDATE",
			Topic:     models.TopicOverview,
			Timestamp: overview.UpdatedAt.Unix(),
			Payload:   overview,
		})
	}
	return ctx.Err()
}

// -----------------------------------------------------------------------------

// NewsJob refreshes one news category and pushes it.
type NewsJob struct {
	News     NewsFetcher
	Category string
	Exchange interfaces.IDataExchanger // optional
	Now      func() time.Time
}

func (j *NewsJob) Name() string { return "news:" + j.Category }

func (j *NewsJob) Run(ctx context.Context) error {
	items := j.News.Fetch(ctx, j.Category)
	if j.Exchange != nil {
		now := time.Now
		if j.Now != nil {
			now = j.Now
		}
		j.Exchange.Broadcast(models.MDashboardUpdate{
			Type:      "UPDATE",
			Topic:     models.TopicNews,
			Timestamp: now().Unix(),
			Payload:   map[string]interface{}{"category": j.Category, "items": items},
		})
	}
	return ctx.Err()
}

// -----------------------------------------------------------------------------

// CleanupJob prunes chart snapshots past retention.
type CleanupJob struct {
	Store  interfaces.IDatabase
	Logger *logger.Logger
}

func (j *CleanupJob) Name() string { return "snapshot-cleanup" }

func (j *CleanupJob) Run(ctx context.Context) error {
	n, err := j.Store.CleanupOldData(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		j.Logger.Info("Removed %d expired chart snapshots", n)
	}
	return nil
}
