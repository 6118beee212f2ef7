package interfaces

import (
	"context"

	"market-dashboard/src/models"
)

// -----------------------------------------------------------------------------
// ISourceAdapter fetches a chart series for a symbol and period from one provider.
// -----------------------------------------------------------------------------

type ISourceAdapter interface {

	// Name returns the provider identifier (used in results and metrics).
	Name() string

	// -----------------------------------------------------------------------------

	// Fetch never fails: provider errors produce a degraded result carrying a
	// synthetic series and the reason.
	Fetch(ctx context.Context, symbol, period string) models.MChartResult
}

// -----------------------------------------------------------------------------
// IQuoteSource returns the latest quote for a symbol.
// -----------------------------------------------------------------------------

type IQuoteSource interface {
	Quote(ctx context.Context, symbol string) (models.MQuote, error)
}

// -----------------------------------------------------------------------------
// INewsSource returns uncleaned news items for a category.
// -----------------------------------------------------------------------------

type INewsSource interface {
	News(ctx context.Context, category string) ([]models.MNewsItem, error)
}

// -----------------------------------------------------------------------------
// IChartRouter fetches a chart after routing (category, symbol) to an adapter.
// -----------------------------------------------------------------------------

type IChartRouter interface {
	Fetch(ctx context.Context, category, symbol, period string) models.MChartResult
}
