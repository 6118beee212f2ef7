package datasource

import (
	"context"
	"testing"
	"time"

	"market-dashboard/src/logger"
	"market-dashboard/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	name  string
	calls []string
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Fetch(_ context.Context, symbol, period string) models.MChartResult {
	s.calls = append(s.calls, symbol+"/"+period)
	return models.MChartResult{Symbol: symbol, Period: period, Source: s.name, Status: models.ChartStatusLive}
}

func TestFetchRoutesByCategory(t *testing.T) {
	stocks := &stubAdapter{name: "stocks-src"}
	metals := &stubAdapter{name: "metals-src"}

	reg := NewSourceRegistry(logger.Nop())
	reg.Register(models.CategoryStocks, stocks)
	reg.Register(models.CategoryCommodities, metals)

	res := reg.Fetch(context.Background(), models.CategoryStocks, "AAPL", "1W")
	assert.Equal(t, "stocks-src", res.Source)
	assert.Equal(t, []string{"AAPL/1W"}, stocks.calls)
	assert.Empty(t, metals.calls)

	assert.Equal(t, []string{models.CategoryCommodities, models.CategoryStocks}, reg.CategoryNames())
}

func TestOverrideWinsOverCategory(t *testing.T) {
	stocks := &stubAdapter{name: "finnhub"}
	index := &stubAdapter{name: "yahoo"}

	reg := NewSourceRegistry(logger.Nop())
	reg.Register(models.CategoryStocks, stocks)
	reg.Override("^nsei", index)

	adapter, err := reg.Resolve(models.CategoryStocks, "^NSEI")
	require.NoError(t, err)
	assert.Equal(t, "yahoo", adapter.Name())
	assert.Equal(t, "yahoo", reg.Routes()["^NSEI"])
}

func TestUnknownCategoryDegrades(t *testing.T) {
	reg := NewSourceRegistry(logger.Nop())
	reg.Now = func() time.Time { return time.Unix(1705329000, 0) }

	res := reg.Fetch(context.Background(), "crypto", "BTC", "1M")
	assert.Equal(t, models.ChartStatusDegraded, res.Status)
	assert.Contains(t, res.Reason, "crypto")
	assert.Len(t, res.Series.RawPrices, 25)

	assert.Error(t, reg.RemoveCategory("crypto"))
}
