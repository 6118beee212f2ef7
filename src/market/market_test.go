package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"market-dashboard/src/logger"
	"market-dashboard/src/models"
	"market-dashboard/src/network"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubQuotes map[string]models.MQuote

func (s stubQuotes) Quote(_ context.Context, symbol string) (models.MQuote, error) {
	q, ok := s[symbol]
	if !ok {
		return models.MQuote{}, errors.New("no quote")
	}
	return q, nil
}

func newCurrencyClient(t *testing.T, handler http.HandlerFunc) *CurrencyClient {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	nm := network.NewNetworkManager(models.MNetworkConfig{RequestTimeout: 2, ConcurrentRequests: 1}, logger.Nop())
	return NewCurrencyClient(models.MProviderConfig{BaseURL: srv.URL}, nm, logger.Nop())
}

func TestCrossRates(t *testing.T) {
	rates, err := CrossRates(map[string]float64{"INR": 83.12, "EUR": 0.92, "GBP": 0.79})
	require.NoError(t, err)

	assert.Equal(t, "83.12", rates.UsdInr.Rate)
	assert.Equal(t, "90.35", rates.EurInr.Rate)
	assert.Equal(t, "105.22", rates.GbpInr.Rate)
	assert.Equal(t, 0.2, rates.UsdInr.Change)
	assert.Equal(t, -0.1, rates.EurInr.Change)
	assert.Equal(t, 0.3, rates.GbpInr.Change)
	assert.Equal(t, "₹", rates.GbpInr.Symbol)

	_, err = CrossRates(map[string]float64{"INR": 83})
	assert.Error(t, err)
}

func TestCurrencyClientKeepsLastGoodRates(t *testing.T) {
	var fail atomic.Bool
	client := newCurrencyClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/latest/USD", r.URL.Path)
		if fail.Load() {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"base":"USD","rates":{"INR":84,"EUR":0.8,"GBP":0.75}}`))
	})

	rates, live := client.Rates(context.Background())
	assert.True(t, live)
	assert.Equal(t, "105.00", rates.EurInr.Rate)

	fail.Store(true)
	rates, live = client.Rates(context.Background())
	assert.False(t, live)
	assert.Equal(t, "84.00", rates.UsdInr.Rate)
}

func TestCurrencyClientFallback(t *testing.T) {
	client := newCurrencyClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rates, live := client.Rates(context.Background())
	assert.False(t, live)
	assert.Equal(t, MockCurrencies(), rates)
}

func TestRank(t *testing.T) {
	trending, gainers, losers := Rank(MockTrending())

	symbols := func(qs []models.MQuote) []string {
		out := make([]string, len(qs))
		for i, q := range qs {
			out[i] = q.Symbol
		}
		return out
	}
	assert.Equal(t, []string{"NVDA", "MSFT", "TSLA", "AAPL", "GOOGL"}, symbols(trending))
	assert.Equal(t, []string{"NVDA", "MSFT", "AAPL"}, symbols(gainers))
	assert.Equal(t, []string{"TSLA"}, symbols(losers))
}

func TestRefreshUsesLiveQuotes(t *testing.T) {
	quotes := stubQuotes{
		"SPY":  {Price: 480, Change: 1, ChangePercent: 0.2},
		"NVDA": {Price: 500, ChangePercent: 3},
		"TSLA": {Price: 240, ChangePercent: -2},
		"AAPL": {Price: 190, ChangePercent: -0.5},
	}
	index := stubQuotes{"^NSEI": {Price: 24000, ChangePercent: 0.5}}
	currency := newCurrencyClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":{"INR":83,"EUR":0.9,"GBP":0.8}}`))
	})

	svc := NewOverviewService(quotes, index, currency, logger.Nop())
	svc.Now = func() time.Time { return time.Unix(1705329000, 0) }

	ov := svc.Refresh(context.Background())
	require.Len(t, ov.Indices, 2)
	assert.Equal(t, "S&P 500", ov.Indices[0].Name)
	assert.Equal(t, "NIFTY 50", ov.Indices[1].Name)
	assert.Equal(t, "₹", ov.Indices[1].Currency)

	require.Len(t, ov.Trending, 3)
	assert.Equal(t, "NVIDIA Corp", ov.Trending[0].Name)
	assert.Equal(t, []models.MQuote{ov.Trending[0]}, ov.Gainers)
	require.Len(t, ov.Losers, 2)
	assert.Equal(t, "TSLA", ov.Losers[0].Symbol)
	assert.Empty(t, ov.Degraded)

	assert.Equal(t, ov, svc.Latest())
}

func TestRefreshFallsBackToMocks(t *testing.T) {
	currency := newCurrencyClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	svc := NewOverviewService(stubQuotes{}, nil, currency, logger.Nop())

	ov := svc.Refresh(context.Background())
	assert.Equal(t, MockIndices(), ov.Indices)
	assert.Equal(t, MockTrending(), ov.Trending)
	assert.Equal(t, MockGainers(), ov.Gainers)
	assert.Equal(t, MockLosers(), ov.Losers)
	assert.ElementsMatch(t, []string{"indices", "trending", "currencies"}, ov.Degraded)
}

func TestLatestBeforeRefreshIsMock(t *testing.T) {
	svc := NewOverviewService(stubQuotes{}, nil, nil, logger.Nop())
	assert.Equal(t, MockIndices(), svc.Latest().Indices)
	assert.Equal(t, []string{"SPY", "QQQ", "DIA", "^NSEI", "NVDA", "TSLA", "AAPL", "MSFT", "GOOGL"}, svc.Symbols())
}
