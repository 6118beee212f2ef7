package alphavantage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"market-dashboard/src/logger"
	"market-dashboard/src/models"
	"market-dashboard/src/network"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSource(t *testing.T, handler http.HandlerFunc) *AlphaVantageSource {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	nm := network.NewNetworkManager(models.MNetworkConfig{RequestTimeout: 2, ConcurrentRequests: 1}, logger.Nop())
	src := NewAlphaVantageSource(models.MProviderConfig{BaseURL: srv.URL, APIKey: "demo"}, nm, logger.Nop())
	src.Now = func() time.Time { return time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC) }
	return src
}

// fxBody builds n daily XAU closes: 2024-01-01 → 2000, +1 per day.
func fxBody(n int) string {
	entries := make([]string, 0, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		d := start.AddDate(0, 0, i).Format("2006-01-02")
		entries = append(entries, fmt.Sprintf(`"%s":{"4. close":"%d.0"}`, d, 2000+i))
	}
	return `{"Time Series FX (Daily)":{` + strings.Join(entries, ",") + `}}`
}

func TestFetchGoldKeepsNewestCloses(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "FX_DAILY", r.URL.Query().Get("function"))
		assert.Equal(t, "XAU", r.URL.Query().Get("from_symbol"))
		assert.Equal(t, "USD", r.URL.Query().Get("to_symbol"))
		w.Write([]byte(fxBody(40)))
	})

	res := src.Fetch(context.Background(), "GOLD", "1M")
	require.True(t, res.IsLive(), res.Reason)
	require.Len(t, res.Series.RawPrices, 25)
	assert.Equal(t, 2015.0, res.Series.RawPrices[0])
	assert.Equal(t, 2039.0, res.Series.RawPrices[24])
	assert.Equal(t, time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC).Unix(), res.Series.Timestamps[24])
	for i := 1; i < 25; i++ {
		assert.Less(t, res.Series.Timestamps[i-1], res.Series.Timestamps[i])
	}
}

func TestFetchOilSkipsMissingValues(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "WTI", r.URL.Query().Get("function"))
		assert.Equal(t, "daily", r.URL.Query().Get("interval"))
		w.Write([]byte(`{"data":[{"date":"2024-01-03","value":"72.5"},{"date":"2024-01-02","value":"."},{"date":"2024-01-01","value":"70.0"}]}`))
	})

	res := src.Fetch(context.Background(), "OIL", "1W")
	require.True(t, res.IsLive())
	assert.Equal(t, []float64{70, 72.5}, res.Series.RawPrices)
}

func TestFetchRateLimitNoteDegrades(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note":"Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute"}`))
	})

	res := src.Fetch(context.Background(), "SILVER", "1M")
	assert.Equal(t, models.ChartStatusDegraded, res.Status)
	assert.Contains(t, res.Reason, "call frequency")
	for _, p := range res.Series.RawPrices {
		assert.InDelta(t, 24, p, 3)
	}
}

func TestFetchUnknownCommodityDegrades(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	res := src.Fetch(context.Background(), "COPPER", "1M")
	assert.False(t, res.IsLive())
	assert.Contains(t, res.Reason, "COPPER")
}
