package marketaux

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"market-dashboard/src/helpers"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"
	"market-dashboard/src/network"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSource(t *testing.T, handler http.HandlerFunc) *MarketauxSource {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	nm := network.NewNetworkManager(models.MNetworkConfig{RequestTimeout: 2, ConcurrentRequests: 1}, logger.Nop())
	return NewMarketauxSource(models.MProviderConfig{BaseURL: srv.URL, APIKey: "tok"}, nm, logger.Nop())
}

const indiaBody = `{"data":[
	{"title":"Sensex rallies","description":"Banks lead","url":"https://x/1","image_url":"https://x/1.png",
	 "published_at":"2024-01-15T14:30:00.000000Z","source":"economictimes.com",
	 "entities":[{"symbol":"HDFCBANK.NS"},{"symbol":"ICICIBANK.NS"},{"symbol":"SBIN.NS"},{"symbol":"AXISBANK.NS"}]},
	{"title":"","description":"dropped","url":"https://x/2"},
	{"title":"Rupee steady","description":"Flat","url":"https://x/3","published_at":"2024-01-15T15:00:00Z"}
]}`

func TestIndiaNews(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/news/all", r.URL.Path)
		assert.Equal(t, "in", r.URL.Query().Get("countries"))
		assert.Equal(t, "true", r.URL.Query().Get("filter_entities"))
		assert.Equal(t, "tok", r.URL.Query().Get("api_token"))
		w.Write([]byte(indiaBody))
	})

	items, err := src.News(context.Background(), "india")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, int64(0), items[0].ID)
	assert.Equal(t, "india", items[0].Category)
	assert.Equal(t, int64(1705329000), items[0].Datetime)
	assert.Equal(t, "HDFCBANK.NS,ICICIBANK.NS,SBIN.NS", items[0].Related)
	assert.Equal(t, "https://x/1.png", items[0].Image)

	assert.Equal(t, int64(1), items[1].ID)
	assert.Equal(t, "Marketaux", items[1].Source)
	assert.Equal(t, "", items[1].Related)
}

func TestForexNewsUsesKeywordSearch(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ForexSearch, r.URL.Query().Get("search"))
		assert.Empty(t, r.URL.Query().Get("countries"))
		w.Write([]byte(`{"data":[]}`))
	})

	items, err := src.News(context.Background(), "forex")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUnsupportedCategory(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := src.News(context.Background(), "merger")
	assert.True(t, helpers.IsValidation(err))
	assert.False(t, Supports("merger"))
	assert.True(t, Supports("forex"))
}

func TestAPIErrorPayload(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"code":"usage_limit_reached","message":"Usage limit reached"}}`))
	})

	_, err := src.News(context.Background(), "india")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Usage limit reached")
}
