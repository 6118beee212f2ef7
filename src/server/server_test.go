package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"market-dashboard/src/helpers"
	"market-dashboard/src/logger"
	"market-dashboard/src/metrics"
	"market-dashboard/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCharts struct {
	mu      sync.Mutex
	calls   []string
	cleared int
}

func (s *stubCharts) Get(_ context.Context, category, symbol, period string) models.MChartResult {
	s.mu.Lock()
	s.calls = append(s.calls, category+"|"+symbol+"|"+period)
	s.mu.Unlock()
	return models.MChartResult{
		Symbol: symbol,
		Period: period,
		Source: "stub",
		Status: models.ChartStatusLive,
		Series: models.MChartSeries{RawPrices: []float64{1, 2}, DisplayValues: []float64{0, 100}, Timestamps: []int64{1, 2}},
	}
}

func (s *stubCharts) View(res models.MChartResult) models.MChartView {
	return models.MChartView{MChartResult: res, Labels: []string{"a", "b"}, Stats: models.MChartStats{High: 2, Low: 1, Avg: 1.5}}
}

func (s *stubCharts) Invalidate(symbol string) int { return 2 }

func (s *stubCharts) Clear() int { return 7 }

type stubCarousel struct {
	state models.MCarouselState
}

func (s *stubCarousel) Snapshot() models.MCarouselState { return s.state }

func (s *stubCarousel) Next() models.MCarouselState {
	s.state.Index++
	return s.state
}

func (s *stubCarousel) Prev() models.MCarouselState {
	s.state.Index--
	return s.state
}

func (s *stubCarousel) SelectIndex(i int) (models.MCarouselState, error) {
	if i < 0 || i > 3 {
		return models.MCarouselState{}, helpers.NewValidationError("index %d out of range", i)
	}
	s.state.Index = i
	return s.state, nil
}

func (s *stubCarousel) SetCategory(category string) (models.MCarouselState, error) {
	if category != models.CategoryStocks && category != models.CategoryCommodities {
		return models.MCarouselState{}, helpers.NewValidationError("unknown category %q", category)
	}
	s.state.Category = category
	s.state.Index = 0
	return s.state, nil
}

func (s *stubCarousel) SetPeriod(period string) (models.MCarouselState, error) {
	s.state.Period = period
	return s.state, nil
}

type stubOverview struct{}

func (stubOverview) Latest() models.MMarketOverview {
	return models.MMarketOverview{Indices: []models.MQuote{{Symbol: "^NSEI", Price: 21000}}}
}

type stubNews struct{ fetched []string }

func (s *stubNews) Latest(category string) ([]models.MNewsItem, bool) {
	if category == "global" {
		return []models.MNewsItem{{ID: 1, Headline: "cached"}}, true
	}
	return nil, false
}

func (s *stubNews) Fetch(_ context.Context, category string) []models.MNewsItem {
	s.fetched = append(s.fetched, category)
	return []models.MNewsItem{{ID: 2, Headline: "fresh " + category}}
}

type stubChat struct{}

func (stubChat) Send(_ context.Context, req models.MChatRequest) models.MChatResponse {
	return models.MChatResponse{SessionID: "sid", Response: models.MChatReply{Message: "echo " + req.UserInput}}
}

func newTestServer(t *testing.T) (*DashboardServer, *stubCharts, *stubNews) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	charts := &stubCharts{}
	news := &stubNews{}
	srv := NewDashboardServer(models.MConfig{LogLevel: "DEBUG"}, Services{
		Charts:   charts,
		Carousel: &stubCarousel{state: models.MCarouselState{Category: models.CategoryStocks, Period: "1M"}},
		Overview: stubOverview{},
		News:     news,
		Chat:     stubChat{},
	}, metrics.NewMetrics(), logger.Nop())
	t.Cleanup(func() { srv.Stop() })
	return srv, charts, news
}

func do(t *testing.T, srv *DashboardServer, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestPeriods(t *testing.T) {
	srv, _, _ := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/api/periods", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Default string               `json:"default"`
		Periods []models.MPeriodSpec `json:"periods"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "1M", body.Default)
	assert.Len(t, body.Periods, 5)
}

func TestConfiguredDefaultPeriod(t *testing.T) {
	srv, charts, _ := newTestServer(t)
	srv.Config.Chart.DefaultPeriod = "1W"

	w := do(t, srv, http.MethodGet, "/api/periods", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"default":"1W"`)

	w = do(t, srv, http.MethodGet, "/api/chart?symbol=msft", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"stocks|MSFT|1W"}, charts.calls)
}

func TestChartRequiresSymbol(t *testing.T) {
	srv, _, _ := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/api/chart", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "symbol is required")
}

func TestChartDefaultsAndView(t *testing.T) {
	srv, charts, _ := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/api/chart?symbol=aapl", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"stocks|AAPL|1M"}, charts.calls)

	var view models.MChartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "AAPL", view.Symbol)
	assert.Equal(t, []string{"a", "b"}, view.Labels)
	assert.Equal(t, 2.0, view.Stats.High)
}

func TestNewsPrefersLatestSnapshot(t *testing.T) {
	srv, _, news := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/api/news", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cached")
	assert.Empty(t, news.fetched)

	w = do(t, srv, http.MethodGet, "/api/news?category=India", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fresh india")
	assert.Equal(t, []string{"india"}, news.fetched)
}

func TestChat(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/api/chat", `{"user_input":"hello"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "echo hello")

	w = do(t, srv, http.MethodPost, "/api/chat", `{"user_input":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, "/api/chat", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCarouselActions(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/api/carousel/next", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"index":1`)

	w = do(t, srv, http.MethodPost, "/api/carousel/select", `{"index":3}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"index":3`)

	w = do(t, srv, http.MethodPost, "/api/carousel/select", `{"index":9}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, "/api/carousel/select", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, "/api/carousel/category", `{"category":"Commodities"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"category":"commodities"`)

	w = do(t, srv, http.MethodPost, "/api/carousel/period", `{"period":"1y"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"period":"1Y"`)

	w = do(t, srv, http.MethodPost, "/api/carousel/spin", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodGet, "/api/carousel", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"period":"1Y"`)
}

func TestDeleteCache(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := do(t, srv, http.MethodDelete, "/api/cache", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cleared":7}`, w.Body.String())

	w = do(t, srv, http.MethodDelete, "/api/cache?symbol=aapl", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cleared":2}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dashboard_")
}

func TestCORSPreflight(t *testing.T) {
	srv, _, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/chart", nil)
	req.Header.Set("Origin", "http://127.0.0.1:3000")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://127.0.0.1:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func readUpdate(t *testing.T, conn *websocket.Conn) models.MDashboardUpdate {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var update models.MDashboardUpdate
	require.NoError(t, conn.ReadJSON(&update))
	return update
}

func TestWebSocketSubscribeReplaysAndStreams(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	srv.Broadcast(models.MDashboardUpdate{Topic: models.TopicNews, Payload: "first"})

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(models.MSubscribeCommand{Command: "subscribe", Topics: []string{models.TopicNews}}))

	initial := readUpdate(t, conn)
	assert.Equal(t, "INITIAL", initial.Type)
	assert.Equal(t, models.TopicNews, initial.Topic)
	assert.Equal(t, "first", initial.Payload)

	srv.Broadcast(models.MDashboardUpdate{Topic: models.TopicOverview, Payload: "ignored"})
	srv.Broadcast(models.MDashboardUpdate{Topic: models.TopicNews, Payload: "second"})

	next := readUpdate(t, conn)
	assert.Equal(t, "UPDATE", next.Type)
	assert.Equal(t, "second", next.Payload)
	assert.Equal(t, 1, srv.Connections())
}

func TestBroadcastRemembersLatestPerTopic(t *testing.T) {
	srv, _, _ := newTestServer(t)
	srv.Broadcast(models.MDashboardUpdate{Topic: models.TopicCarousel, Payload: 1})
	srv.Broadcast(models.MDashboardUpdate{Topic: models.TopicCarousel, Payload: 2})

	got, ok := srv.Latest(models.TopicCarousel)
	require.True(t, ok)
	assert.Equal(t, 2, got.Payload)
	assert.Equal(t, "UPDATE", got.Type)
	assert.NotZero(t, got.Timestamp)

	_, ok = srv.Latest(models.TopicChart)
	assert.False(t, ok)
}

func TestFilterTopics(t *testing.T) {
	assert.Equal(t, knownTopics, filterTopics(nil))
	assert.Equal(t, []string{"news"}, filterTopics([]string{"news", "bogus"}))
}
