package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"market-dashboard/src/chart"
	"market-dashboard/src/interfaces"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"
)

const SourceName = "alphavantage"

// windowDays is how many recent daily closes are considered before trimming to the chart width.
const windowDays = 30

const dateLayout = "2006-01-02"

type fxPair struct {
	From string
	To   string
}

var metals = map[string]fxPair{
	"GOLD":   {From: "XAU", To: "USD"},
	"SILVER": {From: "XAG", To: "USD"},
}

// AlphaVantageSource serves daily metal and crude oil series. Commodity
// charts are always daily, so the period only selects labels and fallback.
type AlphaVantageSource struct {
	Config  models.MProviderConfig
	Network interfaces.INetworkManager
	Logger  *logger.Logger
	Now     func() time.Time
}

// -----------------------------------------------------------------------------

func NewAlphaVantageSource(cfg models.MProviderConfig, netMgr interfaces.INetworkManager, log *logger.Logger) *AlphaVantageSource {
	return &AlphaVantageSource{
		Config:  cfg,
		Network: netMgr,
		Logger:  log,
		Now:     time.Now,
	}
}

// -----------------------------------------------------------------------------

func (s *AlphaVantageSource) Name() string {
	return SourceName
}

// -----------------------------------------------------------------------------

type dailyPoint struct {
	ts    int64
	price float64
}

// -----------------------------------------------------------------------------

// Fetch returns the recent daily closes for GOLD, SILVER or OIL.
func (s *AlphaVantageSource) Fetch(ctx context.Context, symbol, period string) models.MChartResult {
	now := s.Now()

	var points []dailyPoint
	var err error
	if pair, ok := metals[symbol]; ok {
		points, err = s.fetchFX(ctx, pair)
	} else if symbol == "OIL" {
		points, err = s.fetchWTI(ctx)
	} else {
		err = fmt.Errorf("unsupported commodity %q", symbol)
	}
	if err == nil && len(points) == 0 {
		err = fmt.Errorf("empty series")
	}
	if err != nil {
		s.Logger.Warning("No chart data for %s, using fallback: %v", symbol, err)
		return chart.Degraded(symbol, period, SourceName+": "+err.Error(), now)
	}

	points = recent(points, windowDays)
	points = recent(points, chart.DisplayPoints)

	prices := make([]float64, len(points))
	timestamps := make([]int64, len(points))
	for i, p := range points {
		prices[i] = p.price
		timestamps[i] = p.ts
	}
	s.Logger.Debug("Fetched %s: %d daily closes, last %.2f", symbol, len(prices), prices[len(prices)-1])
	return chart.FromRaw(symbol, period, SourceName, prices, timestamps, now)
}

// -----------------------------------------------------------------------------

// recent sorts points by date and keeps the newest n.
func recent(points []dailyPoint, n int) []dailyPoint {
	sort.Slice(points, func(i, j int) bool {
		return points[i].ts < points[j].ts
	})
	if len(points) > n {
		points = points[len(points)-n:]
	}
	return points
}

// -----------------------------------------------------------------------------

type fxResponse struct {
	Series       map[string]map[string]string `json:"Time Series FX (Daily)"`
	Note         string                       `json:"Note"`
	ErrorMessage string                       `json:"Error Message"`
}

// -----------------------------------------------------------------------------

func (s *AlphaVantageSource) fetchFX(ctx context.Context, pair fxPair) ([]dailyPoint, error) {
	body, err := s.Network.Get(ctx, s.Config.BaseURL+"/query", map[string]string{
		"function":    "FX_DAILY",
		"from_symbol": pair.From,
		"to_symbol":   pair.To,
		"apikey":      s.Config.APIKey,
	})
	if err != nil {
		return nil, err
	}

	var resp fxResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("malformed FX payload: %w", err)
	}
	if resp.Series == nil {
		return nil, fmt.Errorf("no FX series for %s/%s%s", pair.From, pair.To, apiMessage(resp.Note, resp.ErrorMessage))
	}

	points := make([]dailyPoint, 0, len(resp.Series))
	for date, values := range resp.Series {
		p, ok := parsePoint(date, values["4. close"])
		if ok {
			points = append(points, p)
		}
	}
	return points, nil
}

// -----------------------------------------------------------------------------

type wtiResponse struct {
	Data []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"data"`
	Note         string `json:"Note"`
	ErrorMessage string `json:"Error Message"`
}

// -----------------------------------------------------------------------------

func (s *AlphaVantageSource) fetchWTI(ctx context.Context) ([]dailyPoint, error) {
	body, err := s.Network.Get(ctx, s.Config.BaseURL+"/query", map[string]string{
		"function": "WTI",
		"interval": "daily",
		"apikey":   s.Config.APIKey,
	})
	if err != nil {
		return nil, err
	}

	var resp wtiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("malformed WTI payload: %w", err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("no WTI data%s", apiMessage(resp.Note, resp.ErrorMessage))
	}

	points := make([]dailyPoint, 0, len(resp.Data))
	for _, d := range resp.Data {
		// "." marks a day without a published value
		p, ok := parsePoint(d.Date, d.Value)
		if ok {
			points = append(points, p)
		}
	}
	return points, nil
}

// -----------------------------------------------------------------------------

func parsePoint(date, value string) (dailyPoint, bool) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return dailyPoint{}, false
	}
	price, err := strconv.ParseFloat(value, 64)
	if err != nil || price <= 0 {
		return dailyPoint{}, false
	}
	return dailyPoint{ts: t.Unix(), price: price}, true
}

// -----------------------------------------------------------------------------

func apiMessage(note, errMsg string) string {
	switch {
	case errMsg != "":
		return ": " + errMsg
	case note != "":
		return ": " + note
	}
	return ""
}
