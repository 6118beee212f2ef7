package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"time"

	"market-dashboard/src/analysis/core"
	"market-dashboard/src/chart"
	"market-dashboard/src/helpers"
	"market-dashboard/src/interfaces"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"
)

const SourceName = "yahoo"

// rangeParams maps a period token onto Yahoo's interval/range pair.
var rangeParams = map[string][2]string{
	"1D": {"5m", "1d"},
	"1W": {"30m", "5d"},
	"1M": {"1d", "1mo"},
	"3M": {"1d", "3mo"},
	"1Y": {"1wk", "1y"},
}

// YahooFinanceSource serves chart closes and index quotes from the v8 chart API.
type YahooFinanceSource struct {
	Config  models.MProviderConfig
	Network interfaces.INetworkManager
	Logger  *logger.Logger
	Now     func() time.Time
}

// -----------------------------------------------------------------------------

func NewYahooFinanceSource(cfg models.MProviderConfig, netMgr interfaces.INetworkManager, log *logger.Logger) *YahooFinanceSource {
	return &YahooFinanceSource{
		Config:  cfg,
		Network: netMgr,
		Logger:  log,
		Now:     time.Now,
	}
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) Name() string {
	return SourceName
}

// -----------------------------------------------------------------------------

type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				ExchangeName       string  `json:"exchangeName"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
				DataGranularity    string  `json:"dataGranularity"`
				Range              string  `json:"range"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"` // null for missing bars
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) fetchChart(ctx context.Context, symbol, interval, rangeStr string) (*YahooChartResponse, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", s.Config.BaseURL, url.PathEscape(symbol))
	respBytes, err := s.Network.Get(ctx, endpoint, map[string]string{
		"interval":       interval,
		"range":          rangeStr,
		"includePrePost": "false",
	})
	if err != nil {
		return nil, err
	}

	var resp YahooChartResponse
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return nil, helpers.NewDataSourceError("json unmarshal failed", err)
	}
	if resp.Chart.Error != nil {
		return nil, helpers.NewDataSourceError(fmt.Sprintf("yahoo api error: %s - %s", resp.Chart.Error.Code, resp.Chart.Error.Description), nil)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, helpers.NewDataSourceError("no result in response for "+symbol, nil)
	}
	return &resp, nil
}

// -----------------------------------------------------------------------------

// Fetch returns the close series for symbol over the period's range.
func (s *YahooFinanceSource) Fetch(ctx context.Context, symbol, period string) models.MChartResult {
	now := s.Now()
	params, ok := rangeParams[chart.Lookup(period).Token]
	if !ok {
		params = rangeParams[chart.DefaultPeriod]
	}

	resp, err := s.fetchChart(ctx, symbol, params[0], params[1])
	if err != nil {
		s.Logger.Warning("No chart data for %s/%s, using fallback: %v", symbol, period, err)
		return chart.Degraded(symbol, period, SourceName+": "+err.Error(), now)
	}

	prices, timestamps, err := parseCloses(resp)
	if err != nil {
		s.Logger.Warning("No chart data for %s/%s, using fallback: %v", symbol, period, err)
		return chart.Degraded(symbol, period, SourceName+": "+err.Error(), now)
	}

	s.Logger.Debug("Fetched %s: %d valid points [%d -> %d]", symbol, len(prices), timestamps[0], timestamps[len(timestamps)-1])
	return chart.FromRaw(symbol, period, SourceName, prices, timestamps, now)
}

// -----------------------------------------------------------------------------

// parseCloses pairs timestamps with non-null positive closes, sorted by time.
func parseCloses(resp *YahooChartResponse) ([]float64, []int64, error) {
	result := resp.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, nil, fmt.Errorf("no quote data in response")
	}

	closes := result.Indicators.Quote[0].Close
	n := len(result.Timestamp)
	if len(closes) < n {
		n = len(closes)
	}

	type point struct {
		ts    int64
		close float64
	}
	points := make([]point, 0, n)
	for i := 0; i < n; i++ {
		if closes[i] == nil || *closes[i] <= 0 {
			continue
		}
		points = append(points, point{ts: result.Timestamp[i], close: *closes[i]})
	}
	if len(points) == 0 {
		return nil, nil, fmt.Errorf("no valid data points")
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].ts < points[j].ts
	})

	prices := make([]float64, len(points))
	timestamps := make([]int64, len(points))
	for i, p := range points {
		prices[i] = p.close
		timestamps[i] = p.ts
	}
	return prices, timestamps, nil
}

// -----------------------------------------------------------------------------

// Quote reads the regular market price against the previous close.
func (s *YahooFinanceSource) Quote(ctx context.Context, symbol string) (models.MQuote, error) {
	resp, err := s.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return models.MQuote{}, err
	}

	meta := resp.Chart.Result[0].Meta
	if meta.RegularMarketPrice <= 0 {
		return models.MQuote{}, helpers.NewDataSourceError("invalid quote for "+symbol, nil)
	}

	change := 0.0
	if meta.ChartPreviousClose > 0 {
		change = meta.RegularMarketPrice - meta.ChartPreviousClose
	}
	return models.MQuote{
		Symbol:        symbol,
		Name:          symbol,
		Price:         meta.RegularMarketPrice,
		Change:        change,
		ChangePercent: core.CalculateChangePercent(meta.RegularMarketPrice, meta.ChartPreviousClose),
	}, nil
}
