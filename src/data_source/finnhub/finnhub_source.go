package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"market-dashboard/src/chart"
	"market-dashboard/src/helpers"
	"market-dashboard/src/interfaces"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"
)

const SourceName = "finnhub"

// FinnhubSource serves equity candles, quotes and category news.
type FinnhubSource struct {
	Config  models.MProviderConfig
	Network interfaces.INetworkManager
	Logger  *logger.Logger
	Now     func() time.Time
}

// -----------------------------------------------------------------------------

func NewFinnhubSource(cfg models.MProviderConfig, netMgr interfaces.INetworkManager, log *logger.Logger) *FinnhubSource {
	return &FinnhubSource{
		Config:  cfg,
		Network: netMgr,
		Logger:  log,
		Now:     time.Now,
	}
}

// -----------------------------------------------------------------------------

func (s *FinnhubSource) Name() string {
	return SourceName
}

// -----------------------------------------------------------------------------

type candleResponse struct {
	Status string    `json:"s"`
	Close  []float64 `json:"c"`
	Time   []int64   `json:"t"`
}

// -----------------------------------------------------------------------------

// Fetch returns the candle closes for symbol over the period lookback.
func (s *FinnhubSource) Fetch(ctx context.Context, symbol, period string) models.MChartResult {
	spec := chart.Lookup(period)
	now := s.Now()
	from := now.Add(-time.Duration(spec.LookbackDays) * 24 * time.Hour)

	body, err := s.Network.Get(ctx, s.Config.BaseURL+"/stock/candle", map[string]string{
		"symbol":     symbol,
		"resolution": spec.Resolution,
		"from":       strconv.FormatInt(from.Unix(), 10),
		"to":         strconv.FormatInt(now.Unix(), 10),
		"token":      s.Config.APIKey,
	})
	if err != nil {
		return s.degrade(symbol, period, err, now)
	}

	var resp candleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return s.degrade(symbol, period, fmt.Errorf("malformed candle payload: %w", err), now)
	}
	if resp.Status != "ok" || len(resp.Close) == 0 {
		return s.degrade(symbol, period, fmt.Errorf("no candle data (status %q)", resp.Status), now)
	}

	return chart.FromRaw(symbol, period, SourceName, resp.Close, resp.Time, now)
}

// -----------------------------------------------------------------------------

func (s *FinnhubSource) degrade(symbol, period string, err error, now time.Time) models.MChartResult {
	s.Logger.Warning("No chart data for %s/%s, using fallback: %v", symbol, period, err)
	return chart.Degraded(symbol, period, SourceName+": "+err.Error(), now)
}

// -----------------------------------------------------------------------------

type quoteResponse struct {
	Current       *float64 `json:"c"`
	Change        *float64 `json:"d"`
	ChangePercent *float64 `json:"dp"`
}

// -----------------------------------------------------------------------------

// Quote returns the latest price; a zero or missing price is an error.
func (s *FinnhubSource) Quote(ctx context.Context, symbol string) (models.MQuote, error) {
	body, err := s.Network.Get(ctx, s.Config.BaseURL+"/quote", map[string]string{
		"symbol": symbol,
		"token":  s.Config.APIKey,
	})
	if err != nil {
		return models.MQuote{}, err
	}

	var resp quoteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.MQuote{}, helpers.NewDataSourceError("malformed quote for "+symbol, err)
	}
	if resp.Current == nil || *resp.Current == 0 {
		return models.MQuote{}, helpers.NewDataSourceError("invalid quote for "+symbol, nil)
	}

	q := models.MQuote{Symbol: symbol, Name: symbol, Price: *resp.Current, Currency: "$"}
	if resp.Change != nil {
		q.Change = *resp.Change
	}
	if resp.ChangePercent != nil {
		q.ChangePercent = *resp.ChangePercent
	}
	return q, nil
}

// -----------------------------------------------------------------------------

type newsArticle struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// -----------------------------------------------------------------------------

// News returns raw (uncleaned) market news. "global" maps to Finnhub's "general".
func (s *FinnhubSource) News(ctx context.Context, category string) ([]models.MNewsItem, error) {
	remote := strings.ToLower(category)
	if remote == "global" || remote == "" {
		remote = "general"
	}

	body, err := s.Network.Get(ctx, s.Config.BaseURL+"/news", map[string]string{
		"category": remote,
		"token":    s.Config.APIKey,
	})
	if err != nil {
		return nil, err
	}

	var articles []newsArticle
	if err := json.Unmarshal(body, &articles); err != nil {
		return nil, helpers.NewDataSourceError("malformed news payload", err)
	}

	items := make([]models.MNewsItem, 0, len(articles))
	for _, a := range articles {
		items = append(items, models.MNewsItem{
			ID:       a.ID,
			Category: category,
			Datetime: a.Datetime,
			Headline: a.Headline,
			Summary:  a.Summary,
			Source:   a.Source,
			URL:      a.URL,
			Image:    a.Image,
			Related:  a.Related,
		})
	}
	return items, nil
}
