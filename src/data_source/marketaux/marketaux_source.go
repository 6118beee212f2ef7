package marketaux

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"market-dashboard/src/helpers"
	"market-dashboard/src/interfaces"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"
)

const SourceName = "marketaux"

// ForexSearch is the keyword query used for the forex category.
const ForexSearch = `forex OR currency OR dollar OR euro OR pound OR yen OR "exchange rate" OR "central bank" OR fed OR ecb`

// maxRelated caps the entity symbols copied into MNewsItem.Related.
const maxRelated = 3

// MarketauxSource serves regional (india) and forex news.
type MarketauxSource struct {
	Config  models.MProviderConfig
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewMarketauxSource(cfg models.MProviderConfig, netMgr interfaces.INetworkManager, log *logger.Logger) *MarketauxSource {
	return &MarketauxSource{Config: cfg, Network: netMgr, Logger: log}
}

// -----------------------------------------------------------------------------

func (s *MarketauxSource) Name() string {
	return SourceName
}

// -----------------------------------------------------------------------------

// Supports reports whether category is served by Marketaux.
func Supports(category string) bool {
	return category == "india" || category == "forex"
}

// -----------------------------------------------------------------------------

type article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ImageURL    string `json:"image_url"`
	PublishedAt string `json:"published_at"`
	Source      string `json:"source"`
	Entities    []struct {
		Symbol string `json:"symbol"`
	} `json:"entities"`
}

type newsResponse struct {
	Data  []article `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// -----------------------------------------------------------------------------

// News returns raw items for india or forex. Articles without a title or
// description are dropped.
func (s *MarketauxSource) News(ctx context.Context, category string) ([]models.MNewsItem, error) {
	params := map[string]string{
		"filter_entities": "true",
		"language":        "en",
		"api_token":       s.Config.APIKey,
	}
	switch category {
	case "india":
		params["countries"] = "in"
	case "forex":
		params["search"] = ForexSearch
	default:
		return nil, helpers.NewValidationError("marketaux does not serve category %q", category)
	}

	body, err := s.Network.Get(ctx, s.Config.BaseURL+"/v1/news/all", params)
	if err != nil {
		return nil, err
	}

	var resp newsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, helpers.NewDataSourceError("malformed marketaux payload", err)
	}
	if resp.Error != nil {
		return nil, helpers.NewDataSourceError(fmt.Sprintf("marketaux error: %s", resp.Error.Message), nil)
	}

	items := make([]models.MNewsItem, 0, len(resp.Data))
	for _, a := range resp.Data {
		if a.Title == "" || a.Description == "" {
			continue
		}
		source := a.Source
		if source == "" {
			source = "Marketaux"
		}
		items = append(items, models.MNewsItem{
			ID:       int64(len(items)),
			Category: category,
			Datetime: publishedUnix(a.PublishedAt),
			Headline: a.Title,
			Summary:  a.Description,
			Source:   source,
			URL:      a.URL,
			Image:    a.ImageURL,
			Related:  relatedSymbols(a),
		})
	}
	s.Logger.Debug("Marketaux %s: %d/%d usable articles", category, len(items), len(resp.Data))
	return items, nil
}

// -----------------------------------------------------------------------------

func publishedUnix(s string) int64 {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return 0
	}
	return t.Unix()
}

// -----------------------------------------------------------------------------

func relatedSymbols(a article) string {
	symbols := make([]string, 0, maxRelated)
	for _, e := range a.Entities {
		if e.Symbol == "" {
			continue
		}
		symbols = append(symbols, e.Symbol)
		if len(symbols) == maxRelated {
			break
		}
	}
	return strings.Join(symbols, ",")
}
