package models

import "time"

// MQuote is a single instrument quote.
type MQuote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Currency      string  `json:"currency"`
}

// MCurrencyRate is a derived INR cross rate.
type MCurrencyRate struct {
	Pair   string  `json:"pair"`
	Rate   string  `json:"rate"`
	Change float64 `json:"change"`
	Symbol string  `json:"symbol"`
}

type MCurrencyRates struct {
	UsdInr MCurrencyRate `json:"usdInr"`
	EurInr MCurrencyRate `json:"eurInr"`
	GbpInr MCurrencyRate `json:"gbpInr"`
}

// MMarketOverview is the dashboard's market panel.
type MMarketOverview struct {
	Indices    []MQuote       `json:"indices"`
	Trending   []MQuote       `json:"trending"`
	Gainers    []MQuote       `json:"gainers"`
	Losers     []MQuote       `json:"losers"`
	Currencies MCurrencyRates `json:"currencies"`
	MarketOpen bool           `json:"market_open"`
	Degraded   []string       `json:"degraded,omitempty"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
