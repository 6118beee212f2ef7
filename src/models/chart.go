package models

import "time"

// Chart result statuses.
const (
	ChartStatusLive     = "live"
	ChartStatusDegraded = "degraded"
)

// MPeriodSpec is the static sampling configuration of a period token.
type MPeriodSpec struct {
	Token        string `json:"token"`
	Resolution   string `json:"resolution"`
	LookbackDays int    `json:"lookback_days"`
}

// MChartSeries is the renderable output of the chart pipeline.
// DisplayValues, RawPrices and Timestamps are index-aligned.
type MChartSeries struct {
	DisplayValues []float64 `json:"data" msgpack:"d"`
	RawPrices     []float64 `json:"raw_prices" msgpack:"p"`
	Timestamps    []int64   `json:"timestamps" msgpack:"t"`
	Min           float64   `json:"min" msgpack:"lo"`
	Max           float64   `json:"max" msgpack:"hi"`
}

// Len returns the number of points in the series.
func (s MChartSeries) Len() int {
	return len(s.RawPrices)
}

// MChartResult wraps a series with its provenance. Degraded results carry
// synthetic data and the reason the live fetch was abandoned.
type MChartResult struct {
	Symbol    string       `json:"symbol" msgpack:"symbol"`
	Period    string       `json:"period" msgpack:"period"`
	Source    string       `json:"source" msgpack:"source"`
	Status    string       `json:"status" msgpack:"status"`
	Reason    string       `json:"reason,omitempty" msgpack:"reason"`
	FetchedAt time.Time    `json:"fetched_at" msgpack:"fetched_at"`
	Series    MChartSeries `json:"series" msgpack:"series"`
}

// IsLive reports whether the series came from a provider.
func (r MChartResult) IsLive() bool {
	return r.Status == ChartStatusLive
}

// MChartStats summarises the raw prices of a series.
type MChartStats struct {
	High float64 `json:"high"`
	Low  float64 `json:"low"`
	Avg  float64 `json:"avg"`
}

// MChartView is the API representation of a chart: result, axis labels, stats.
type MChartView struct {
	MChartResult
	Labels []string    `json:"labels"`
	Stats  MChartStats `json:"stats"`
}
