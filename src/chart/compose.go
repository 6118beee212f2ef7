package chart

import (
	"errors"
	"time"

	"market-dashboard/src/analysis/core"
	"market-dashboard/src/models"
)

// ErrNoData is returned by Compose when no usable points remain.
var ErrNoData = errors.New("no usable price points")

// Compose downsamples raw points to at most target and normalizes them.
// Non-positive prices are dropped first.
func Compose(prices []float64, timestamps []int64, target int) (models.MChartSeries, error) {
	n := len(prices)
	if len(timestamps) < n {
		n = len(timestamps)
	}

	cleanP := make([]float64, 0, n)
	cleanT := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		if prices[i] > 0 {
			cleanP = append(cleanP, prices[i])
			cleanT = append(cleanT, timestamps[i])
		}
	}
	if len(cleanP) == 0 {
		return models.MChartSeries{}, ErrNoData
	}

	sampledP, sampledT := core.Downsample(cleanP, cleanT, target)
	display, min, max := core.Normalize(sampledP)
	return models.MChartSeries{
		DisplayValues: display,
		RawPrices:     sampledP,
		Timestamps:    sampledT,
		Min:           min,
		Max:           max,
	}, nil
}

// Live wraps a composed series into a live result.
func Live(symbol, period, source string, series models.MChartSeries, now time.Time) models.MChartResult {
	return models.MChartResult{
		Symbol:    symbol,
		Period:    period,
		Source:    source,
		Status:    models.ChartStatusLive,
		FetchedAt: now.UTC(),
		Series:    series,
	}
}

// FromRaw composes a live result, or a degraded one when nothing usable remains.
func FromRaw(symbol, period, source string, prices []float64, timestamps []int64, now time.Time) models.MChartResult {
	series, err := Compose(prices, timestamps, DisplayPoints)
	if err != nil {
		return Degraded(symbol, period, source+": "+err.Error(), now)
	}
	return Live(symbol, period, source, series, now)
}

// Stats summarises a series' raw prices.
func Stats(series models.MChartSeries) models.MChartStats {
	return core.ComputeStats(series.RawPrices)
}
