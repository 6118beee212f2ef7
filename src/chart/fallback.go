package chart

import (
	"hash/fnv"
	"math/rand"
	"time"

	"market-dashboard/src/analysis/core"
	"market-dashboard/src/models"
)

// FallbackSource names the synthetic provider in results.
const FallbackSource = "fallback"

// PriceRange is the synthetic band for a symbol: base ± variance.
type PriceRange struct {
	Base     float64
	Variance float64
}

var fallbackRanges = map[string]PriceRange{
	"TSLA":   {Base: 450, Variance: 50},
	"MSFT":   {Base: 380, Variance: 40},
	"AAPL":   {Base: 175, Variance: 20},
	"NVDA":   {Base: 500, Variance: 60},
	"GOLD":   {Base: 2000, Variance: 100},
	"SILVER": {Base: 24, Variance: 3},
	"OIL":    {Base: 85, Variance: 10},
}

var genericRange = PriceRange{Base: 100, Variance: 20}

// FallbackRange returns the band used for symbol.
func FallbackRange(symbol string) PriceRange {
	if r, ok := fallbackRanges[symbol]; ok {
		return r
	}
	return genericRange
}

// GenerateFallback synthesizes exactly count points for symbol. Prices are
// drawn from a generator seeded by (symbol, period) so repeated calls agree;
// timestamps end at now and are spaced evenly across the period lookback.
func GenerateFallback(symbol, period string, now time.Time, count int) models.MChartSeries {
	if count <= 0 {
		count = DisplayPoints
	}
	band := FallbackRange(symbol)
	spec := Lookup(period)

	h := fnv.New64a()
	h.Write([]byte(symbol + "|" + spec.Token))
	rnd := rand.New(rand.NewSource(int64(h.Sum64())))

	prices := make([]float64, count)
	for i := range prices {
		prices[i] = band.Base + (rnd.Float64()-0.5)*band.Variance*2
	}

	end := now.Unix()
	secondsPerBar := int64(spec.LookbackDays) * 86400 / int64(count)
	timestamps := make([]int64, count)
	for i := range timestamps {
		timestamps[i] = end - int64(count-1-i)*secondsPerBar
	}

	display, min, max := core.Normalize(prices)
	return models.MChartSeries{
		DisplayValues: display,
		RawPrices:     prices,
		Timestamps:    timestamps,
		Min:           min,
		Max:           max,
	}
}

// Degraded wraps a fallback series into a result carrying reason.
func Degraded(symbol, period, reason string, now time.Time) models.MChartResult {
	return models.MChartResult{
		Symbol:    symbol,
		Period:    period,
		Source:    FallbackSource,
		Status:    models.ChartStatusDegraded,
		Reason:    reason,
		FetchedAt: now.UTC(),
		Series:    GenerateFallback(symbol, period, now, DisplayPoints),
	}
}
