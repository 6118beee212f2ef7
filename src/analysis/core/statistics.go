package core

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"market-dashboard/src/models"
)

// -----------------------------------------------------------------------------

// ComputeStats returns high, low and mean of the raw prices.
func ComputeStats(prices []float64) models.MChartStats {
	if len(prices) == 0 {
		return models.MChartStats{}
	}
	return models.MChartStats{
		High: floats.Max(prices),
		Low:  floats.Min(prices),
		Avg:  stat.Mean(prices, nil),
	}
}

// -----------------------------------------------------------------------------

// CalculateChangePercent returns the percentage move from previous to current.
func CalculateChangePercent(current, previous float64) float64 {
	if previous == 0 {
		return 0.0
	}
	return (current - previous) / previous * 100
}
