package core

import "gonum.org/v1/gonum/floats"

// Display band bounds.
const (
	DisplayFloor = 40.0
	DisplaySpan  = 60.0
)

// -----------------------------------------------------------------------------

// Normalize maps prices into [40,100] preserving relative order:
// (p-min)/(max-min)*60+40, with a range of 1 for flat series.
// Empty input yields an empty slice and zero bounds.
func Normalize(prices []float64) ([]float64, float64, float64) {
	if len(prices) == 0 {
		return []float64{}, 0, 0
	}

	min := floats.Min(prices)
	max := floats.Max(prices)
	span := max - min
	if span == 0 {
		span = 1
	}

	out := make([]float64, len(prices))
	for i, p := range prices {
		out[i] = ((p-min)/span)*DisplaySpan + DisplayFloor
	}
	return out, min, max
}
