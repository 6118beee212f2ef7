package chart

import "market-dashboard/src/models"

// DefaultPeriod is used for unrecognised period tokens.
const DefaultPeriod = "1M"

// DisplayPoints is the fixed chart width.
const DisplayPoints = 25

var periodOrder = []string{"1D", "1W", "1M", "3M", "1Y"}

var periodCatalog = map[string]models.MPeriodSpec{
	"1D": {Token: "1D", Resolution: "5", LookbackDays: 1},
	"1W": {Token: "1W", Resolution: "30", LookbackDays: 7},
	"1M": {Token: "1M", Resolution: "D", LookbackDays: 30},
	"3M": {Token: "3M", Resolution: "D", LookbackDays: 90},
	"1Y": {Token: "1Y", Resolution: "W", LookbackDays: 365},
}

// Lookup returns the spec for token, or the 1M spec when token is unknown.
func Lookup(token string) models.MPeriodSpec {
	if spec, ok := periodCatalog[token]; ok {
		return spec
	}
	return periodCatalog[DefaultPeriod]
}

// IsKnownPeriod reports whether token is one of 1D, 1W, 1M, 3M, 1Y.
func IsKnownPeriod(token string) bool {
	_, ok := periodCatalog[token]
	return ok
}

// Periods returns every spec, shortest lookback first.
func Periods() []models.MPeriodSpec {
	out := make([]models.MPeriodSpec, 0, len(periodOrder))
	for _, token := range periodOrder {
		out = append(out, periodCatalog[token])
	}
	return out
}
