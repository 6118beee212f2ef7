package chart

import (
	"testing"
	"time"

	"market-dashboard/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-15 14:30:00 UTC, a Monday.
const jan15 = int64(1705329000)

func TestLookup(t *testing.T) {
	assert.Equal(t, models.MPeriodSpec{Token: "1D", Resolution: "5", LookbackDays: 1}, Lookup("1D"))
	assert.Equal(t, models.MPeriodSpec{Token: "1W", Resolution: "30", LookbackDays: 7}, Lookup("1W"))
	assert.Equal(t, "D", Lookup("3M").Resolution)
	assert.Equal(t, 365, Lookup("1Y").LookbackDays)
	assert.Equal(t, Lookup("1M"), Lookup("5Y"))
	assert.False(t, IsKnownPeriod("5Y"))
	assert.True(t, IsKnownPeriod("3M"))

	periods := Periods()
	require.Len(t, periods, 5)
	assert.Equal(t, "1D", periods[0].Token)
	assert.Equal(t, "1Y", periods[4].Token)
}

func TestFormatLabel(t *testing.T) {
	assert.Equal(t, "2:30 PM", FormatLabel(jan15, "1D"))
	assert.Equal(t, "Mon 2PM", FormatLabel(jan15, "1W"))
	assert.Equal(t, "Jan 15", FormatLabel(jan15, "1M"))
	assert.Equal(t, "Jan 15", FormatLabel(jan15, "3M"))
	assert.Equal(t, "Jan '24", FormatLabel(jan15, "1Y"))
	assert.Equal(t, "1/15/2024", FormatLabel(jan15, "ALL"))
}

func TestLabelFormatterZone(t *testing.T) {
	f := NewLabelFormatter("America/New_York")
	assert.Equal(t, "9:30 AM", f.Format(jan15, "1D"))

	bad := NewLabelFormatter("Nowhere/Land")
	assert.Equal(t, time.UTC, bad.Location)

	labels := f.Labels(models.MChartSeries{Timestamps: []int64{jan15, jan15 + 3600}}, "1D")
	assert.Equal(t, []string{"9:30 AM", "10:30 AM"}, labels)
}

func TestGenerateFallbackShape(t *testing.T) {
	now := time.Unix(jan15, 0)
	for _, symbol := range []string{"TSLA", "MSFT", "AAPL", "NVDA", "GOLD", "SILVER", "OIL", "ZZZZ"} {
		for _, period := range []string{"1D", "1W", "1M", "3M", "1Y", "bogus"} {
			s := GenerateFallback(symbol, period, now, DisplayPoints)
			band := FallbackRange(symbol)

			require.Len(t, s.RawPrices, DisplayPoints)
			require.Len(t, s.DisplayValues, DisplayPoints)
			require.Len(t, s.Timestamps, DisplayPoints)
			assert.Equal(t, jan15, s.Timestamps[DisplayPoints-1])

			for i := range s.RawPrices {
				assert.GreaterOrEqual(t, s.RawPrices[i], band.Base-band.Variance)
				assert.LessOrEqual(t, s.RawPrices[i], band.Base+band.Variance)
				assert.GreaterOrEqual(t, s.DisplayValues[i], 40.0)
				assert.LessOrEqual(t, s.DisplayValues[i], 100.0)
				assert.InDelta(t, ((s.RawPrices[i]-s.Min)/(s.Max-s.Min))*60+40, s.DisplayValues[i], 1e-9)
				if i > 0 {
					assert.Greater(t, s.Timestamps[i], s.Timestamps[i-1])
				}
			}
		}
	}
}

func TestGenerateFallbackSpacing(t *testing.T) {
	now := time.Unix(jan15, 0)
	s := GenerateFallback("AAPL", "1M", now, DisplayPoints)
	assert.Equal(t, int64(30*86400/25), s.Timestamps[1]-s.Timestamps[0])
	assert.Equal(t, jan15-24*int64(30*86400/25), s.Timestamps[0])
}

func TestGenerateFallbackIsDeterministic(t *testing.T) {
	now := time.Unix(jan15, 0)
	a := GenerateFallback("GOLD", "3M", now, DisplayPoints)
	b := GenerateFallback("GOLD", "3M", now, DisplayPoints)
	c := GenerateFallback("GOLD", "1Y", now, DisplayPoints)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a.RawPrices, c.RawPrices)
}

func TestDegraded(t *testing.T) {
	r := Degraded("AAPL", "1M", "timeout", time.Unix(jan15, 0))
	assert.Equal(t, models.ChartStatusDegraded, r.Status)
	assert.Equal(t, "timeout", r.Reason)
	assert.Equal(t, FallbackSource, r.Source)
	assert.False(t, r.IsLive())
	assert.Equal(t, DisplayPoints, r.Series.Len())
}

func TestComposeHundredHourlyPoints(t *testing.T) {
	now := time.Unix(jan15, 0)
	prices := make([]float64, 100)
	ts := make([]int64, 100)
	for i := range prices {
		prices[i] = 150 + float64(i%17)
		ts[i] = jan15 - int64(99-i)*3600
	}

	r := FromRaw("AAPL", "1W", "finnhub", prices, ts, now)
	require.True(t, r.IsLive())
	s := r.Series
	require.Equal(t, DisplayPoints, s.Len())

	lo, hi := s.RawPrices[0], s.RawPrices[0]
	for _, p := range s.RawPrices {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	assert.Equal(t, lo, s.Min)
	assert.Equal(t, hi, s.Max)
	assert.LessOrEqual(t, s.Timestamps[len(s.Timestamps)-1], now.Unix())
	for _, v := range s.DisplayValues {
		assert.GreaterOrEqual(t, v, 40.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestComposeDropsInvalidPrices(t *testing.T) {
	s, err := Compose([]float64{0, 10, -1, 20}, []int64{1, 2, 3, 4}, 25)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20}, s.RawPrices)
	assert.Equal(t, []int64{2, 4}, s.Timestamps)

	_, err = Compose([]float64{0, -5}, []int64{1, 2}, 25)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestFromRawEmptyDegrades(t *testing.T) {
	r := FromRaw("MSFT", "1D", "yahoo", nil, nil, time.Unix(jan15, 0))
	assert.Equal(t, models.ChartStatusDegraded, r.Status)
	assert.Contains(t, r.Reason, "yahoo")
}

func TestStats(t *testing.T) {
	stats := Stats(models.MChartSeries{RawPrices: []float64{1, 2, 3}})
	assert.Equal(t, 3.0, stats.High)
	assert.Equal(t, 1.0, stats.Low)
	assert.Equal(t, 2.0, stats.Avg)
}
