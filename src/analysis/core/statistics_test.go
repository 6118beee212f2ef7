package core

import (
	"testing"

	"market-dashboard/src/models"

	"github.com/stretchr/testify/assert"
)

func TestComputeStats(t *testing.T) {
	stats := ComputeStats([]float64{170, 180, 175, 165})
	assert.Equal(t, 180.0, stats.High)
	assert.Equal(t, 165.0, stats.Low)
	assert.InDelta(t, 172.5, stats.Avg, 1e-9)

	assert.Equal(t, models.MChartStats{}, ComputeStats(nil))
}

func TestCalculateChangePercent(t *testing.T) {
	assert.InDelta(t, 0.74, CalculateChangePercent(24180.25, 24001.75), 0.01)
	assert.Zero(t, CalculateChangePercent(10, 0))
}
