package core

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBoundsAndOrder(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rnd.Intn(60)
		prices := make([]float64, n)
		for i := range prices {
			prices[i] = rnd.Float64()*1000 - 200
		}

		out, min, max := Normalize(prices)
		require.Len(t, out, n)

		for i := range out {
			assert.GreaterOrEqual(t, out[i], 40.0)
			assert.LessOrEqual(t, out[i], 100.0+1e-9)
			assert.GreaterOrEqual(t, prices[i], min)
			assert.LessOrEqual(t, prices[i], max)
			for j := range out {
				if prices[i] > prices[j] {
					assert.GreaterOrEqual(t, out[i], out[j])
				}
			}
		}
	}
}

func TestNormalizeFormula(t *testing.T) {
	out, min, max := Normalize([]float64{10, 20, 15})
	assert.Equal(t, 10.0, min)
	assert.Equal(t, 20.0, max)
	assert.InDeltaSlice(t, []float64{40, 100, 70}, out, 1e-9)
}

func TestNormalizeFlatSeries(t *testing.T) {
	out, min, max := Normalize([]float64{5, 5, 5})
	assert.Equal(t, 5.0, min)
	assert.Equal(t, 5.0, max)
	assert.Equal(t, []float64{40, 40, 40}, out)
}

func TestNormalizeEmpty(t *testing.T) {
	out, min, max := Normalize(nil)
	assert.Empty(t, out)
	assert.Zero(t, min)
	assert.Zero(t, max)
}
