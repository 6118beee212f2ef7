package core

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(n int) ([]float64, []int64) {
	prices := make([]float64, n)
	ts := make([]int64, n)
	for i := 0; i < n; i++ {
		prices[i] = float64(100 + i)
		ts[i] = int64(1_700_000_000 + i*3600)
	}
	return prices, ts
}

func TestDownsampleLengthAndStride(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		n := rnd.Intn(400)
		target := 1 + rnd.Intn(40)
		prices, ts := series(n)

		outP, outT := Downsample(prices, ts, target)

		stride := Stride(n, target)
		want := (n + stride - 1) / stride
		if want > target {
			want = target
		}
		require.Len(t, outP, want, "n=%d target=%d", n, target)
		require.Len(t, outT, want)

		for i := range outP {
			assert.Equal(t, prices[i*stride], outP[i])
			assert.Equal(t, ts[i*stride], outT[i])
		}
	}
}

func TestDownsampleHundredToTwentyFive(t *testing.T) {
	prices, ts := series(100)
	outP, outT := Downsample(prices, ts, 25)

	require.Len(t, outP, 25)
	assert.Equal(t, 100.0, outP[0])
	assert.Equal(t, 104.0, outP[1])
	assert.Equal(t, 196.0, outP[24])
	assert.Equal(t, ts[96], outT[24])
}

func TestDownsampleJustOverTarget(t *testing.T) {
	prices, ts := series(26)
	outP, outT := Downsample(prices, ts, 25)

	require.Len(t, outP, 13)
	require.Len(t, outT, 13)
	assert.Equal(t, 100.0, outP[0])
	assert.Equal(t, 124.0, outP[12])
	assert.Equal(t, ts[24], outT[12])
}

func TestDownsampleShortInput(t *testing.T) {
	prices, ts := series(10)
	outP, outT := Downsample(prices, ts, 25)
	assert.Equal(t, prices, outP)
	assert.Equal(t, ts, outT)
}

func TestDownsampleMismatchedAndEmpty(t *testing.T) {
	prices, ts := series(30)
	outP, outT := Downsample(prices, ts[:12], 25)
	assert.Len(t, outP, 12)
	assert.Len(t, outT, 12)

	outP, outT = Downsample(nil, nil, 25)
	assert.Empty(t, outP)
	assert.Empty(t, outT)
}

func TestStride(t *testing.T) {
	assert.Equal(t, 1, Stride(25, 25))
	assert.Equal(t, 2, Stride(26, 25))
	assert.Equal(t, 2, Stride(30, 25))
	assert.Equal(t, 4, Stride(100, 25))
	assert.Equal(t, 1, Stride(5, 0))
}
