package core

// -----------------------------------------------------------------------------

// Downsample keeps every stride-th point starting at index 0, where
// stride = ceil(len/target), and truncates the result to target points.
// The output has min(ceil(len/stride), target) points and preserves order;
// no averaging happens between sampled points. Mismatched inputs are cut to the shorter one.
func Downsample(prices []float64, timestamps []int64, target int) ([]float64, []int64) {
	n := len(prices)
	if len(timestamps) < n {
		n = len(timestamps)
	}
	if n == 0 || target <= 0 {
		return []float64{}, []int64{}
	}

	stride := Stride(n, target)
	size := n
	if size > target {
		size = target
	}

	outPrices := make([]float64, 0, size)
	outTimes := make([]int64, 0, size)
	for i := 0; i < n && len(outPrices) < target; i += stride {
		outPrices = append(outPrices, prices[i])
		outTimes = append(outTimes, timestamps[i])
	}
	return outPrices, outTimes
}

// -----------------------------------------------------------------------------

// Stride returns ceil(n/target), never less than 1.
func Stride(n, target int) int {
	if target <= 0 || n <= target {
		return 1
	}
	return (n + target - 1) / target
}
