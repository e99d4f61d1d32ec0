package calculator

import "math"

// Rolling and exponentially weighted helpers over float64 series.
// Warm-up positions (fewer than `window` observations) are NaN; callers that
// need a defined value must validate length up front and read past the
// warm-up region.

// diff returns per-element change, aligned with the input. diff[0] is NaN.
func diff(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(out) > 0 {
		out[0] = math.NaN()
	}
	for i := 1; i < len(values); i++ {
		out[i] = values[i] - values[i-1]
	}
	return out
}

// ewmaSpan computes the recursive EWMA with alpha = 2/(span+1), seeded with
// the first value and no bias adjustment. NaN inputs are skipped so a NaN
// leading element does not poison the whole series.
func ewmaSpan(values []float64, span int) []float64 {
	alpha := 2.0 / (float64(span) + 1.0)
	out := make([]float64, len(values))
	prev := math.NaN()
	for i, v := range values {
		switch {
		case math.IsNaN(v):
			out[i] = prev
		case math.IsNaN(prev):
			prev = v
			out[i] = v
		default:
			prev = alpha*v + (1-alpha)*prev
			out[i] = prev
		}
	}
	return out
}

// rollingMin returns the rolling minimum over the trailing window.
func rollingMin(values []float64, window int) []float64 {
	return rollingApply(values, window, func(win []float64) float64 {
		m := win[0]
		for _, v := range win[1:] {
			if v < m {
				m = v
			}
		}
		return m
	})
}

// rollingMax returns the rolling maximum over the trailing window.
func rollingMax(values []float64, window int) []float64 {
	return rollingApply(values, window, func(win []float64) float64 {
		m := win[0]
		for _, v := range win[1:] {
			if v > m {
				m = v
			}
		}
		return m
	})
}

// rollingMean returns the rolling mean over the trailing window.
func rollingMean(values []float64, window int) []float64 {
	return rollingApply(values, window, mean)
}

func rollingApply(values []float64, window int, fn func([]float64) float64) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i+1 < window {
			out[i] = math.NaN()
			continue
		}
		out[i] = fn(values[i+1-window : i+1])
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		if math.IsNaN(v) {
			return math.NaN()
		}
		sum += v
	}
	return sum / float64(len(values))
}
