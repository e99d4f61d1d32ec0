package calculator

// SMASeries returns the full rolling simple moving average series, aligned
// with the input. Warm-up positions are NaN; the decision layer applies its
// documented convention when the long average is undefined at an index.
func SMASeries(prices []float64, period int) []float64 {
	return rollingMean(prices, period)
}
