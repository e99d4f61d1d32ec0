package calculator

import (
	"errors"
	"fmt"
	"math"

	"StockPilot/internal/model"
)

// StochSeries computes the Stochastic Oscillator %K and %D series.
// Both windows are already expressed in bars. %K uses the slow window for
// its min/max range and is smoothed by a slow-window rolling mean; %D uses
// the fast window analogously.
//
// When the high/low range over a window collapses (high == low) the raw
// value is a 0/0 division; it is defined as 50 (neutral) instead of NaN.
// Requires at least 2*slow bars so the smoothed values are defined.
func StochSeries(bars []model.OHLCV, fast, slow int) (k, d []float64, err error) {
	if fast <= 0 || slow <= 0 {
		return nil, nil, errors.New("stoch: windows must be positive")
	}
	if fast > slow {
		return nil, nil, fmt.Errorf("stoch: fast window %d exceeds slow window %d", fast, slow)
	}
	if len(bars) < 2*slow {
		return nil, nil, fmt.Errorf("stoch: need %d bars, have %d: %w",
			2*slow, len(bars), model.ErrInsufficientHistory)
	}

	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	closes := make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
		closes[i] = b.Close
	}

	rawD := rawStoch(closes, rollingMin(lows, fast), rollingMax(highs, fast))
	rawK := rawStoch(closes, rollingMin(lows, slow), rollingMax(highs, slow))

	d = rollingMean(rawD, fast)
	k = rollingMean(rawK, slow)
	return k, d, nil
}

func rawStoch(closes, low, high []float64) []float64 {
	out := make([]float64, len(closes))
	for i := range closes {
		switch {
		case math.IsNaN(low[i]) || math.IsNaN(high[i]):
			out[i] = math.NaN()
		case high[i] == low[i]:
			out[i] = 50 // flat range, neutral by policy
		default:
			out[i] = (closes[i] - low[i]) / (high[i] - low[i]) * 100
		}
	}
	return out
}
