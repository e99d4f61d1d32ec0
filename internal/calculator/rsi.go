package calculator

import (
	"errors"
	"fmt"
	"math"

	"StockPilot/internal/model"
)

// RSISeries computes the Relative Strength Index over the given period
// (already expressed in bars). Per-bar changes are split into gains and
// losses, each smoothed with the recursive EWMA (span = period, no bias
// adjustment); RSI = 100 - 100/(1+RS).
//
// When the average loss is zero RS is infinite and RSI is clamped to 100
// instead of propagating NaN. The returned series is aligned with the input;
// index 0 is NaN (no preceding bar).
func RSISeries(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("rsi: period must be positive")
	}
	if len(closes) < period+1 {
		return nil, fmt.Errorf("rsi: need %d bars, have %d: %w",
			period+1, len(closes), model.ErrInsufficientHistory)
	}

	change := diff(closes)
	gain := make([]float64, len(change))
	loss := make([]float64, len(change))
	for i, c := range change {
		if math.IsNaN(c) {
			gain[i] = math.NaN()
			loss[i] = math.NaN()
			continue
		}
		if c > 0 {
			gain[i] = c
		} else {
			loss[i] = -c
		}
	}

	avgGain := ewmaSpan(gain, period)
	avgLoss := ewmaSpan(loss, period)

	rsi := make([]float64, len(closes))
	for i := range closes {
		switch {
		case math.IsNaN(avgGain[i]) || math.IsNaN(avgLoss[i]):
			rsi[i] = math.NaN()
		case avgLoss[i] == 0:
			rsi[i] = 100 // all gains, RS undefined
		default:
			rs := avgGain[i] / avgLoss[i]
			rsi[i] = 100 - 100/(1+rs)
		}
	}
	return rsi, nil
}
