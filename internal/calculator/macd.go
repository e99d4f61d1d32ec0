package calculator

import (
	"errors"
	"fmt"
	"math"

	"StockPilot/internal/model"
)

// MACDSeries computes the MACD line (fast EWMA - slow EWMA of closes) and
// its signal line (EWMA of the MACD line). All spans are already expressed
// in bars and use the recursive EWMA form without bias adjustment.
func MACDSeries(closes []float64, fast, slow, signal int) (macd, sig []float64, err error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return nil, nil, errors.New("macd: spans must be positive")
	}
	if fast >= slow {
		return nil, nil, fmt.Errorf("macd: fast span %d must be below slow span %d", fast, slow)
	}
	if len(closes) < slow {
		return nil, nil, fmt.Errorf("macd: need %d bars, have %d: %w",
			slow, len(closes), model.ErrInsufficientHistory)
	}

	fastEMA := ewmaSpan(closes, fast)
	slowEMA := ewmaSpan(closes, slow)

	macd = make([]float64, len(closes))
	for i := range closes {
		if math.IsNaN(fastEMA[i]) || math.IsNaN(slowEMA[i]) {
			macd[i] = math.NaN()
			continue
		}
		macd[i] = fastEMA[i] - slowEMA[i]
	}
	sig = ewmaSpan(macd, signal)
	return macd, sig, nil
}
