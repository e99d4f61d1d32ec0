package calculator

import (
	"errors"
	"fmt"

	"StockPilot/internal/model"
)

// ADR computes the Average Daily Range over the trailing period trading
// days. The last period*tpm bars are partitioned into period consecutive
// day groups of tpm bars each; the range of a day is max(high) - min(low)
// within its group, and the ADR is the mean of the per-day ranges.
func ADR(bars []model.OHLCV, period, tpm int) (float64, error) {
	if period <= 0 || tpm <= 0 {
		return 0, errors.New("adr: period and tpm must be positive")
	}
	need := period * tpm
	if len(bars) < need {
		return 0, fmt.Errorf("adr: need %d bars, have %d: %w",
			need, len(bars), model.ErrInsufficientHistory)
	}

	tail := bars[len(bars)-need:]
	var sum float64
	for d := 0; d < period; d++ {
		day := tail[d*tpm : (d+1)*tpm]
		hi, lo := day[0].High, day[0].Low
		for _, b := range day[1:] {
			if b.High > hi {
				hi = b.High
			}
			if b.Low < lo {
				lo = b.Low
			}
		}
		sum += hi - lo
	}
	return sum / float64(period), nil
}
