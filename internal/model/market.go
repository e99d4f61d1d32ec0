package model

import (
	"fmt"
	"time"
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds an ordered bar sequence for one symbol. Bars must be
// strictly increasing by timestamp. TPM is the bars-per-trading-day
// multiplier used to convert day-based indicator windows into bar counts
// (1 for daily bars, 7 for hourly bars over a regular US session).
type PriceSeries struct {
	Symbol    string
	Bars      []OHLCV
	TPM       int
	FetchedAt time.Time
}

// Len returns the number of bars in the series.
func (s *PriceSeries) Len() int { return len(s.Bars) }

// Closes extracts the close price of every bar.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// LastClose returns the most recent close price.
func (s *PriceSeries) LastClose() float64 {
	if len(s.Bars) == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}

// IndexAt returns the index of the bar with the given timestamp.
// The second return value reports whether the timestamp exists in the series.
func (s *PriceSeries) IndexAt(t time.Time) (int, bool) {
	lo, hi := 0, len(s.Bars)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.Bars[mid].Time.Before(t) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(s.Bars) && s.Bars[lo].Time.Equal(t) {
		return lo, true
	}
	return 0, false
}

// Validate checks the structural invariants of the series.
func (s *PriceSeries) Validate() error {
	if len(s.Bars) == 0 {
		return fmt.Errorf("%s: %w", s.Symbol, ErrNoData)
	}
	if s.TPM <= 0 {
		return fmt.Errorf("%s: bars-per-day multiplier must be positive, got %d", s.Symbol, s.TPM)
	}
	for i := 1; i < len(s.Bars); i++ {
		if !s.Bars[i].Time.After(s.Bars[i-1].Time) {
			return fmt.Errorf("%s: bars not strictly increasing at index %d", s.Symbol, i)
		}
	}
	return nil
}
