package calculator

import (
	"fmt"
	"math"
	"time"

	"StockPilot/internal/model"
)

// Params holds per-indicator configuration, expressed in trading days.
// Compute scales each window by the series' bars-per-day multiplier.
type Params struct {
	RSIPeriod   int
	StochFast   int
	StochSlow   int
	MACDFast    int
	MACDSlow    int
	MACDSignal  int
	ADRPeriod   int
	MAShortDays int // moving average for the trend check, typically 50
	MALongDays  int // long moving average, typically 200
}

// Set holds the full derived indicator series for one price series, so the
// decision layer can evaluate both the latest bar and any historical index.
type Set struct {
	Symbol string
	Times  []time.Time
	Close  []float64

	RSI        []float64
	StochK     []float64
	StochD     []float64
	MACD       []float64
	MACDSignal []float64
	AvgShort   []float64
	AvgLong    []float64

	ADR float64
}

// Compute derives every indicator series from the price series. Windows are
// scaled by the series TPM; any window that exceeds the available bars
// (except the long moving average, whose warm-up stays NaN by the decision
// layer's convention) aborts with ErrInsufficientHistory.
func Compute(series *model.PriceSeries, p Params) (*Set, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	tpm := series.TPM
	closes := series.Closes()

	shortWin := p.MAShortDays * tpm
	if len(closes) < shortWin {
		return nil, fmt.Errorf("%s: %d-day average needs %d bars, have %d: %w",
			series.Symbol, p.MAShortDays, shortWin, len(closes), model.ErrInsufficientHistory)
	}

	rsi, err := RSISeries(closes, p.RSIPeriod*tpm)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", series.Symbol, err)
	}
	stochK, stochD, err := StochSeries(series.Bars, p.StochFast*tpm, p.StochSlow*tpm)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", series.Symbol, err)
	}
	macd, macdSig, err := MACDSeries(closes, p.MACDFast*tpm, p.MACDSlow*tpm, p.MACDSignal*tpm)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", series.Symbol, err)
	}
	adr, err := ADR(series.Bars, p.ADRPeriod, tpm)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", series.Symbol, err)
	}

	times := make([]time.Time, len(series.Bars))
	for i, b := range series.Bars {
		times[i] = b.Time
	}

	return &Set{
		Symbol:     series.Symbol,
		Times:      times,
		Close:      closes,
		RSI:        rsi,
		StochK:     stochK,
		StochD:     stochD,
		MACD:       macd,
		MACDSignal: macdSig,
		AvgShort:   SMASeries(closes, shortWin),
		AvgLong:    SMASeries(closes, p.MALongDays*tpm),
		ADR:        adr,
	}, nil
}

// Len returns the number of bars covered by the set.
func (s *Set) Len() int { return len(s.Close) }

// At returns the indicator values at the given bar index.
func (s *Set) At(i int) model.Indicators {
	return model.Indicators{
		RSI:        s.RSI[i],
		StochK:     s.StochK[i],
		StochD:     s.StochD[i],
		MACD:       s.MACD[i],
		MACDSignal: s.MACDSignal[i],
		ADR:        s.ADR,
		Avg50:      s.AvgShort[i],
		Avg200:     s.AvgLong[i],
	}
}

// Latest returns the indicator values at the most recent bar.
func (s *Set) Latest() model.Indicators { return s.At(s.Len() - 1) }

// IndexAt returns the bar index for an exact timestamp match.
func (s *Set) IndexAt(t time.Time) (int, bool) {
	lo, hi := 0, len(s.Times)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.Times[mid].Before(t) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(s.Times) && s.Times[lo].Equal(t) {
		return lo, true
	}
	return 0, false
}

// LongAvgDefined reports whether the long moving average has left its
// warm-up region at index i.
func (s *Set) LongAvgDefined(i int) bool { return !math.IsNaN(s.AvgLong[i]) }
