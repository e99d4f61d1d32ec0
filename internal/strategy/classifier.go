// Package strategy turns indicator values and the fundamental score into a
// Buy/Sell/Hold recommendation.
package strategy

import (
	"math"

	"StockPilot/internal/calculator"
	"StockPilot/internal/model"
)

// MinBuyScore is the fundamental score floor for a Buy classification.
const MinBuyScore = 7

// Inputs is the full decision tuple. Classification is a pure function of
// these values; the same tuple always yields the same Analysis.
type Inputs struct {
	RSI        float64
	StochK     float64
	MACD       float64
	MACDSignal float64
	Price      float64
	Avg50      float64
	Avg200     float64 // NaN when the long average is still warming up
	Score      int
}

// Classify maps the decision tuple to Buy, Sell, or Hold.
//
// Buy requires momentum (RSI and %K above 50), a MACD line above its signal,
// an uptrend (price > 50-bar avg > 200-bar avg), and a quality score of at
// least MinBuyScore. Sell requires all of those momentum conditions
// inverted plus a broken trend. Everything else is Hold.
//
// When the 200-bar average is undefined at the evaluated bar the uptrend
// condition is treated as satisfied. That is a documented edge-case policy
// for short histories, not a general default.
func Classify(in Inputs) model.Analysis {
	up := in.Price > in.Avg50 && in.Avg50 > in.Avg200
	if math.IsNaN(in.Avg200) {
		up = true
	}
	macdAbove := in.MACD > in.MACDSignal

	switch {
	case in.RSI > 50 && in.StochK > 50 && macdAbove && up && in.Score >= MinBuyScore:
		return model.AnalysisBuy
	case in.RSI < 50 && in.StochK < 50 && !macdAbove && !up:
		return model.AnalysisSell
	default:
		return model.AnalysisHold
	}
}

// ClassifyAt evaluates the classifier at bar index i of a derived indicator
// set. i == set.Len()-1 is the "now" evaluation; earlier indices give the
// point-in-time view used for backtesting.
func ClassifyAt(set *calculator.Set, score int, i int) model.Analysis {
	return Classify(Inputs{
		RSI:        set.RSI[i],
		StochK:     set.StochK[i],
		MACD:       set.MACD[i],
		MACDSignal: set.MACDSignal[i],
		Price:      set.Close[i],
		Avg50:      set.AvgShort[i],
		Avg200:     set.AvgLong[i],
		Score:      score,
	})
}
