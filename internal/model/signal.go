package model

import "time"

// Analysis is the trading recommendation for a symbol.
type Analysis string

const (
	AnalysisBuy  Analysis = "Buy"
	AnalysisSell Analysis = "Sell"
	AnalysisHold Analysis = "Hold"
)

// Indicators holds the most recent technical indicator values for a symbol.
type Indicators struct {
	RSI        float64
	StochK     float64
	StochD     float64
	MACD       float64
	MACDSignal float64
	ADR        float64
	Avg50      float64
	Avg200     float64
}

// Score is the 0-8 fundamental quality score with its sub-scores.
// Total is always Profitability + Leverage + Efficiency.
type Score struct {
	Profitability int // 0-4
	Leverage      int // 0-2
	Efficiency    int // 0-2
	Total         int // 0-8
}

// Report is the full analysis result for one symbol at one point in time.
// It is derived output; nothing mutates it after creation.
type Report struct {
	Symbol      string
	Price       float64
	Indicators  Indicators
	Score       Score
	Analysis    Analysis
	StopPrice   float64 // price - ADR
	TargetPrice float64 // price + 2*ADR
	GeneratedAt time.Time
}

// Candidate is one row of the externally maintained candidate list the
// allocator consumes. Read-only input from the trader's point of view.
type Candidate struct {
	Symbol    string
	Price     float64
	ADR       float64
	Score     int
	Analysis  Analysis
	UpdatedAt time.Time
}
