package strategy

import (
	"math"
	"testing"

	"StockPilot/internal/model"
)

func buyInputs() Inputs {
	return Inputs{
		RSI:        62,
		StochK:     71,
		MACD:       1.4,
		MACDSignal: 0.9,
		Price:      110,
		Avg50:      104,
		Avg200:     98,
		Score:      8,
	}
}

func sellInputs() Inputs {
	return Inputs{
		RSI:        38,
		StochK:     24,
		MACD:       -1.2,
		MACDSignal: -0.4,
		Price:      90,
		Avg50:      95,
		Avg200:     101,
		Score:      3,
	}
}

func TestClassify(t *testing.T) {
	weakScore := buyInputs()
	weakScore.Score = 6

	weakRSI := buyInputs()
	weakRSI.RSI = 49

	brokenTrend := buyInputs()
	brokenTrend.Avg200 = 120

	macdBelow := buyInputs()
	macdBelow.MACDSignal = 2.0

	sellButUptrend := sellInputs()
	sellButUptrend.Price, sellButUptrend.Avg50, sellButUptrend.Avg200 = 110, 104, 98

	tests := []struct {
		name string
		in   Inputs
		want model.Analysis
	}{
		{"all buy conditions", buyInputs(), model.AnalysisBuy},
		{"all sell conditions", sellInputs(), model.AnalysisSell},
		{"score below floor", weakScore, model.AnalysisHold},
		{"rsi below 50", weakRSI, model.AnalysisHold},
		{"price below long average", brokenTrend, model.AnalysisHold},
		{"macd below signal", macdBelow, model.AnalysisHold},
		{"bearish momentum in uptrend", sellButUptrend, model.AnalysisHold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.in); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassify_UndefinedLongAverage(t *testing.T) {
	// A warming-up 200-bar average counts as an uptrend, so a strong setup
	// still classifies Buy and a weak one cannot classify Sell.
	buy := buyInputs()
	buy.Avg200 = math.NaN()
	if got := Classify(buy); got != model.AnalysisBuy {
		t.Errorf("buy setup with NaN long average = %s, want Buy", got)
	}

	sell := sellInputs()
	sell.Avg200 = math.NaN()
	if got := Classify(sell); got != model.AnalysisHold {
		t.Errorf("sell setup with NaN long average = %s, want Hold", got)
	}
}

func TestClassify_Pure(t *testing.T) {
	in := buyInputs()
	first := Classify(in)
	for i := 0; i < 10; i++ {
		if got := Classify(in); got != first {
			t.Fatalf("classification changed on repeat call: %s then %s", first, got)
		}
	}
}
