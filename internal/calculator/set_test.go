package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"StockPilot/internal/model"
)

func smallParams() Params {
	return Params{
		RSIPeriod:   3,
		StochFast:   2,
		StochSlow:   4,
		MACDFast:    3,
		MACDSlow:    6,
		MACDSignal:  2,
		ADRPeriod:   2,
		MAShortDays: 5,
		MALongDays:  10,
	}
}

func testSeries(n, tpm int) *model.PriceSeries {
	return &model.PriceSeries{
		Symbol:    "TEST",
		Bars:      barsFromCloses(walkCloses(n), 0.5),
		TPM:       tpm,
		FetchedAt: time.Now(),
	}
}

func TestCompute_FullSet(t *testing.T) {
	series := testSeries(40, 1)
	set, err := Compute(series, smallParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if set.Len() != 40 {
		t.Fatalf("set length = %d, want 40", set.Len())
	}
	if set.ADR <= 0 {
		t.Errorf("ADR = %.4f, want positive", set.ADR)
	}

	latest := set.Latest()
	for name, v := range map[string]float64{
		"rsi":    latest.RSI,
		"stochK": latest.StochK,
		"stochD": latest.StochD,
		"macd":   latest.MACD,
		"signal": latest.MACDSignal,
		"avg50":  latest.Avg50,
		"avg200": latest.Avg200,
	} {
		if math.IsNaN(v) {
			t.Errorf("latest %s is NaN", name)
		}
	}
}

func TestCompute_ScalesWindowsByTPM(t *testing.T) {
	// The 5-day short average needs 5*tpm bars: 10 at tpm=2 (fits in 40),
	// 35 at tpm=7 (exceeds 30).
	if _, err := Compute(testSeries(30, 7), smallParams()); !errors.Is(err, model.ErrInsufficientHistory) {
		t.Fatalf("want ErrInsufficientHistory for tpm-scaled windows, got %v", err)
	}
	if _, err := Compute(testSeries(40, 2), smallParams()); err != nil {
		t.Fatalf("unexpected error at tpm=2: %v", err)
	}
}

func TestCompute_ShortHistoryLeavesLongAvgNaN(t *testing.T) {
	// Enough for everything but the 10-day long average.
	set, err := Compute(testSeries(8, 1), smallParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.LongAvgDefined(set.Len() - 1) {
		t.Error("long average should still be warming up")
	}
	if math.IsNaN(set.AvgShort[set.Len()-1]) {
		t.Error("short average should be defined")
	}
}

func TestSet_IndexAt(t *testing.T) {
	set, err := Compute(testSeries(40, 1), smallParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	i, ok := set.IndexAt(set.Times[17])
	if !ok || i != 17 {
		t.Errorf("IndexAt(times[17]) = (%d, %v), want (17, true)", i, ok)
	}
	if _, ok := set.IndexAt(set.Times[17].Add(time.Minute)); ok {
		t.Error("IndexAt must not match a timestamp between bars")
	}
}
