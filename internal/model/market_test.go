package model

import (
	"errors"
	"testing"
	"time"
)

func series(n int) *PriceSeries {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	bars := make([]OHLCV, n)
	for i := range bars {
		bars[i] = OHLCV{Time: base.Add(time.Duration(i) * time.Hour), Close: 100 + float64(i)}
	}
	return &PriceSeries{Symbol: "TEST", Bars: bars, TPM: 7, FetchedAt: time.Now()}
}

func TestPriceSeries_Validate(t *testing.T) {
	if err := series(5).Validate(); err != nil {
		t.Errorf("valid series: %v", err)
	}

	empty := &PriceSeries{Symbol: "TEST", TPM: 1}
	if err := empty.Validate(); !errors.Is(err, ErrNoData) {
		t.Errorf("empty series: want ErrNoData, got %v", err)
	}

	badTPM := series(5)
	badTPM.TPM = 0
	if err := badTPM.Validate(); err == nil {
		t.Error("zero bars-per-day multiplier must fail")
	}

	outOfOrder := series(5)
	outOfOrder.Bars[3].Time = outOfOrder.Bars[2].Time
	if err := outOfOrder.Validate(); err == nil {
		t.Error("duplicate timestamps must fail")
	}
}

func TestPriceSeries_IndexAt(t *testing.T) {
	s := series(24)

	i, ok := s.IndexAt(s.Bars[13].Time)
	if !ok || i != 13 {
		t.Errorf("IndexAt = (%d, %v), want (13, true)", i, ok)
	}
	if _, ok := s.IndexAt(s.Bars[13].Time.Add(time.Minute)); ok {
		t.Error("timestamp between bars must not match")
	}
	if _, ok := s.IndexAt(s.Bars[23].Time.Add(time.Hour)); ok {
		t.Error("timestamp after the last bar must not match")
	}
}
