package scanner

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"StockPilot/internal/analyzer"
	"StockPilot/internal/calculator"
	"StockPilot/internal/candidates"
	"StockPilot/internal/collector"
	"StockPilot/internal/fundamentals"
	"StockPilot/internal/model"
)

func statements(symbol string) (balance, income, cashflow model.FinancialHistory) {
	y := func(label string, items map[string]float64) model.FinancialYear {
		return model.FinancialYear{Label: label, Items: items}
	}
	balance = model.FinancialHistory{Symbol: symbol, Years: []model.FinancialYear{
		y("2025", map[string]float64{
			model.ItemTotalAssets:        100,
			model.ItemCurrentAssets:      50,
			model.ItemCurrentLiabilities: 20,
		}),
		y("2024", map[string]float64{model.ItemTotalAssets: 90}),
		y("2023", map[string]float64{model.ItemTotalAssets: 80}),
	}}
	income = model.FinancialHistory{Symbol: symbol, Years: []model.FinancialYear{
		y("2025", map[string]float64{
			model.ItemNetIncome: 20, model.ItemGrossProfit: 60, model.ItemTotalRevenue: 100,
		}),
		y("2024", map[string]float64{
			model.ItemNetIncome: 10, model.ItemGrossProfit: 40, model.ItemTotalRevenue: 80,
		}),
		y("2023", map[string]float64{model.ItemNetIncome: 5}),
	}}
	cashflow = model.FinancialHistory{Symbol: symbol, Years: []model.FinancialYear{
		y("2025", map[string]float64{model.ItemOperatingCashFlow: 30}),
		y("2024", map[string]float64{model.ItemOperatingCashFlow: 25}),
		y("2023", map[string]float64{model.ItemOperatingCashFlow: 20}),
	}}
	return balance, income, cashflow
}

func testScanner(symbols []string, store candidates.Store, workers int) *Scanner {
	prices := &collector.MockPriceFetcher{Price: 100, Bars: 60, TPM: 1}
	financials := &collector.MockFinancialFetcher{
		Balance:  make(map[string]model.FinancialHistory),
		Income:   make(map[string]model.FinancialHistory),
		Cashflow: make(map[string]model.FinancialHistory),
	}
	for _, sym := range symbols {
		b, i, c := statements(sym)
		financials.Balance[sym] = b
		financials.Income[sym] = i
		financials.Cashflow[sym] = c
	}

	params := calculator.Params{
		RSIPeriod: 3, StochFast: 2, StochSlow: 4,
		MACDFast: 3, MACDSlow: 6, MACDSignal: 2,
		ADRPeriod: 2, MAShortDays: 5, MALongDays: 10,
	}
	a := analyzer.New(prices, financials, params, &fundamentals.Scorer{}, 400*24*time.Hour)
	return New(a, store, workers)
}

func TestScan_StoresAllCandidates(t *testing.T) {
	symbols := []string{"A", "B", "C", "D", "E"}
	store := candidates.NewMemoryStore()
	s := testScanner(symbols, store, 3)

	var progressed int64
	s.SetProgressCallback(func(scanned, total int) {
		atomic.AddInt64(&progressed, 1)
		if total != len(symbols) {
			t.Errorf("progress total = %d, want %d", total, len(symbols))
		}
	})

	res, err := s.Scan(context.Background(), symbols)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalScanned != len(symbols) {
		t.Errorf("total scanned = %d, want %d", res.TotalScanned, len(symbols))
	}
	if len(res.Candidates) != len(symbols) {
		t.Errorf("candidates = %d, want %d", len(res.Candidates), len(symbols))
	}
	if len(res.Failed) != 0 {
		t.Errorf("failed = %v, want none", res.Failed)
	}
	if got := atomic.LoadInt64(&progressed); got != int64(len(symbols)) {
		t.Errorf("progress callbacks = %d, want %d", got, len(symbols))
	}
	for _, c := range res.Candidates {
		if c.Price <= 0 || c.ADR <= 0 {
			t.Errorf("%s: price %.2f, adr %.4f; want positive", c.Symbol, c.Price, c.ADR)
		}
	}
}

func TestScan_FailureDoesNotAbort(t *testing.T) {
	// Statements exist only for A and C; B's analysis fails.
	store := candidates.NewMemoryStore()
	s := testScanner([]string{"A", "C"}, store, 2)

	res, err := s.Scan(context.Background(), []string{"A", "B", "C"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Candidates) != 2 {
		t.Errorf("candidates = %d, want 2", len(res.Candidates))
	}
	if len(res.Failed) != 1 || res.Failed[0] != "B" {
		t.Errorf("failed = %v, want [B]", res.Failed)
	}
}

func TestScan_EmptyUniverse(t *testing.T) {
	s := testScanner(nil, candidates.NewMemoryStore(), 2)
	res, err := s.Scan(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalScanned != 0 || len(res.Candidates) != 0 {
		t.Errorf("empty scan = %+v, want zero result", res)
	}
}
