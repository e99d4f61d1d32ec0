package analyzer

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"StockPilot/internal/calculator"
	"StockPilot/internal/collector"
	"StockPilot/internal/fundamentals"
	"StockPilot/internal/model"
)

func testParams() calculator.Params {
	return calculator.Params{
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

func testStatements(symbol string) (balance, income, cashflow model.FinancialHistory) {
	y := func(label string, items map[string]float64) model.FinancialYear {
		return model.FinancialYear{Label: label, Items: items}
	}
	balance = model.FinancialHistory{Symbol: symbol, Years: []model.FinancialYear{
		y("2025", map[string]float64{
			model.ItemTotalAssets:        100,
			model.ItemCurrentAssets:      50,
			model.ItemCurrentLiabilities: 20,
			model.ItemLongTermDebt:       10,
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

func testAnalyzer(series *model.PriceSeries) *Analyzer {
	balance, income, cashflow := testStatements("TEST")
	prices := &collector.MockPriceFetcher{
		Series: map[string]*model.PriceSeries{"TEST": series},
	}
	financials := &collector.MockFinancialFetcher{
		Balance:  map[string]model.FinancialHistory{"TEST": balance},
		Income:   map[string]model.FinancialHistory{"TEST": income},
		Cashflow: map[string]model.FinancialHistory{"TEST": cashflow},
	}
	return New(prices, financials, testParams(), &fundamentals.Scorer{}, 400*24*time.Hour)
}

func testSeries(bars int) *model.PriceSeries {
	return &model.PriceSeries{
		Symbol:    "TEST",
		Bars:      collector.GenerateMockBars(100, bars),
		TPM:       1,
		FetchedAt: time.Now(),
	}
}

func TestAnalyze_ProducesReport(t *testing.T) {
	series := testSeries(60)
	a := testAnalyzer(series)

	r, err := a.Analyze(context.Background(), "TEST")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	last := series.Bars[len(series.Bars)-1].Close
	if r.Symbol != "TEST" || r.Price != last {
		t.Errorf("report = %s @ %.2f, want TEST @ %.2f", r.Symbol, r.Price, last)
	}
	if r.Score.Total < 0 || r.Score.Total > 8 {
		t.Errorf("score = %d out of [0, 8]", r.Score.Total)
	}
	switch r.Analysis {
	case model.AnalysisBuy, model.AnalysisSell, model.AnalysisHold:
	default:
		t.Errorf("analysis = %q, want Buy, Sell, or Hold", r.Analysis)
	}

	adr := r.Indicators.ADR
	if adr <= 0 {
		t.Fatalf("ADR = %.4f, want positive", adr)
	}
	if math.Abs(r.StopPrice-(r.Price-adr)) > 1e-9 {
		t.Errorf("stop = %.4f, want price - ADR = %.4f", r.StopPrice, r.Price-adr)
	}
	if math.Abs(r.TargetPrice-(r.Price+2*adr)) > 1e-9 {
		t.Errorf("target = %.4f, want price + 2*ADR = %.4f", r.TargetPrice, r.Price+2*adr)
	}
}

func TestAnalyzeAt_ExactBarOnly(t *testing.T) {
	series := testSeries(60)
	a := testAnalyzer(series)

	at := series.Bars[40].Time
	r, err := a.AnalyzeAt(context.Background(), "TEST", at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := series.Bars[40].Close; r.Price != want {
		t.Errorf("price at historical bar = %.4f, want %.4f", r.Price, want)
	}

	if _, err := a.AnalyzeAt(context.Background(), "TEST", at.Add(30*time.Minute)); err == nil {
		t.Error("want error for a timestamp between bars")
	}
}

func TestAnalyze_UnknownSymbol(t *testing.T) {
	a := testAnalyzer(testSeries(60))
	_, err := a.Analyze(context.Background(), "MISSING")
	if !errors.Is(err, model.ErrNoData) {
		t.Fatalf("want ErrNoData, got %v", err)
	}
}

func TestAnalyze_InsufficientHistory(t *testing.T) {
	a := testAnalyzer(testSeries(3))
	_, err := a.Analyze(context.Background(), "TEST")
	if !errors.Is(err, model.ErrInsufficientHistory) {
		t.Fatalf("want ErrInsufficientHistory, got %v", err)
	}
}
