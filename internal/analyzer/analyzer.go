// Package analyzer runs the per-symbol evaluation pipeline: fetch price
// history and statements, derive indicators, score fundamentals, and
// classify the result as Buy, Sell, or Hold.
package analyzer

import (
	"context"
	"fmt"
	"time"

	"StockPilot/internal/calculator"
	"StockPilot/internal/collector"
	"StockPilot/internal/fundamentals"
	"StockPilot/internal/model"
	"StockPilot/internal/strategy"
)

// Analyzer evaluates one symbol at a time. Each evaluation is independent;
// a single Analyzer may be shared by concurrent scan workers.
type Analyzer struct {
	Prices     collector.PriceFetcher
	Financials collector.FinancialFetcher
	Params     calculator.Params
	Scorer     *fundamentals.Scorer

	// Lookback is the calendar window of price history fetched per symbol.
	// It must cover the long moving average in trading days.
	Lookback time.Duration
}

// New creates an Analyzer with the given collaborators.
func New(prices collector.PriceFetcher, financials collector.FinancialFetcher,
	params calculator.Params, scorer *fundamentals.Scorer, lookback time.Duration) *Analyzer {
	return &Analyzer{
		Prices:     prices,
		Financials: financials,
		Params:     params,
		Scorer:     scorer,
		Lookback:   lookback,
	}
}

// Analyze evaluates the symbol on its most recent bar.
func (a *Analyzer) Analyze(ctx context.Context, symbol string) (*model.Report, error) {
	set, score, err := a.prepare(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return a.reportAt(set, score, set.Len()-1), nil
}

// AnalyzeAt evaluates the symbol at a historical bar timestamp. The
// timestamp must match a bar exactly; anything else is an error rather than
// a silent nearest-neighbor lookup.
func (a *Analyzer) AnalyzeAt(ctx context.Context, symbol string, at time.Time) (*model.Report, error) {
	set, score, err := a.prepare(ctx, symbol)
	if err != nil {
		return nil, err
	}
	i, ok := set.IndexAt(at)
	if !ok {
		return nil, fmt.Errorf("%s: no bar at %s", symbol, at.Format(time.RFC3339))
	}
	return a.reportAt(set, score, i), nil
}

func (a *Analyzer) prepare(ctx context.Context, symbol string) (*calculator.Set, model.Score, error) {
	end := time.Now()
	series, err := a.Prices.FetchBars(ctx, symbol, end.Add(-a.Lookback), end)
	if err != nil {
		return nil, model.Score{}, fmt.Errorf("fetch bars: %w", err)
	}

	set, err := calculator.Compute(series, a.Params)
	if err != nil {
		return nil, model.Score{}, fmt.Errorf("compute indicators: %w", err)
	}

	balance, err := a.Financials.BalanceSheet(ctx, symbol)
	if err != nil {
		return nil, model.Score{}, fmt.Errorf("balance sheet: %w", err)
	}
	income, err := a.Financials.IncomeStatement(ctx, symbol)
	if err != nil {
		return nil, model.Score{}, fmt.Errorf("income statement: %w", err)
	}
	cashflow, err := a.Financials.CashFlow(ctx, symbol)
	if err != nil {
		return nil, model.Score{}, fmt.Errorf("cash flow: %w", err)
	}

	score, err := a.Scorer.Score(balance, income, cashflow)
	if err != nil {
		return nil, model.Score{}, fmt.Errorf("score fundamentals: %w", err)
	}
	return set, score, nil
}

func (a *Analyzer) reportAt(set *calculator.Set, score model.Score, i int) *model.Report {
	price := set.Close[i]
	return &model.Report{
		Symbol:      set.Symbol,
		Price:       price,
		Indicators:  set.At(i),
		Score:       score,
		Analysis:    strategy.ClassifyAt(set, score.Total, i),
		StopPrice:   price - set.ADR,
		TargetPrice: price + 2*set.ADR,
		GeneratedAt: time.Now(),
	}
}
