package collector

import (
	"context"
	"time"

	"StockPilot/internal/model"
)

// PriceFetcher fetches historical bars for a symbol. Implementations return
// model.ErrNoData (wrapped) when the provider has nothing for the range.
type PriceFetcher interface {
	FetchBars(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error)
	Name() string
}

// FinancialFetcher fetches annual financial statements for a symbol, each
// ordered most-recent-first.
type FinancialFetcher interface {
	BalanceSheet(ctx context.Context, symbol string) (model.FinancialHistory, error)
	IncomeStatement(ctx context.Context, symbol string) (model.FinancialHistory, error)
	CashFlow(ctx context.Context, symbol string) (model.FinancialHistory, error)
	Name() string
}
