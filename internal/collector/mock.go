package collector

import (
	"context"
	"fmt"
	"time"

	"StockPilot/internal/model"
)

// MockPriceFetcher returns controllable fixed data for development and tests.
type MockPriceFetcher struct {
	Series map[string]*model.PriceSeries
	Price  float64
	Bars   int
	TPM    int
}

func (m *MockPriceFetcher) Name() string { return "mock" }

func (m *MockPriceFetcher) FetchBars(_ context.Context, symbol string, _, _ time.Time) (*model.PriceSeries, error) {
	if s, ok := m.Series[symbol]; ok {
		return s, nil
	}
	if m.Bars == 0 {
		return nil, fmt.Errorf("mock: %s: %w", symbol, model.ErrNoData)
	}
	tpm := m.TPM
	if tpm == 0 {
		tpm = 1
	}
	return &model.PriceSeries{
		Symbol:    symbol,
		Bars:      GenerateMockBars(m.Price, m.Bars),
		TPM:       tpm,
		FetchedAt: time.Now(),
	}, nil
}

// GenerateMockBars builds a gently trending bar sequence around basePrice.
func GenerateMockBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   time.Now().Add(-time.Duration(count-i) * time.Hour).Truncate(time.Hour),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// MockFinancialFetcher serves fixed statement histories.
type MockFinancialFetcher struct {
	Balance  map[string]model.FinancialHistory
	Income   map[string]model.FinancialHistory
	Cashflow map[string]model.FinancialHistory
}

func (m *MockFinancialFetcher) Name() string { return "mock" }

func (m *MockFinancialFetcher) BalanceSheet(_ context.Context, symbol string) (model.FinancialHistory, error) {
	return mockHistory(m.Balance, symbol)
}

func (m *MockFinancialFetcher) IncomeStatement(_ context.Context, symbol string) (model.FinancialHistory, error) {
	return mockHistory(m.Income, symbol)
}

func (m *MockFinancialFetcher) CashFlow(_ context.Context, symbol string) (model.FinancialHistory, error) {
	return mockHistory(m.Cashflow, symbol)
}

func mockHistory(histories map[string]model.FinancialHistory, symbol string) (model.FinancialHistory, error) {
	if h, ok := histories[symbol]; ok {
		return h, nil
	}
	return model.FinancialHistory{}, fmt.Errorf("mock: no statements for %s", symbol)
}
