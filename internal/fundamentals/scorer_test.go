package fundamentals

import (
	"errors"
	"testing"

	"StockPilot/internal/model"
)

func year(label string, items map[string]float64) model.FinancialYear {
	return model.FinancialYear{Label: label, Items: items}
}

// strongStatements builds three years of statements that hit every check:
// rising net income, positive cash flow, improving RoA, positive accruals,
// low debt, current ratio above 1, and improving margin and turnover.
func strongStatements() (balance, income, cashflow model.FinancialHistory) {
	balance = model.FinancialHistory{Symbol: "TEST", Years: []model.FinancialYear{
		year("2025", map[string]float64{
			model.ItemTotalAssets:        100,
			model.ItemCurrentAssets:      50,
			model.ItemCurrentLiabilities: 20,
			model.ItemLongTermDebt:       10,
		}),
		year("2024", map[string]float64{model.ItemTotalAssets: 90}),
		year("2023", map[string]float64{model.ItemTotalAssets: 80}),
	}}
	income = model.FinancialHistory{Symbol: "TEST", Years: []model.FinancialYear{
		year("2025", map[string]float64{
			model.ItemNetIncome:    20,
			model.ItemGrossProfit:  60,
			model.ItemTotalRevenue: 100,
		}),
		year("2024", map[string]float64{
			model.ItemNetIncome:    10,
			model.ItemGrossProfit:  40,
			model.ItemTotalRevenue: 80,
		}),
		year("2023", map[string]float64{model.ItemNetIncome: 5}),
	}}
	cashflow = model.FinancialHistory{Symbol: "TEST", Years: []model.FinancialYear{
		year("2025", map[string]float64{model.ItemOperatingCashFlow: 30}),
		year("2024", map[string]float64{model.ItemOperatingCashFlow: 25}),
		year("2023", map[string]float64{model.ItemOperatingCashFlow: 20}),
	}}
	return balance, income, cashflow
}

func TestScore_PerfectCompany(t *testing.T) {
	s := &Scorer{}
	got, err := s.Score(strongStatements())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Total != 8 {
		t.Errorf("total = %d, want 8 (sub-scores %d/%d/%d)",
			got.Total, got.Profitability, got.Leverage, got.Efficiency)
	}
	if got.Total != got.Profitability+got.Leverage+got.Efficiency {
		t.Errorf("total %d does not equal sum of sub-scores", got.Total)
	}
}

func TestScore_MissingDebtPolicy(t *testing.T) {
	balance, income, cashflow := strongStatements()
	delete(balance.Years[0].Items, model.ItemLongTermDebt)

	s := &Scorer{MissingDebt: AssumeLowRisk}
	got, err := s.Score(balance, income, cashflow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Leverage != 2 {
		t.Errorf("AssumeLowRisk leverage = %d, want 2", got.Leverage)
	}

	s = &Scorer{MissingDebt: RequireDebtField}
	got, err = s.Score(balance, income, cashflow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Leverage != 1 {
		t.Errorf("RequireDebtField leverage = %d, want 1", got.Leverage)
	}
}

func TestScore_HighDebtLosesPoint(t *testing.T) {
	balance, income, cashflow := strongStatements()
	balance.Years[0].Items[model.ItemLongTermDebt] = 50 // ratio 0.5 > 0.4

	s := &Scorer{}
	got, err := s.Score(balance, income, cashflow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Leverage != 1 {
		t.Errorf("leverage = %d, want 1 with a 0.5 debt ratio", got.Leverage)
	}
	if got.Total != 7 {
		t.Errorf("total = %d, want 7", got.Total)
	}
}

func TestScore_BoundsOnWeakCompany(t *testing.T) {
	balance, income, cashflow := strongStatements()
	income.Years[0].Items[model.ItemNetIncome] = -5
	income.Years[0].Items[model.ItemGrossProfit] = 10
	cashflow.Years[0].Items[model.ItemOperatingCashFlow] = -2

	s := &Scorer{}
	got, err := s.Score(balance, income, cashflow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Total < 0 || got.Total > 8 {
		t.Errorf("total = %d out of [0, 8]", got.Total)
	}
	if got.Profitability > 1 {
		t.Errorf("profitability = %d, want at most 1 for a loss-making year", got.Profitability)
	}
}

func TestScore_TooFewYears(t *testing.T) {
	balance, income, cashflow := strongStatements()
	income.Years = income.Years[:2]

	s := &Scorer{}
	_, err := s.Score(balance, income, cashflow)
	if !errors.Is(err, model.ErrInsufficientHistory) {
		t.Fatalf("want ErrInsufficientHistory, got %v", err)
	}
}

func TestScore_ZeroDenominatorIsFatal(t *testing.T) {
	balance, income, cashflow := strongStatements()
	balance.Years[0].Items[model.ItemCurrentLiabilities] = 0

	s := &Scorer{}
	_, err := s.Score(balance, income, cashflow)
	if !errors.Is(err, model.ErrDivisionUndefined) {
		t.Fatalf("want ErrDivisionUndefined, got %v", err)
	}
}

func TestScore_MissingRequiredItem(t *testing.T) {
	balance, income, cashflow := strongStatements()
	delete(income.Years[0].Items, model.ItemNetIncome)

	s := &Scorer{}
	_, err := s.Score(balance, income, cashflow)
	if err == nil {
		t.Fatal("want error for missing net income")
	}
}
