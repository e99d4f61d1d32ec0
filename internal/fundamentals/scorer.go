// Package fundamentals scores a company's quality from three years of
// financial statements: profitability (0-4), leverage (0-2), and operating
// efficiency (0-2), summing to a 0-8 total.
package fundamentals

import (
	"fmt"

	"StockPilot/internal/model"
)

// MissingDebtPolicy controls how the leverage sub-score treats a balance
// sheet with no long-term-debt line item.
type MissingDebtPolicy string

const (
	// AssumeLowRisk awards the debt-ratio point automatically when the item
	// is absent: no reported long-term debt is read as "no debt risk",
	// not as missing data. Intentional source behavior, kept overridable.
	AssumeLowRisk MissingDebtPolicy = "assume_low_risk"

	// RequireDebtField withholds the point when the item is absent.
	RequireDebtField MissingDebtPolicy = "require_field"
)

// MaxDebtRatio is the long-term-debt / total-assets threshold below which
// the debt-ratio point is awarded.
const MaxDebtRatio = 0.4

// Scorer computes quality scores. The zero value uses AssumeLowRisk.
type Scorer struct {
	MissingDebt MissingDebtPolicy
}

// Score computes the 0-8 quality score from the three statements. Each
// history must hold at least three fiscal years (Years[0] most recent).
// A zero denominator in any ratio is fatal for the whole score.
func (s *Scorer) Score(balance, income, cashflow model.FinancialHistory) (model.Score, error) {
	for _, h := range []model.FinancialHistory{balance, income, cashflow} {
		if err := h.Require(3); err != nil {
			return model.Score{}, err
		}
	}

	p, err := s.profitability(balance, income, cashflow)
	if err != nil {
		return model.Score{}, fmt.Errorf("profitability: %w", err)
	}
	l, err := s.leverage(balance)
	if err != nil {
		return model.Score{}, fmt.Errorf("leverage: %w", err)
	}
	e, err := s.efficiency(balance, income)
	if err != nil {
		return model.Score{}, fmt.Errorf("operating efficiency: %w", err)
	}

	return model.Score{
		Profitability: p,
		Leverage:      l,
		Efficiency:    e,
		Total:         p + l + e,
	}, nil
}

// profitability awards up to 4 points: rising positive net income, positive
// operating cash flow, improving return on assets, and positive accruals.
func (s *Scorer) profitability(balance, income, cashflow model.FinancialHistory) (int, error) {
	netIncome, err := item(income.Years[0], model.ItemNetIncome)
	if err != nil {
		return 0, err
	}
	netIncomeLast, err := item(income.Years[1], model.ItemNetIncome)
	if err != nil {
		return 0, err
	}
	opCF, err := item(cashflow.Years[0], model.ItemOperatingCashFlow)
	if err != nil {
		return 0, err
	}

	avgAssets, avgAssetsLast, err := averageAssets(balance)
	if err != nil {
		return 0, err
	}
	roa := netIncome / avgAssets
	roaLast := netIncomeLast / avgAssetsLast

	totalAssets, err := item(balance.Years[0], model.ItemTotalAssets)
	if err != nil {
		return 0, err
	}
	if totalAssets == 0 {
		return 0, fmt.Errorf("accruals: zero total assets: %w", model.ErrDivisionUndefined)
	}
	accruals := opCF/totalAssets - roa

	score := 0
	if netIncome > netIncomeLast && netIncome > 0 {
		score++
	}
	if opCF > 0 {
		score++
	}
	if roa > roaLast {
		score++
	}
	if accruals > 0 {
		score++
	}
	return score, nil
}

// leverage awards up to 2 points: low long-term-debt ratio (or the missing
// debt policy credit) and a current ratio above 1.
func (s *Scorer) leverage(balance model.FinancialHistory) (int, error) {
	score := 0

	ltd, present := balance.Years[0].Item(model.ItemLongTermDebt)
	if !present {
		if s.policy() == AssumeLowRisk {
			score++
		}
	} else {
		totalAssets, err := item(balance.Years[0], model.ItemTotalAssets)
		if err != nil {
			return 0, err
		}
		if totalAssets == 0 {
			return 0, fmt.Errorf("debt ratio: zero total assets: %w", model.ErrDivisionUndefined)
		}
		if ltd/totalAssets < MaxDebtRatio {
			score++
		}
	}

	currentAssets, err := item(balance.Years[0], model.ItemCurrentAssets)
	if err != nil {
		return 0, err
	}
	currentLiab, err := item(balance.Years[0], model.ItemCurrentLiabilities)
	if err != nil {
		return 0, err
	}
	if currentLiab == 0 {
		return 0, fmt.Errorf("current ratio: zero current liabilities: %w", model.ErrDivisionUndefined)
	}
	if currentAssets/currentLiab > 1 {
		score++
	}
	return score, nil
}

// efficiency awards up to 2 points: improving gross margin and improving
// asset turnover.
func (s *Scorer) efficiency(balance, income model.FinancialHistory) (int, error) {
	gp, err := item(income.Years[0], model.ItemGrossProfit)
	if err != nil {
		return 0, err
	}
	gpLast, err := item(income.Years[1], model.ItemGrossProfit)
	if err != nil {
		return 0, err
	}
	revenue, err := item(income.Years[0], model.ItemTotalRevenue)
	if err != nil {
		return 0, err
	}
	revenueLast, err := item(income.Years[1], model.ItemTotalRevenue)
	if err != nil {
		return 0, err
	}
	if revenue == 0 || revenueLast == 0 {
		return 0, fmt.Errorf("gross margin: zero revenue: %w", model.ErrDivisionUndefined)
	}

	avgAssets, avgAssetsLast, err := averageAssets(balance)
	if err != nil {
		return 0, err
	}

	score := 0
	if gp/revenue > gpLast/revenueLast {
		score++
	}
	if revenue/avgAssets > revenueLast/avgAssetsLast {
		score++
	}
	return score, nil
}

// averageAssets returns the two-year average total assets for the current
// and the prior comparison period.
func averageAssets(balance model.FinancialHistory) (current, last float64, err error) {
	a0, err := item(balance.Years[0], model.ItemTotalAssets)
	if err != nil {
		return 0, 0, err
	}
	a1, err := item(balance.Years[1], model.ItemTotalAssets)
	if err != nil {
		return 0, 0, err
	}
	a2, err := item(balance.Years[2], model.ItemTotalAssets)
	if err != nil {
		return 0, 0, err
	}
	current = (a0 + a1) / 2
	last = (a1 + a2) / 2
	if current == 0 || last == 0 {
		return 0, 0, fmt.Errorf("zero average assets: %w", model.ErrDivisionUndefined)
	}
	return current, last, nil
}

func (s *Scorer) policy() MissingDebtPolicy {
	if s.MissingDebt == "" {
		return AssumeLowRisk
	}
	return s.MissingDebt
}

func item(year model.FinancialYear, name string) (float64, error) {
	v, ok := year.Item(name)
	if !ok {
		return 0, fmt.Errorf("statement year %s missing line item %q", year.Label, name)
	}
	return v, nil
}
