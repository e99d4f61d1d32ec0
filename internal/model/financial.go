package model

import "fmt"

// Statement line item keys, matching the upstream financial API field names.
const (
	ItemNetIncome          = "netIncome"
	ItemOperatingCashFlow  = "totalCashFromOperatingActivities"
	ItemTotalAssets        = "totalAssets"
	ItemCurrentAssets      = "totalCurrentAssets"
	ItemCurrentLiabilities = "totalCurrentLiabilities"
	ItemLongTermDebt       = "longTermDebt"
	ItemGrossProfit        = "grossProfit"
	ItemTotalRevenue       = "totalRevenue"
)

// FinancialYear is one column of a financial statement, keyed by fiscal-year
// label. Absent line items are simply missing from Items.
type FinancialYear struct {
	Label string
	Items map[string]float64
}

// Item looks up a line item. The second return value reports presence;
// statements legitimately omit some items (e.g. long-term debt).
func (y FinancialYear) Item(name string) (float64, bool) {
	v, ok := y.Items[name]
	return v, ok
}

// FinancialHistory is an ordered-by-recency sequence of statement years.
// Years[0] is the most recent fiscal year.
type FinancialHistory struct {
	Symbol string
	Years  []FinancialYear
}

// Require fails when the history holds fewer than n years, so downstream
// scoring never indexes past the available statements.
func (h FinancialHistory) Require(n int) error {
	if len(h.Years) < n {
		return fmt.Errorf("%s: need %d statement years, have %d: %w",
			h.Symbol, n, len(h.Years), ErrInsufficientHistory)
	}
	return nil
}
