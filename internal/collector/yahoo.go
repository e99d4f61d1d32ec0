package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"StockPilot/internal/model"
)

// YahooFinancials implements FinancialFetcher using the Yahoo Finance
// quote-summary API.
type YahooFinancials struct {
	Client *http.Client

	limiter *rate.Limiter
}

// NewYahooFinancials creates a statement fetcher with optional proxy support.
func NewYahooFinancials(proxyURL string) *YahooFinancials {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFinancials{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		limiter: rate.NewLimiter(rate.Limit(1), 2),
	}
}

func (f *YahooFinancials) Name() string { return "yahoo" }

// yahooValue is Yahoo's {raw, fmt} number wrapper. Absent items decode to a
// nil pointer, which is how statement omissions (e.g. no long-term debt)
// surface.
type yahooValue struct {
	Raw *float64 `json:"raw"`
}

type yahooStatement struct {
	EndDate yahooValue            `json:"endDate"`
	Items   map[string]yahooValue `json:"-"`
}

// UnmarshalJSON keeps endDate separate and folds every other numeric field
// into Items under its API name.
func (s *yahooStatement) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	s.Items = make(map[string]yahooValue, len(fields))
	for name, raw := range fields {
		var v yahooValue
		if err := json.Unmarshal(raw, &v); err != nil {
			continue // non-numeric fields like maxAge
		}
		if name == "endDate" {
			s.EndDate = v
			continue
		}
		s.Items[name] = v
	}
	return nil
}

type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			BalanceSheetHistory *struct {
				Statements []yahooStatement `json:"balanceSheetStatements"`
			} `json:"balanceSheetHistory"`
			IncomeStatementHistory *struct {
				Statements []yahooStatement `json:"incomeStatementHistory"`
			} `json:"incomeStatementHistory"`
			CashflowStatementHistory *struct {
				Statements []yahooStatement `json:"cashflowStatements"`
			} `json:"cashflowStatementHistory"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// BalanceSheet returns the annual balance sheet history, most recent first.
func (f *YahooFinancials) BalanceSheet(ctx context.Context, symbol string) (model.FinancialHistory, error) {
	return f.fetchStatements(ctx, symbol, "balanceSheetHistory")
}

// IncomeStatement returns the annual income statement history.
func (f *YahooFinancials) IncomeStatement(ctx context.Context, symbol string) (model.FinancialHistory, error) {
	return f.fetchStatements(ctx, symbol, "incomeStatementHistory")
}

// CashFlow returns the annual cash flow statement history.
func (f *YahooFinancials) CashFlow(ctx context.Context, symbol string) (model.FinancialHistory, error) {
	return f.fetchStatements(ctx, symbol, "cashflowStatementHistory")
}

func (f *YahooFinancials) fetchStatements(ctx context.Context, symbol, module string) (model.FinancialHistory, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return model.FinancialHistory{}, err
	}

	endpoint := fmt.Sprintf(
		"https://query1.finance.yahoo.com/v10/finance/quoteSummary/%s?modules=%s",
		url.PathEscape(symbol), module)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.FinancialHistory{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return model.FinancialHistory{}, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.FinancialHistory{}, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return model.FinancialHistory{}, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var summary yahooSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return model.FinancialHistory{}, fmt.Errorf("yahoo decode: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return model.FinancialHistory{}, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return model.FinancialHistory{}, fmt.Errorf("yahoo: no statements for %s", symbol)
	}

	var statements []yahooStatement
	result := summary.QuoteSummary.Result[0]
	switch module {
	case "balanceSheetHistory":
		if result.BalanceSheetHistory != nil {
			statements = result.BalanceSheetHistory.Statements
		}
	case "incomeStatementHistory":
		if result.IncomeStatementHistory != nil {
			statements = result.IncomeStatementHistory.Statements
		}
	case "cashflowStatementHistory":
		if result.CashflowStatementHistory != nil {
			statements = result.CashflowStatementHistory.Statements
		}
	}

	history := model.FinancialHistory{Symbol: symbol}
	for _, st := range statements {
		year := model.FinancialYear{Items: make(map[string]float64, len(st.Items))}
		if st.EndDate.Raw != nil {
			year.Label = time.Unix(int64(*st.EndDate.Raw), 0).UTC().Format("2006")
		}
		for name, v := range st.Items {
			if v.Raw != nil {
				year.Items[name] = *v.Raw
			}
		}
		history.Years = append(history.Years, year)
	}
	return history, nil
}
