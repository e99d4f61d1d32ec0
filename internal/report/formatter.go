// Package report renders analysis results for terminal display.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"StockPilot/internal/broker"
	"StockPilot/internal/model"
)

// WriteReport renders one full analysis report.
func WriteReport(w io.Writer, r *model.Report) {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s | %s\n", r.Symbol, r.GeneratedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Price: %.2f\n", r.Price))
	b.WriteString(fmt.Sprintf("Analysis: %s (score %d/8)\n", r.Analysis, r.Score.Total))
	fmt.Fprint(w, b.String())

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Indicator", "Value"}),
	)
	table.Append([]string{"RSI", fmt.Sprintf("%.2f", r.Indicators.RSI)})
	table.Append([]string{"Stoch %K", fmt.Sprintf("%.2f", r.Indicators.StochK)})
	table.Append([]string{"Stoch %D", fmt.Sprintf("%.2f", r.Indicators.StochD)})
	table.Append([]string{"MACD", fmt.Sprintf("%.4f", r.Indicators.MACD)})
	table.Append([]string{"MACD Signal", fmt.Sprintf("%.4f", r.Indicators.MACDSignal)})
	table.Append([]string{"ADR", fmt.Sprintf("%.2f", r.Indicators.ADR)})
	table.Append([]string{"MA50", fmt.Sprintf("%.2f", r.Indicators.Avg50)})
	table.Append([]string{"MA200", fmt.Sprintf("%.2f", r.Indicators.Avg200)})
	table.Render()

	fmt.Fprintf(w, "Sub-scores: profitability %d/4, leverage %d/2, efficiency %d/2\n",
		r.Score.Profitability, r.Score.Leverage, r.Score.Efficiency)
	if r.Analysis == model.AnalysisBuy {
		fmt.Fprintf(w, "Stop: %.2f | Target: %.2f\n", r.StopPrice, r.TargetPrice)
	}
}

// WritePositions renders held positions as a table. Negative quantities are
// shorts.
func WritePositions(w io.Writer, positions []broker.Position) {
	if len(positions) == 0 {
		fmt.Fprintln(w, "No open positions.")
		return
	}
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Symbol", "Qty", "Side"}),
	)
	for _, p := range positions {
		side := "long"
		if p.Qty < 0 {
			side = "short"
		}
		table.Append([]string{p.Symbol, fmt.Sprintf("%.4f", p.Qty), side})
	}
	table.Render()
}

// WriteCandidates renders a candidate list as a table.
func WriteCandidates(w io.Writer, cands []model.Candidate) {
	if len(cands) == 0 {
		fmt.Fprintln(w, "No candidates.")
		return
	}
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Symbol", "Price", "ADR", "Score", "Analysis", "Updated"}),
	)
	for _, c := range cands {
		table.Append([]string{
			c.Symbol,
			fmt.Sprintf("%.2f", c.Price),
			fmt.Sprintf("%.2f", c.ADR),
			fmt.Sprintf("%d", c.Score),
			string(c.Analysis),
			c.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	table.Render()
}
