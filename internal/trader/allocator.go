package trader

import (
	"context"
	"log"
	"math"
	"sort"

	"StockPilot/internal/broker"
	"StockPilot/internal/metrics"
	"StockPilot/internal/model"
)

// AllocateBuys sizes notional market buys for every Buy-labeled candidate
// not already held, splitting buying power by each candidate's share of the
// filtered list's total price. The notional sum never exceeds buyingPower.
//
// Every candidate is re-analyzed immediately before submission; one that no
// longer classifies Buy is skipped (its share of buying power is simply left
// unspent). A submission failure is logged and does not abort the rest of
// the pass.
func (t *Trader) AllocateBuys(ctx context.Context, cands []model.Candidate, held map[string]bool, buyingPower float64) []broker.Order {
	eligible := make([]model.Candidate, 0, len(cands))
	total := 0.0
	for _, c := range cands {
		if c.Analysis != model.AnalysisBuy || held[c.Symbol] {
			continue
		}
		eligible = append(eligible, c)
		total += c.Price
	}
	if len(eligible) == 0 || total <= 0 {
		log.Println("[INFO] no stocks found to buy")
		return nil
	}

	var orders []broker.Order
	for _, c := range eligible {
		report, err := t.analyze(ctx, c.Symbol)
		if err != nil {
			log.Printf("[WARN] buy %s: analysis failed, skipping: %v", c.Symbol, err)
			metrics.AnalysisFailures.Inc()
			continue
		}
		if report.Analysis != model.AnalysisBuy {
			log.Printf("[INFO] buy %s: no longer a Buy (%s), skipping", c.Symbol, report.Analysis)
			continue
		}

		// Fractions are taken over the pre-filter total, so the sum of all
		// notional amounts stays within buying power even when some
		// candidates drop out above. Round down to whole cents.
		notional := math.Floor(buyingPower*(c.Price/total)*100) / 100
		if notional <= 0 {
			continue
		}

		order, err := t.submit(ctx, broker.OrderRequest{
			Symbol:      c.Symbol,
			Side:        broker.OrderSideBuy,
			Type:        broker.OrderTypeMarket,
			Notional:    notional,
			TimeInForce: broker.TIFDay,
		})
		if err != nil {
			log.Printf("[ERROR] buy %s: %v", c.Symbol, err)
			continue
		}
		log.Printf("[INFO] buying %s: $%.2f (stop %.2f, target %.2f)",
			c.Symbol, notional, report.StopPrice, report.TargetPrice)
		orders = append(orders, *order)
	}
	return orders
}

// AllocateShort picks the lowest-volatility Sell-labeled candidate that is
// not held and still classifies Sell at evaluation time, and shorts it with
// floor(buyingPower/price * buffer) shares. The buffer (default 0.95)
// retains a margin cushion. Returns nil when no candidate qualifies.
func (t *Trader) AllocateShort(ctx context.Context, cands []model.Candidate, held map[string]bool, buyingPower float64) *broker.Order {
	sorted := append([]model.Candidate(nil), cands...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ADR < sorted[j].ADR })

	for _, c := range sorted {
		if c.Analysis != model.AnalysisSell || held[c.Symbol] {
			continue
		}

		report, err := t.analyze(ctx, c.Symbol)
		if err != nil {
			log.Printf("[WARN] short %s: analysis failed, skipping: %v", c.Symbol, err)
			metrics.AnalysisFailures.Inc()
			continue
		}
		if report.Analysis != model.AnalysisSell {
			log.Printf("[INFO] short %s: no longer a Sell (%s), skipping", c.Symbol, report.Analysis)
			continue
		}
		if c.Price <= 0 {
			continue
		}

		qty := math.Floor(buyingPower / c.Price * t.cfg.ShortMarginBuffer)
		if qty < 1 {
			log.Printf("[INFO] short %s: buying power too small for one share", c.Symbol)
			continue
		}

		order, err := t.submit(ctx, broker.OrderRequest{
			Symbol:      c.Symbol,
			Side:        broker.OrderSideSell,
			Type:        broker.OrderTypeMarket,
			Qty:         qty,
			TimeInForce: broker.TIFDay,
		})
		if err != nil {
			log.Printf("[ERROR] short %s: %v", c.Symbol, err)
			continue
		}
		log.Printf("[INFO] shorting %s: %.0f shares", c.Symbol, qty)
		return order
	}

	log.Println("[INFO] no candidates found to short")
	return nil
}
