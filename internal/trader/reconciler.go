package trader

import (
	"context"
	"fmt"
	"log"
	"math"

	"StockPilot/internal/broker"
	"StockPilot/internal/metrics"
	"StockPilot/internal/model"
)

// ReconcilePositions re-evaluates every held position and exits the ones
// whose analysis no longer supports the direction: a long is sold unless the
// symbol still classifies Buy, a short is covered unless it still classifies
// Sell. Open orders for a symbol are cancelled before the opposing market
// order goes out, so a stale resting order can never conflict with the exit.
//
// The returned set contains the symbols still held after the pass. Analysis
// and submission failures are isolated per symbol; a failed exit keeps its
// symbol in the held set so the allocator will not double-enter it.
func (t *Trader) ReconcilePositions(ctx context.Context, positions []broker.Position) (map[string]bool, error) {
	held := make(map[string]bool, len(positions))

	for _, pos := range positions {
		held[pos.Symbol] = true

		report, err := t.analyze(ctx, pos.Symbol)
		if err != nil {
			log.Printf("[WARN] reconcile %s: analysis failed, keeping position: %v", pos.Symbol, err)
			metrics.AnalysisFailures.Inc()
			continue
		}
		log.Printf("[INFO] %s: %s", pos.Symbol, report.Analysis)

		var exit *broker.OrderRequest
		switch {
		case pos.Qty > 0 && report.Analysis != model.AnalysisBuy:
			exit = &broker.OrderRequest{
				Symbol:      pos.Symbol,
				Side:        broker.OrderSideSell,
				Type:        broker.OrderTypeMarket,
				Qty:         pos.Qty,
				TimeInForce: broker.TIFDay,
			}
		case pos.Qty < 0 && report.Analysis != model.AnalysisSell:
			exit = &broker.OrderRequest{
				Symbol:      pos.Symbol,
				Side:        broker.OrderSideBuy,
				Type:        broker.OrderTypeMarket,
				Qty:         math.Abs(pos.Qty),
				TimeInForce: broker.TIFDay,
			}
		}
		if exit == nil {
			continue
		}

		// Stale orders must be gone before the opposing market order.
		if err := t.cancelOpenOrders(ctx, pos.Symbol); err != nil {
			log.Printf("[WARN] reconcile %s: cancel open orders: %v", pos.Symbol, err)
			continue
		}
		if _, err := t.submit(ctx, *exit); err != nil {
			log.Printf("[ERROR] reconcile %s: exit order: %v", pos.Symbol, err)
			continue
		}
		log.Printf("[INFO] exited %s (%s %.4f)", pos.Symbol, exit.Side, exit.Qty)
		delete(held, pos.Symbol)
	}

	return held, nil
}

func (t *Trader) cancelOpenOrders(ctx context.Context, symbol string) error {
	orders, err := t.broker.ListOrders(ctx)
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}
	for _, o := range orders {
		if o.Symbol != symbol {
			continue
		}
		if err := t.broker.CancelOrder(ctx, o.ID); err != nil {
			return fmt.Errorf("cancel %s: %w", o.ID, err)
		}
		log.Printf("[INFO] cancelled stale order %s for %s", o.ID, symbol)
	}
	return nil
}

func (t *Trader) submit(ctx context.Context, req broker.OrderRequest) (*broker.Order, error) {
	order, err := t.broker.SubmitOrder(ctx, req)
	if err != nil {
		metrics.OrderFailures.WithLabelValues(req.Symbol).Inc()
		return nil, fmt.Errorf("%v: %w", err, model.ErrOrderSubmission)
	}
	metrics.OrdersTotal.WithLabelValues(req.Symbol, string(req.Side)).Inc()
	return order, nil
}
