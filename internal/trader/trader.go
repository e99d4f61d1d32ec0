// Package trader reconciles held positions against fresh analyses and
// allocates buying power across scanned candidates.
package trader

import (
	"context"
	"fmt"
	"log"
	"sync"

	"StockPilot/internal/broker"
	"StockPilot/internal/candidates"
	"StockPilot/internal/model"
)

// AnalyzeFunc produces a fresh analysis for one symbol.
type AnalyzeFunc func(ctx context.Context, symbol string) (*model.Report, error)

// Config holds the trading policy knobs.
type Config struct {
	// MinBuyScore is the fundamental score floor for allocation buys.
	MinBuyScore int

	// ShortMarginBuffer scales the short quantity below full buying power
	// to retain a margin cushion. Kept as an explicit policy constant.
	ShortMarginBuffer float64

	// EnableShorts turns the short-side allocation pass on.
	EnableShorts bool
}

// DefaultConfig returns the stock policy: only score-8 buys, 5% short
// margin cushion, shorting enabled.
func DefaultConfig() Config {
	return Config{
		MinBuyScore:       8,
		ShortMarginBuffer: 0.95,
		EnableShorts:      true,
	}
}

// Trader owns one account's order flow. All order submission goes through a
// single mutex-guarded cycle so two sizing passes can never race over the
// same buying power.
type Trader struct {
	mu      sync.Mutex
	broker  broker.Broker
	store   candidates.Store
	analyze AnalyzeFunc
	cfg     Config
}

// New creates a Trader.
func New(b broker.Broker, store candidates.Store, analyze AnalyzeFunc, cfg Config) *Trader {
	return &Trader{broker: b, store: store, analyze: analyze, cfg: cfg}
}

// RunCycle executes one full evaluation pass: reconcile held positions,
// then allocate buys, then (when nothing was bought) a single short. The
// account snapshot is taken once after reconciliation; exits, buys, and the
// short all size against that one snapshot.
func (t *Trader) RunCycle(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	positions, err := t.broker.ListPositions(ctx)
	if err != nil {
		return fmt.Errorf("list positions: %w", err)
	}

	held, err := t.ReconcilePositions(ctx, positions)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	acct, err := t.broker.Account(ctx)
	if err != nil {
		return fmt.Errorf("account snapshot: %w", err)
	}
	log.Printf("[INFO] buying power: $%.2f, %d positions held", acct.BuyingPower, len(held))

	buyList, err := t.store.BuyList(ctx, t.cfg.MinBuyScore)
	if err != nil {
		return fmt.Errorf("load buy list: %w", err)
	}
	bought := t.AllocateBuys(ctx, buyList, held, acct.BuyingPower)

	// The short pass reuses the same buying-power snapshot, so it only runs
	// when the buy pass left it unspent.
	if t.cfg.EnableShorts && len(bought) == 0 {
		shortList, err := t.store.ShortList(ctx)
		if err != nil {
			return fmt.Errorf("load short list: %w", err)
		}
		t.AllocateShort(ctx, shortList, held, acct.BuyingPower)
	}

	return nil
}
