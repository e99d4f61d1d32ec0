package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PaperBroker is an in-memory Broker used for dry-run trading and tests.
// Market orders fill immediately at the last known price for the symbol.
type PaperBroker struct {
	mu        sync.Mutex
	cash      float64
	prices    map[string]float64
	positions map[string]float64 // signed qty
	open      []Order
	filled    []Order
}

// NewPaperBroker creates a paper account with the given starting cash.
func NewPaperBroker(startingCash float64) *PaperBroker {
	return &PaperBroker{
		cash:      startingCash,
		prices:    make(map[string]float64),
		positions: make(map[string]float64),
	}
}

func (b *PaperBroker) Name() string { return "paper" }

// SetPrice sets the fill price for a symbol.
func (b *PaperBroker) SetPrice(symbol string, price float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prices[symbol] = price
}

// SetPosition seeds a held position, for tests and dry-run scenarios.
func (b *PaperBroker) SetPosition(symbol string, qty float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if qty == 0 {
		delete(b.positions, symbol)
		return
	}
	b.positions[symbol] = qty
}

// Account reports the remaining cash as buying power.
func (b *PaperBroker) Account(_ context.Context) (*Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	equity := b.cash
	for sym, qty := range b.positions {
		equity += qty * b.prices[sym]
	}
	return &Account{BuyingPower: b.cash, Equity: equity}, nil
}

// ListPositions returns all non-zero positions.
func (b *PaperBroker) ListPositions(_ context.Context) ([]Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	positions := make([]Position, 0, len(b.positions))
	for sym, qty := range b.positions {
		positions = append(positions, Position{Symbol: sym, Qty: qty})
	}
	return positions, nil
}

// ListOrders returns resting orders. Market orders fill on submission, so
// this only ever holds limit orders.
func (b *PaperBroker) ListOrders(_ context.Context) ([]Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Order(nil), b.open...), nil
}

// CancelOrder removes a resting order.
func (b *PaperBroker) CancelOrder(_ context.Context, orderID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, o := range b.open {
		if o.ID == orderID {
			b.open = append(b.open[:i], b.open[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("paper: unknown order %s", orderID)
}

// SubmitOrder accepts an order. Market orders fill immediately at the last
// set price; limit orders rest in the open book.
func (b *PaperBroker) SubmitOrder(_ context.Context, req OrderRequest) (*Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	order := Order{
		ID:          uuid.NewString(),
		Symbol:      req.Symbol,
		Side:        req.Side,
		Type:        req.Type,
		Qty:         req.Qty,
		Notional:    req.Notional,
		Status:      "accepted",
		SubmittedAt: time.Now(),
	}

	if req.Type != OrderTypeMarket {
		b.open = append(b.open, order)
		return &order, nil
	}

	price, ok := b.prices[req.Symbol]
	if !ok || price <= 0 {
		return nil, fmt.Errorf("paper: no quote for %s", req.Symbol)
	}

	qty := req.Qty
	if req.Notional > 0 {
		qty = req.Notional / price
	}
	notional := qty * price

	switch req.Side {
	case OrderSideBuy:
		if notional > b.cash+1e-9 && b.positions[req.Symbol] >= 0 {
			return nil, fmt.Errorf("paper: insufficient cash for %s buy", req.Symbol)
		}
		b.cash -= notional
		b.positions[req.Symbol] += qty
	case OrderSideSell:
		b.cash += notional
		b.positions[req.Symbol] -= qty
	default:
		return nil, fmt.Errorf("paper: unknown side %q", req.Side)
	}
	if b.positions[req.Symbol] == 0 {
		delete(b.positions, req.Symbol)
	}

	order.Status = "filled"
	b.filled = append(b.filled, order)
	return &order, nil
}

// FilledOrders exposes the fill log for inspection.
func (b *PaperBroker) FilledOrders() []Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Order(nil), b.filled...)
}
