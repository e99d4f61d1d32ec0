// Package broker defines the brokerage gateway the trader depends on, plus
// the live Alpaca implementation and an in-memory paper broker.
package broker

import (
	"context"
	"time"
)

// OrderSide is the direction of an order.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// OrderType is the execution style of an order.
type OrderType string

const (
	OrderTypeMarket OrderType = "market"
	OrderTypeLimit  OrderType = "limit"
)

// TimeInForce controls how long an order rests.
type TimeInForce string

const (
	TIFDay TimeInForce = "day"
	TIFGTC TimeInForce = "gtc"
)

// OrderRequest is an order intent produced by the trader. Exactly one of
// Qty or Notional is set: share-quantity sizing for exits and shorts,
// dollar-notional sizing for allocation buys.
type OrderRequest struct {
	Symbol      string
	Side        OrderSide
	Type        OrderType
	Qty         float64
	Notional    float64
	TimeInForce TimeInForce
}

// Order is a brokerage-acknowledged order.
type Order struct {
	ID          string
	Symbol      string
	Side        OrderSide
	Type        OrderType
	Qty         float64
	Notional    float64
	Status      string
	SubmittedAt time.Time
}

// Position is a held position. Qty is signed: negative means short.
type Position struct {
	Symbol string
	Qty    float64
}

// Account is a point-in-time snapshot of the trading account, read once per
// evaluation cycle rather than re-queried mid-pass.
type Account struct {
	BuyingPower float64
	Equity      float64
}

// Broker is the brokerage gateway. All calls are bounded and fallible; any
// retrying belongs to the implementation, never to the trader.
type Broker interface {
	Name() string
	Account(ctx context.Context) (*Account, error)
	ListPositions(ctx context.Context) ([]Position, error)
	ListOrders(ctx context.Context) ([]Order, error)
	CancelOrder(ctx context.Context, orderID string) error
	SubmitOrder(ctx context.Context, req OrderRequest) (*Order, error)
}
