package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// AlpacaBroker implements Broker against the Alpaca trading API (paper or
// live endpoint, selected by BaseURL).
type AlpacaBroker struct {
	BaseURL   string
	KeyID     string
	SecretKey string
	Client    *http.Client
}

// NewAlpacaBroker creates a broker client for the given trading endpoint.
func NewAlpacaBroker(baseURL, keyID, secretKey string) *AlpacaBroker {
	return &AlpacaBroker{
		BaseURL:   baseURL,
		KeyID:     keyID,
		SecretKey: secretKey,
		Client:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (b *AlpacaBroker) Name() string { return "alpaca" }

type alpacaAccount struct {
	BuyingPower string `json:"buying_power"`
	Equity      string `json:"equity"`
}

type alpacaPosition struct {
	Symbol string `json:"symbol"`
	Qty    string `json:"qty"`
}

type alpacaOrder struct {
	ID          string    `json:"id"`
	Symbol      string    `json:"symbol"`
	Side        string    `json:"side"`
	Type        string    `json:"type"`
	Qty         string    `json:"qty"`
	Notional    string    `json:"notional"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Account returns the current buying power and equity snapshot.
func (b *AlpacaBroker) Account(ctx context.Context) (*Account, error) {
	var acct alpacaAccount
	if err := b.do(ctx, http.MethodGet, "/v2/account", nil, &acct); err != nil {
		return nil, fmt.Errorf("alpaca account: %w", err)
	}
	return &Account{
		BuyingPower: parseFloat(acct.BuyingPower),
		Equity:      parseFloat(acct.Equity),
	}, nil
}

// ListPositions returns all open positions with signed quantities.
func (b *AlpacaBroker) ListPositions(ctx context.Context) ([]Position, error) {
	var raw []alpacaPosition
	if err := b.do(ctx, http.MethodGet, "/v2/positions", nil, &raw); err != nil {
		return nil, fmt.Errorf("alpaca positions: %w", err)
	}
	positions := make([]Position, 0, len(raw))
	for _, p := range raw {
		positions = append(positions, Position{Symbol: p.Symbol, Qty: parseFloat(p.Qty)})
	}
	return positions, nil
}

// ListOrders returns all open (resting) orders.
func (b *AlpacaBroker) ListOrders(ctx context.Context) ([]Order, error) {
	var raw []alpacaOrder
	if err := b.do(ctx, http.MethodGet, "/v2/orders?status=open", nil, &raw); err != nil {
		return nil, fmt.Errorf("alpaca orders: %w", err)
	}
	orders := make([]Order, 0, len(raw))
	for _, o := range raw {
		orders = append(orders, toOrder(o))
	}
	return orders, nil
}

// CancelOrder cancels a resting order by ID.
func (b *AlpacaBroker) CancelOrder(ctx context.Context, orderID string) error {
	if err := b.do(ctx, http.MethodDelete, "/v2/orders/"+orderID, nil, nil); err != nil {
		return fmt.Errorf("alpaca cancel %s: %w", orderID, err)
	}
	return nil
}

// SubmitOrder submits an order intent.
func (b *AlpacaBroker) SubmitOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	payload := map[string]string{
		"symbol":        req.Symbol,
		"side":          string(req.Side),
		"type":          string(req.Type),
		"time_in_force": string(req.TimeInForce),
	}
	if req.Notional > 0 {
		payload["notional"] = strconv.FormatFloat(req.Notional, 'f', 2, 64)
	} else {
		payload["qty"] = strconv.FormatFloat(req.Qty, 'f', -1, 64)
	}

	var raw alpacaOrder
	if err := b.do(ctx, http.MethodPost, "/v2/orders", payload, &raw); err != nil {
		return nil, fmt.Errorf("alpaca submit %s: %w", req.Symbol, err)
	}
	order := toOrder(raw)
	return &order, nil
}

func (b *AlpacaBroker) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("APCA-API-KEY-ID", b.KeyID)
	req.Header.Set("APCA-API-SECRET-KEY", b.SecretKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.Client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(respBody))
	}
	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
	}
	return nil
}

func toOrder(o alpacaOrder) Order {
	return Order{
		ID:          o.ID,
		Symbol:      o.Symbol,
		Side:        OrderSide(o.Side),
		Type:        OrderType(o.Type),
		Qty:         parseFloat(o.Qty),
		Notional:    parseFloat(o.Notional),
		Status:      o.Status,
		SubmittedAt: o.SubmittedAt,
	}
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
