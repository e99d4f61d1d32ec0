// Package candidates persists the scanned candidate list the trader
// allocates from.
package candidates

import (
	"context"

	"StockPilot/internal/model"
)

// Store is the candidate list the allocator reads. The trader treats rows
// as read-only input; only the scanner writes them.
type Store interface {
	// Upsert replaces the stored row for each candidate's symbol.
	Upsert(ctx context.Context, cands []model.Candidate) error

	// BuyList returns Buy-labeled candidates with Score >= minScore,
	// ordered by ascending price.
	BuyList(ctx context.Context, minScore int) ([]model.Candidate, error)

	// ShortList returns Sell-labeled candidates ordered by ascending ADR
	// (lowest volatility first).
	ShortList(ctx context.Context) ([]model.Candidate, error)

	Close() error
}
