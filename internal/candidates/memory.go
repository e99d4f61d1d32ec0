package candidates

import (
	"context"
	"sort"
	"sync"

	"StockPilot/internal/model"
)

// MemoryStore is an in-memory Store used when no database is configured and
// in tests.
type MemoryStore struct {
	mu   sync.Mutex
	rows map[string]model.Candidate
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]model.Candidate)}
}

func (s *MemoryStore) Upsert(_ context.Context, cands []model.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range cands {
		s.rows[c.Symbol] = c
	}
	return nil
}

func (s *MemoryStore) BuyList(_ context.Context, minScore int) ([]model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Candidate
	for _, c := range s.rows {
		if c.Analysis == model.AnalysisBuy && c.Score >= minScore {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

func (s *MemoryStore) ShortList(_ context.Context) ([]model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Candidate
	for _, c := range s.rows {
		if c.Analysis == model.AnalysisSell {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ADR < out[j].ADR })
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
