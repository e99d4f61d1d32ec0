// Package scheduler wires the scan and trade tasks onto cron.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"StockPilot/internal/scanner"
	"StockPilot/internal/trader"
)

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron    *cron.Cron
	Scanner *scanner.Scanner
	Trader  *trader.Trader
	Symbols []string
	Ctx     context.Context
}

// New creates a Scheduler.
func New(ctx context.Context, sc *scanner.Scanner, tr *trader.Trader, symbols []string) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Scanner: sc,
		Trader:  tr,
		Symbols: symbols,
		Ctx:     ctx,
	}
}

// RegisterAll registers the scan and trade tasks. The scan should fire
// before the trade so the trader allocates from fresh candidates.
func (s *Scheduler) RegisterAll(scanCron, tradeCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	if _, err := s.Cron.AddFunc(tradeCron, s.tradeTask); err != nil {
		return fmt.Errorf("register trade task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunScanNow executes the scan task immediately (for manual trigger).
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

func (s *Scheduler) scanTask() {
	log.Printf("[INFO] running scheduled scan over %d symbols", len(s.Symbols))
	if _, err := s.Scanner.Scan(s.Ctx, s.Symbols); err != nil {
		log.Printf("[ERROR] scheduled scan: %v", err)
	}
}

func (s *Scheduler) tradeTask() {
	log.Println("[INFO] running scheduled trade cycle")
	if err := s.Trader.RunCycle(s.Ctx); err != nil {
		log.Printf("[ERROR] scheduled trade cycle: %v", err)
	}
}
