// Package scanner runs the symbol universe through the analyzer in parallel
// and persists the results as candidates.
package scanner

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"StockPilot/internal/analyzer"
	"StockPilot/internal/candidates"
	"StockPilot/internal/metrics"
	"StockPilot/internal/model"
)

// ProgressCallback receives progress updates during a scan.
type ProgressCallback func(scanned, total int)

// Result summarizes one scan pass.
type Result struct {
	TotalScanned int
	Candidates   []model.Candidate
	Failed       []string
	ScanTime     time.Duration
}

// Scanner analyzes symbols with a fixed worker pool and upserts the
// resulting candidate rows.
type Scanner struct {
	analyzer     *analyzer.Analyzer
	store        candidates.Store
	workers      int
	progressFunc ProgressCallback
}

// New creates a Scanner. workers must be at least 1.
func New(a *analyzer.Analyzer, store candidates.Store, workers int) *Scanner {
	if workers < 1 {
		workers = 1
	}
	return &Scanner{analyzer: a, store: store, workers: workers}
}

// SetProgressCallback sets the progress callback function.
func (s *Scanner) SetProgressCallback(fn ProgressCallback) {
	s.progressFunc = fn
}

// Scan analyzes every symbol and stores the results. A symbol whose
// analysis fails is recorded in Result.Failed and skipped; it never aborts
// the rest of the scan.
func (s *Scanner) Scan(ctx context.Context, symbols []string) (*Result, error) {
	start := time.Now()
	if len(symbols) == 0 {
		return &Result{ScanTime: time.Since(start)}, nil
	}

	jobs := make(chan string, len(symbols))
	results := make(chan model.Candidate, len(symbols))
	failures := make(chan string, len(symbols))
	for _, sym := range symbols {
		jobs <- sym
	}
	close(jobs)

	var scanned int64
	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sym := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				report, err := s.analyzer.Analyze(ctx, sym)
				if err != nil {
					log.Printf("[WARN] scan %s: %v", sym, err)
					metrics.AnalysisFailures.Inc()
					failures <- sym
				} else {
					metrics.AnalysesTotal.WithLabelValues(string(report.Analysis)).Inc()
					results <- model.Candidate{
						Symbol:    report.Symbol,
						Price:     report.Price,
						ADR:       report.Indicators.ADR,
						Score:     report.Score.Total,
						Analysis:  report.Analysis,
						UpdatedAt: report.GeneratedAt,
					}
				}

				n := atomic.AddInt64(&scanned, 1)
				if s.progressFunc != nil {
					s.progressFunc(int(n), len(symbols))
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
		close(failures)
	}()

	res := &Result{TotalScanned: len(symbols)}
	for c := range results {
		res.Candidates = append(res.Candidates, c)
	}
	for sym := range failures {
		res.Failed = append(res.Failed, sym)
	}

	if len(res.Candidates) > 0 {
		if err := s.store.Upsert(ctx, res.Candidates); err != nil {
			return nil, err
		}
	}
	res.ScanTime = time.Since(start)
	log.Printf("[INFO] scan complete: %d analyzed, %d failed in %s",
		len(res.Candidates), len(res.Failed), res.ScanTime.Round(time.Second))
	return res, nil
}
