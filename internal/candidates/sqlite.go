package candidates

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"StockPilot/internal/model"
)

// SQLiteStore persists candidates to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the trade cycle can read while a scan writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite candidate store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stockdb (
			symbol     TEXT PRIMARY KEY,
			price      REAL NOT NULL,
			adr        REAL NOT NULL,
			score      INTEGER NOT NULL,
			analysis   TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stockdb_analysis ON stockdb(analysis)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Upsert replaces the stored row for each candidate's symbol.
func (s *SQLiteStore) Upsert(ctx context.Context, cands []model.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO stockdb
		(symbol, price, adr, score, analysis, updated_at)
		VALUES (?,?,?,?,?,?)
		ON CONFLICT(symbol) DO UPDATE SET
			price=excluded.price, adr=excluded.adr, score=excluded.score,
			analysis=excluded.analysis, updated_at=excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, c := range cands {
		if _, err := stmt.ExecContext(ctx, c.Symbol, c.Price, c.ADR, c.Score, string(c.Analysis), now); err != nil {
			return fmt.Errorf("upsert %s: %w", c.Symbol, err)
		}
	}
	return tx.Commit()
}

// BuyList returns Buy-labeled candidates with Score >= minScore, cheapest
// first.
func (s *SQLiteStore) BuyList(ctx context.Context, minScore int) ([]model.Candidate, error) {
	return s.query(ctx, `SELECT symbol, price, adr, score, analysis, updated_at
		FROM stockdb WHERE analysis = ? AND score >= ? ORDER BY price ASC`,
		string(model.AnalysisBuy), minScore)
}

// ShortList returns Sell-labeled candidates, lowest ADR first.
func (s *SQLiteStore) ShortList(ctx context.Context) ([]model.Candidate, error) {
	return s.query(ctx, `SELECT symbol, price, adr, score, analysis, updated_at
		FROM stockdb WHERE analysis = ? ORDER BY adr ASC`,
		string(model.AnalysisSell))
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...interface{}) ([]model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var cands []model.Candidate
	for rows.Next() {
		var c model.Candidate
		var analysis string
		var updated int64
		if err := rows.Scan(&c.Symbol, &c.Price, &c.ADR, &c.Score, &analysis, &updated); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		c.Analysis = model.Analysis(analysis)
		c.UpdatedAt = time.Unix(updated, 0)
		cands = append(cands, c)
	}
	return cands, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite candidate store")
	return s.db.Close()
}
