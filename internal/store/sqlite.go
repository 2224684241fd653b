package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"klondike/internal/ports"
)

// SQLiteLedger implements ports.LedgerPort on a local SQLite file.
type SQLiteLedger struct {
	db *sql.DB
}

// NewSQLiteLedger opens (or creates) the ledger database.
func NewSQLiteLedger(path string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL keeps concurrent readers cheap while the portal writes results.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &SQLiteLedger{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteLedger) Close() error {
	return s.db.Close()
}

// Migrate creates the results schema.
func (s *SQLiteLedger) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			player_id TEXT NOT NULL,
			won INTEGER NOT NULL,
			score INTEGER NOT NULL,
			moves INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_player ON results(player_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_player_won ON results(player_id, won)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// RecordResult inserts one terminal game summary.
func (s *SQLiteLedger) RecordResult(ctx context.Context, r ports.GameResult) error {
	won := 0
	if r.Won {
		won = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (id, player_id, won, score, moves, duration_ms) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), r.PlayerID, won, r.Score, r.Moves, r.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}
	return nil
}

// Totals aggregates a player's lifetime stats. Win-gated aggregates
// (fastest win, fewest moves) only consider won games.
func (s *SQLiteLedger) Totals(ctx context.Context, playerID string) (ports.StatsTotals, error) {
	var t ports.StatsTotals

	row := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(won), 0),
			COALESCE(SUM(1 - won), 0),
			COALESCE(SUM(score), 0),
			COALESCE(MAX(score), 0)
		FROM results WHERE player_id = ?`, playerID)
	if err := row.Scan(&t.Wins, &t.Losses, &t.TotalScore, &t.BestScore); err != nil {
		return t, fmt.Errorf("failed to read totals: %w", err)
	}

	row = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MIN(duration_ms), 0), COALESCE(MIN(moves), 0)
		FROM results WHERE player_id = ? AND won = 1`, playerID)
	if err := row.Scan(&t.FastestWinMS, &t.FewestMoves); err != nil {
		return t, fmt.Errorf("failed to read win totals: %w", err)
	}

	return t, nil
}
