package ports

import "context"

// GameResult is the per-game summary handed to the ledger when a solo game
// reaches a terminal state.
type GameResult struct {
	PlayerID   string
	Won        bool
	Score      int
	Moves      int
	DurationMS int64
}

// StatsTotals aggregates a player's lifetime results.
type StatsTotals struct {
	Wins          int   `json:"wins"`
	Losses        int   `json:"losses"`
	TotalScore    int   `json:"totalScore"`
	BestScore     int   `json:"bestScore"`
	FastestWinMS  int64 `json:"fastestWinTime"`
	FewestMoves   int   `json:"fewestMoves"`
}

// LedgerPort records terminal game results and reads back totals. The core
// computes summaries; persistence lives behind this boundary.
type LedgerPort interface {
	RecordResult(ctx context.Context, result GameResult) error
	Totals(ctx context.Context, playerID string) (StatsTotals, error)
}
