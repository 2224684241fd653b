package store

import (
	"context"
	"path/filepath"
	"testing"

	"klondike/internal/ports"
)

func newTestLedger(t *testing.T) *SQLiteLedger {
	t.Helper()

	ledger, err := NewSQLiteLedger(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	t.Cleanup(func() { ledger.Close() })

	if err := ledger.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return ledger
}

func TestTotalsEmptyPlayer(t *testing.T) {
	ledger := newTestLedger(t)

	totals, err := ledger.Totals(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals != (ports.StatsTotals{}) {
		t.Fatalf("totals = %+v, want zero values", totals)
	}
}

func TestRecordAndTotals(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	results := []ports.GameResult{
		{PlayerID: "alice", Won: true, Score: 120, Moves: 140, DurationMS: 300000},
		{PlayerID: "alice", Won: true, Score: 95, Moves: 120, DurationMS: 240000},
		{PlayerID: "alice", Won: false, Score: -40, Moves: 30, DurationMS: 60000},
		{PlayerID: "bob", Won: true, Score: 200, Moves: 110, DurationMS: 180000},
	}
	for _, r := range results {
		if err := ledger.RecordResult(ctx, r); err != nil {
			t.Fatalf("record %+v: %v", r, err)
		}
	}

	totals, err := ledger.Totals(ctx, "alice")
	if err != nil {
		t.Fatalf("totals: %v", err)
	}

	want := ports.StatsTotals{
		Wins:         2,
		Losses:       1,
		TotalScore:   175,
		BestScore:    120,
		FastestWinMS: 240000,
		FewestMoves:  120,
	}
	if totals != want {
		t.Fatalf("totals = %+v, want %+v", totals, want)
	}
}

func TestWinGatedAggregatesIgnoreLosses(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	// The loss is both faster and shorter than the win; it must not show up
	// in the win-gated columns.
	if err := ledger.RecordResult(ctx, ports.GameResult{
		PlayerID: "carol", Won: false, Score: 10, Moves: 5, DurationMS: 1000,
	}); err != nil {
		t.Fatalf("record loss: %v", err)
	}
	if err := ledger.RecordResult(ctx, ports.GameResult{
		PlayerID: "carol", Won: true, Score: 80, Moves: 150, DurationMS: 500000,
	}); err != nil {
		t.Fatalf("record win: %v", err)
	}

	totals, err := ledger.Totals(ctx, "carol")
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.FastestWinMS != 500000 || totals.FewestMoves != 150 {
		t.Fatalf("win-gated totals = %d/%d, want 500000/150", totals.FastestWinMS, totals.FewestMoves)
	}
}
