package app

import (
	"math/rand"
	"testing"
	"time"

	"klondike/internal/domain"
)

func newTestService() *Service {
	return NewService(rand.New(rand.NewSource(42)))
}

func card(s domain.Suit, r domain.Rank) domain.Card {
	return domain.Card{Suit: s, Rank: r, FaceUp: true}
}

func down(s domain.Suit, r domain.Rank) domain.Card {
	return domain.Card{Suit: s, Rank: r}
}

// playingGame returns a minimal in-play state. The stock card keeps the
// blocked check from firing after moves.
func playingGame() *domain.Game {
	g := &domain.Game{Status: domain.StatusPlaying, StartTime: time.Now()}
	g.Stock = []domain.Card{down(domain.Spades, 2)}
	return g
}

func TestDraw(t *testing.T) {
	svc := newTestService()
	g, err := svc.NewGame()
	if err != nil {
		t.Fatalf("new game: %v", err)
	}

	top := g.Stock[0]
	events, err := svc.Draw(g)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}

	if len(g.Stock) != 23 || len(g.Waste) != 1 {
		t.Fatalf("stock/waste = %d/%d, want 23/1", len(g.Stock), len(g.Waste))
	}
	if !g.Waste[0].Is(top) {
		t.Fatalf("waste top = %s, want %s", g.Waste[0].ID(), top.ID())
	}
	if !g.Waste[0].FaceUp {
		t.Fatalf("drawn card should be face-up")
	}
	if g.Moves != 1 || g.Score != 0 {
		t.Fatalf("moves/score = %d/%d, want 1/0", g.Moves, g.Score)
	}
	if len(events) != 1 || events[0].Kind != EventMoveApplied {
		t.Fatalf("events = %+v, want one move_applied", events)
	}
}

func TestDrawEmptyStock(t *testing.T) {
	svc := newTestService()
	g := playingGame()
	g.Stock = nil
	g.Waste = []domain.Card{card(domain.Hearts, 3)}

	if _, err := svc.Draw(g); err != ErrEmptyStock {
		t.Fatalf("err = %v, want ErrEmptyStock", err)
	}
}

// drainableGame returns a playing state whose stock can be drawn to
// exhaustion without tripping the blocked check: the last drawn card, the
// red 5, always fits on the black 6.
func drainableGame() *domain.Game {
	g := playingGame()
	g.Stock = []domain.Card{
		down(domain.Spades, 9),
		down(domain.Diamonds, domain.Queen),
		down(domain.Hearts, 5),
	}
	g.Tableau[0] = []domain.Card{card(domain.Clubs, 6)}
	return g
}

func TestRecycleStock(t *testing.T) {
	svc := newTestService()
	g := drainableGame()

	original := append([]domain.Card{}, g.Stock...)
	for len(g.Stock) > 0 {
		if _, err := svc.Draw(g); err != nil {
			t.Fatalf("draw: %v", err)
		}
	}

	if _, err := svc.RecycleStock(g); err != nil {
		t.Fatalf("recycle: %v", err)
	}

	if len(g.Waste) != 0 {
		t.Fatalf("waste has %d cards after recycle", len(g.Waste))
	}
	if len(g.Stock) != len(original) {
		t.Fatalf("stock size = %d, want %d", len(g.Stock), len(original))
	}
	// Re-drawing must replay the original stock order.
	for i, c := range g.Stock {
		if !c.Is(original[i]) {
			t.Fatalf("stock[%d] = %s, want %s", i, c.ID(), original[i].ID())
		}
		if c.FaceUp {
			t.Fatalf("recycled card %s is face-up", c.ID())
		}
	}
	if g.Score != ScoreRecycleStock {
		t.Fatalf("score = %d, want %d", g.Score, ScoreRecycleStock)
	}
}

func TestRecycleStockRejected(t *testing.T) {
	svc := newTestService()

	t.Run("stock not empty", func(t *testing.T) {
		g := playingGame()
		g.Waste = []domain.Card{card(domain.Hearts, 3)}
		if _, err := svc.RecycleStock(g); err != ErrStockNotEmpty {
			t.Fatalf("err = %v, want ErrStockNotEmpty", err)
		}
	})

	t.Run("waste empty", func(t *testing.T) {
		g := playingGame()
		g.Stock = nil
		g.Tableau[0] = []domain.Card{card(domain.Spades, domain.King)}
		if _, err := svc.RecycleStock(g); err != ErrEmptyWaste {
			t.Fatalf("err = %v, want ErrEmptyWaste", err)
		}
	})
}

func TestRejectedMoveDoesNotMutate(t *testing.T) {
	svc := newTestService()
	g := playingGame()
	g.Waste = []domain.Card{card(domain.Hearts, 5)}
	g.Tableau[0] = []domain.Card{card(domain.Diamonds, 6)} // same color, no fit
	before := g.Clone()

	tests := []struct {
		name string
		req  MoveRequest
		want error
	}{
		{"illegal placement", MoveRequest{Kind: domain.MoveWasteToTableau, To: 0}, ErrIllegalMove},
		{"bad column", MoveRequest{Kind: domain.MoveWasteToTableau, To: 9}, ErrBadPile},
		{"bad foundation", MoveRequest{Kind: domain.MoveWasteToFoundation, To: -1}, ErrBadPile},
		{"same column", MoveRequest{Kind: domain.MoveTableauToTableau, From: 0, To: 0}, ErrBadPile},
		{"empty source column", MoveRequest{Kind: domain.MoveTableauToFoundation, From: 3, To: 0}, ErrIllegalMove},
		{"empty foundation source", MoveRequest{Kind: domain.MoveFoundationToTableau, From: 0, To: 0}, ErrIllegalMove},
		{"unknown kind", MoveRequest{Kind: "teleport"}, ErrUnknownMove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Apply(g, tt.req); err != tt.want {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			sameState(t, before, g)
		})
	}
}

func TestScoring(t *testing.T) {
	svc := newTestService()
	g := playingGame()
	g.Waste = []domain.Card{card(domain.Hearts, domain.Ace)}

	if _, err := svc.WasteToFoundation(g, 0); err != nil {
		t.Fatalf("waste to foundation: %v", err)
	}
	if g.Score != ScoreWasteToFoundation {
		t.Fatalf("score = %d, want %d", g.Score, ScoreWasteToFoundation)
	}

	g.Tableau[0] = []domain.Card{card(domain.Spades, 2)}
	if _, err := svc.FoundationToTableau(g, 0, 0); err != nil {
		t.Fatalf("foundation to tableau: %v", err)
	}
	if g.Score != ScoreWasteToFoundation+ScoreFoundationToTableau {
		t.Fatalf("score = %d, want %d", g.Score, ScoreWasteToFoundation+ScoreFoundationToTableau)
	}
	if g.Moves != 2 {
		t.Fatalf("moves = %d, want 2", g.Moves)
	}
}

func TestMoveFlipsExposedCard(t *testing.T) {
	svc := newTestService()
	g := playingGame()
	g.Tableau[0] = []domain.Card{down(domain.Spades, 9), card(domain.Hearts, 5)}
	g.Tableau[1] = []domain.Card{card(domain.Clubs, 6)}

	if _, err := svc.TableauToTableau(g, 0, 1, 1); err != nil {
		t.Fatalf("move: %v", err)
	}

	if len(g.Tableau[0]) != 1 || !g.Tableau[0][0].FaceUp {
		t.Fatalf("exposed card should be flipped face-up")
	}
	if len(g.Tableau[1]) != 2 {
		t.Fatalf("destination has %d cards, want 2", len(g.Tableau[1]))
	}

	rec := g.Log[len(g.Log)-1]
	if !rec.Flipped {
		t.Fatalf("move record should note the flip")
	}
}

func TestMoveRunKeepsOrder(t *testing.T) {
	svc := newTestService()
	g := playingGame()
	g.Tableau[0] = []domain.Card{
		card(domain.Clubs, 9),
		card(domain.Hearts, 8),
		card(domain.Spades, 7),
	}
	g.Tableau[1] = []domain.Card{card(domain.Diamonds, 10)}

	// Move the whole run headed by the black 9 onto the red 10.
	if _, err := svc.TableauToTableau(g, 0, 0, 1); err != nil {
		t.Fatalf("move: %v", err)
	}

	want := []domain.Card{
		card(domain.Diamonds, 10),
		card(domain.Clubs, 9),
		card(domain.Hearts, 8),
		card(domain.Spades, 7),
	}
	if len(g.Tableau[1]) != len(want) {
		t.Fatalf("destination has %d cards, want %d", len(g.Tableau[1]), len(want))
	}
	for i, c := range g.Tableau[1] {
		if !c.Is(want[i]) {
			t.Fatalf("destination[%d] = %s, want %s", i, c.ID(), want[i].ID())
		}
	}
}

func TestFaceDownRunRejected(t *testing.T) {
	svc := newTestService()
	g := playingGame()
	g.Tableau[0] = []domain.Card{down(domain.Clubs, 9), card(domain.Hearts, 8)}
	g.Tableau[1] = []domain.Card{card(domain.Diamonds, 10)}

	if _, err := svc.TableauToTableau(g, 0, 0, 1); err != ErrIllegalMove {
		t.Fatalf("err = %v, want ErrIllegalMove", err)
	}
}

func TestWinningMove(t *testing.T) {
	svc := newTestService()
	g := &domain.Game{Status: domain.StatusPlaying, StartTime: time.Now()}
	suits := [4]domain.Suit{domain.Hearts, domain.Diamonds, domain.Clubs, domain.Spades}
	for i, s := range suits {
		for r := domain.Ace; r <= domain.King; r++ {
			g.Foundations[i] = append(g.Foundations[i], card(s, r))
		}
	}
	// Pull the spade king back out; placing it is the winning move.
	g.Foundations[3] = g.Foundations[3][:12]
	g.Tableau[0] = []domain.Card{card(domain.Spades, domain.King)}

	events, err := svc.TableauToFoundation(g, 0, 3)
	if err != nil {
		t.Fatalf("move: %v", err)
	}

	if g.Status != domain.StatusWon {
		t.Fatalf("status = %s, want won", g.Status)
	}
	if len(events) != 2 || events[1].Kind != EventGameWon {
		t.Fatalf("events = %+v, want move_applied then game_won", events)
	}

	// Terminal state is sticky.
	if _, err := svc.Draw(g); err != ErrNotPlaying {
		t.Fatalf("err = %v, want ErrNotPlaying", err)
	}
}

func TestBlockingMove(t *testing.T) {
	svc := newTestService()
	g := &domain.Game{Status: domain.StatusPlaying, StartTime: time.Now()}
	// After the final draw nothing fits anywhere: no aces, no empty
	// columns, no opposite-color descending pair across tops.
	g.Tableau[0] = []domain.Card{card(domain.Spades, 4)}
	g.Tableau[1] = []domain.Card{card(domain.Clubs, 4)}
	g.Tableau[2] = []domain.Card{card(domain.Hearts, 10)}
	g.Tableau[3] = []domain.Card{card(domain.Diamonds, 10)}
	g.Tableau[4] = []domain.Card{down(domain.Spades, 9), card(domain.Clubs, 10)}
	g.Tableau[5] = []domain.Card{card(domain.Hearts, 4)}
	g.Tableau[6] = []domain.Card{card(domain.Diamonds, 4)}
	g.Stock = []domain.Card{down(domain.Spades, 8)}

	events, err := svc.Draw(g)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}

	if g.Status != domain.StatusBlocked {
		t.Fatalf("status = %s, want blocked", g.Status)
	}
	if len(events) != 2 || events[1].Kind != EventGameBlocked {
		t.Fatalf("events = %+v, want move_applied then game_blocked", events)
	}
	if _, err := svc.Apply(g, MoveRequest{Kind: domain.MoveRecycleStock}); err != ErrNotPlaying {
		t.Fatalf("err = %v, want ErrNotPlaying", err)
	}
}

func TestCardConservation(t *testing.T) {
	svc := newTestService()
	g, err := svc.NewGame()
	if err != nil {
		t.Fatalf("new game: %v", err)
	}

	for i := 0; i < 10; i++ {
		if _, err := svc.Draw(g); err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if g.CardCount() != 52 {
			t.Fatalf("card count = %d after draw %d, want 52", g.CardCount(), i)
		}
	}
}

// sameState compares two games pile by pile, treating nil and empty piles
// as equal.
func sameState(t *testing.T, want, got *domain.Game) {
	t.Helper()

	samePile := func(name string, want, got []domain.Card) {
		t.Helper()
		if len(want) != len(got) {
			t.Fatalf("%s size = %d, want %d", name, len(got), len(want))
		}
		for i := range want {
			if want[i] != got[i] {
				t.Fatalf("%s[%d] = %+v, want %+v", name, i, got[i], want[i])
			}
		}
	}

	for i := range want.Tableau {
		samePile("tableau "+string(rune('0'+i)), want.Tableau[i], got.Tableau[i])
	}
	for i := range want.Foundations {
		samePile("foundation "+string(rune('0'+i)), want.Foundations[i], got.Foundations[i])
	}
	samePile("stock", want.Stock, got.Stock)
	samePile("waste", want.Waste, got.Waste)

	if want.Score != got.Score {
		t.Fatalf("score = %d, want %d", got.Score, want.Score)
	}
	if want.Moves != got.Moves {
		t.Fatalf("moves = %d, want %d", got.Moves, want.Moves)
	}
	if want.Status != got.Status {
		t.Fatalf("status = %s, want %s", got.Status, want.Status)
	}
	if len(want.Log) != len(got.Log) {
		t.Fatalf("log size = %d, want %d", len(got.Log), len(want.Log))
	}
}
