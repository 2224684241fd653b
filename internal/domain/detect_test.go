package domain

import "testing"

func fullPile(s Suit) []Card {
	pile := make([]Card, 0, 13)
	for r := Ace; r <= King; r++ {
		pile = append(pile, Card{Suit: s, Rank: r, FaceUp: true})
	}
	return pile
}

func TestCheckWinCondition(t *testing.T) {
	g := &Game{Status: StatusPlaying}
	g.Foundations[0] = fullPile(Hearts)
	g.Foundations[1] = fullPile(Diamonds)
	g.Foundations[2] = fullPile(Clubs)
	g.Foundations[3] = fullPile(Spades)

	if !CheckWinCondition(g) {
		t.Fatalf("complete foundations should win")
	}

	// 51 of 52 placed is not a win.
	g.Foundations[3] = g.Foundations[3][:12]
	if CheckWinCondition(g) {
		t.Fatalf("12-card foundation should not win")
	}
}

func stuckGame() *Game {
	// No aces exposed, no tableau card has a cross-column destination, and
	// no column is empty, so nothing can move once the stock runs out.
	g := &Game{Status: StatusPlaying}
	g.Tableau[0] = []Card{up(Spades, 4)}
	g.Tableau[1] = []Card{up(Clubs, 4)}
	g.Tableau[2] = []Card{up(Hearts, 10)}
	g.Tableau[3] = []Card{up(Diamonds, 10)}
	g.Tableau[4] = []Card{{Suit: Spades, Rank: 9}, up(Clubs, 10)}
	g.Tableau[5] = []Card{up(Hearts, 4)}
	g.Tableau[6] = []Card{up(Diamonds, 4)}
	return g
}

func TestCheckIfBlocked(t *testing.T) {
	t.Run("stuck layout with empty stock", func(t *testing.T) {
		if !CheckIfBlocked(stuckGame()) {
			t.Fatalf("expected blocked")
		}
	})

	t.Run("never blocked while stock has cards", func(t *testing.T) {
		g := stuckGame()
		g.Stock = []Card{{Suit: Spades, Rank: King}}
		if CheckIfBlocked(g) {
			t.Fatalf("drawing is still available")
		}
	})

	t.Run("waste top with foundation home", func(t *testing.T) {
		g := stuckGame()
		g.Waste = []Card{up(Hearts, Ace)}
		if CheckIfBlocked(g) {
			t.Fatalf("ace can reach a foundation")
		}
	})

	t.Run("waste top with tableau home", func(t *testing.T) {
		g := stuckGame()
		g.Waste = []Card{up(Hearts, 3)}
		if CheckIfBlocked(g) {
			t.Fatalf("red 3 fits on a black 4")
		}
	})

	t.Run("tableau top with foundation home", func(t *testing.T) {
		g := stuckGame()
		g.Foundations[0] = []Card{up(Spades, Ace), up(Spades, 2), up(Spades, 3)}
		if CheckIfBlocked(g) {
			t.Fatalf("spade 4 can reach its foundation")
		}
	})

	t.Run("buried face-up card with destination", func(t *testing.T) {
		g := stuckGame()
		// The 3 is buried under another face-up card but still counts.
		g.Tableau[2] = []Card{up(Hearts, 3), up(Hearts, 10)}
		if CheckIfBlocked(g) {
			t.Fatalf("buried red 3 fits on a black 4")
		}
	})
}

func TestFindHint(t *testing.T) {
	t.Run("prefers foundation moves", func(t *testing.T) {
		g := stuckGame()
		g.Waste = []Card{up(Hearts, 3)}
		g.Foundations[1] = []Card{up(Spades, Ace), up(Spades, 2), up(Spades, 3)}

		hint, ok := FindHint(g)
		if !ok {
			t.Fatalf("expected a hint")
		}
		if hint.Kind != MoveTableauToFoundation {
			t.Fatalf("hint kind = %s, want tableau_to_foundation", hint.Kind)
		}
	})

	t.Run("no hint in a stuck layout", func(t *testing.T) {
		if _, ok := FindHint(stuckGame()); ok {
			t.Fatalf("expected no hint")
		}
	})

	t.Run("skips pointless king relocation", func(t *testing.T) {
		g := &Game{Status: StatusPlaying}
		g.Tableau[0] = []Card{up(Spades, King)}
		// Column 1 is empty; moving the lone king there achieves nothing.
		if _, ok := FindHint(g); ok {
			t.Fatalf("expected no hint")
		}
	})
}
