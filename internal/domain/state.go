package domain

import "time"

const (
	// TableauColumns is the number of tableau columns in a Klondike layout.
	TableauColumns = 7
	// FoundationPiles is the number of foundation piles, one per suit.
	FoundationPiles = 4
)

// Status represents the lifecycle stage of a solitaire game.
type Status string

const (
	// StatusPlaying is the active game state where moves are accepted.
	StatusPlaying Status = "playing"
	// StatusWon is the terminal state with all foundations complete.
	StatusWon Status = "won"
	// StatusBlocked is the terminal state with no legal move remaining.
	StatusBlocked Status = "blocked"
)

// Game holds the authoritative state for a single solitaire game.
//
// Pile ordering conventions: a tableau or foundation pile's last element is
// its top card. Stock is drawn from the head (index 0). Waste keeps the most
// recently drawn card at index 0.
type Game struct {
	Tableau     [TableauColumns][]Card  `json:"tableau"`
	Foundations [FoundationPiles][]Card `json:"foundations"`
	Stock       []Card                  `json:"stock"`
	Waste       []Card                  `json:"waste"`

	Moves  int    `json:"moves"`
	Score  int    `json:"score"`
	Status Status `json:"status"`

	StartTime   time.Time `json:"startTime"`
	ElapsedTime int64     `json:"elapsedTime"` // seconds, fixed at game end

	// Log records every accepted move, most recent last. It carries enough
	// payload to exactly invert each entry.
	Log []MoveRecord `json:"-"`
}

// CardCount returns the total number of cards across all piles.
func (g *Game) CardCount() int {
	n := len(g.Stock) + len(g.Waste)
	for _, col := range g.Tableau {
		n += len(col)
	}
	for _, pile := range g.Foundations {
		n += len(pile)
	}
	return n
}

// Clone returns a deep copy of the game state.
func (g *Game) Clone() *Game {
	out := &Game{
		Moves:       g.Moves,
		Score:       g.Score,
		Status:      g.Status,
		StartTime:   g.StartTime,
		ElapsedTime: g.ElapsedTime,
	}
	for i, col := range g.Tableau {
		out.Tableau[i] = append([]Card{}, col...)
	}
	for i, pile := range g.Foundations {
		out.Foundations[i] = append([]Card{}, pile...)
	}
	out.Stock = append([]Card{}, g.Stock...)
	out.Waste = append([]Card{}, g.Waste...)
	out.Log = append([]MoveRecord{}, g.Log...)
	return out
}
