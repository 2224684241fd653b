package table

import "klondike/internal/domain"

// Snapshot is the serialized collaborative state object handed to the
// transport after every accepted move. Participants mirror it wholesale.
type Snapshot struct {
	Tableau     [domain.TableauColumns][]domain.Card  `json:"tableau"`
	Foundations [domain.FoundationPiles][]domain.Card `json:"foundations"`
	Stock       []domain.Card                         `json:"stock"`
	Waste       []domain.Card                         `json:"waste"`
	Moves       int                                   `json:"moves"`
	Score       int                                   `json:"score"`

	CurrentTurn   int              `json:"currentTurn"`
	MaxPlayers    int              `json:"maxPlayers"`
	TurnTimeLimit int64            `json:"turnTimeLimit"`
	TurnStartedAt int64            `json:"turnStartedAt"`
	PlayerMoves   [MaxSeats]int    `json:"playerMoves"`
	Seats         [MaxSeats]string `json:"seats"`
	Status        Phase            `json:"status"`
}

// Action is the lightweight record of who moved, published alongside each
// snapshot.
type Action struct {
	PlayerNumber int             `json:"playerNumber"`
	MoveType     domain.MoveKind `json:"moveType"`
}

// Snapshot builds the current broadcast view of the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		CurrentTurn:   s.CurrentTurnSeat,
		MaxPlayers:    s.MaxPlayers,
		TurnTimeLimit: s.TurnTimeLimit,
		TurnStartedAt: s.TurnStartedAt,
		PlayerMoves:   s.PlayerMoves,
		Seats:         s.Seats,
		Status:        s.Phase,
	}
	if s.Game != nil {
		g := s.Game.Clone()
		snap.Tableau = g.Tableau
		snap.Foundations = g.Foundations
		snap.Stock = g.Stock
		snap.Waste = g.Waste
		snap.Moves = g.Moves
		snap.Score = g.Score
	}
	return snap
}
