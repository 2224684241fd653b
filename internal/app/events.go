package app

import "klondike/internal/domain"

// EventKind identifies emitted engine events for transport dispatch.
type EventKind string

const (
	EventMoveApplied EventKind = "move_applied"
	EventMoveUndone  EventKind = "move_undone"
	EventGameWon     EventKind = "game_won"
	EventGameBlocked EventKind = "game_blocked"
)

// Event is an engine event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type MoveAppliedPayload struct {
	Kind  domain.MoveKind `json:"kind"`
	From  int             `json:"from"`
	To    int             `json:"to"`
	Cards []domain.Card   `json:"cards"`
	Score int             `json:"score"`
	Moves int             `json:"moves"`
}

type MoveUndonePayload struct {
	Kind  domain.MoveKind `json:"kind"`
	Score int             `json:"score"`
	Moves int             `json:"moves"`
}

type GameEndedPayload struct {
	Status      domain.Status `json:"status"`
	Score       int           `json:"score"`
	Moves       int           `json:"moves"`
	ElapsedTime int64         `json:"elapsedTime"`
}
