package api

import (
	"klondike/internal/app"
	"klondike/internal/domain"
)

// CreateGameRequest starts a new solo game for a player.
type CreateGameRequest struct {
	PlayerID string `json:"playerId"`
}

// CreateGameResponse returns the new game plus its scoped bearer token.
type CreateGameResponse struct {
	GameID string    `json:"gameId"`
	Token  string    `json:"token"`
	State  GameState `json:"state"`
}

// MoveRequest mirrors app.MoveRequest on the wire.
type MoveRequest = app.MoveRequest

// GameState is the client-facing view of a solo game.
type GameState struct {
	GameID      string                                `json:"gameId"`
	Tableau     [domain.TableauColumns][]domain.Card  `json:"tableau"`
	Foundations [domain.FoundationPiles][]domain.Card `json:"foundations"`
	Stock       []domain.Card                         `json:"stock"`
	Waste       []domain.Card                         `json:"waste"`
	Moves       int                                   `json:"moves"`
	Score       int                                   `json:"score"`
	Status      domain.Status                         `json:"status"`
	CanAuto     bool                                  `json:"canAutoComplete"`
}

// HintResponse suggests a move, or reports that only drawing remains.
type HintResponse struct {
	Hint  *domain.Hint `json:"hint,omitempty"`
	Found bool         `json:"found"`
}

// ErrorResponse is the structured error body for rejected requests.
type ErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

const (
	ErrTypeBadRequest   = "bad_request"
	ErrTypeUnauthorized = "unauthorized"
	ErrTypeNotFound     = "not_found"
	ErrTypeRejected     = "move_rejected"
	ErrTypeInternal     = "internal"
)
