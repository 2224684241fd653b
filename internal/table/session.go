package table

import (
	"errors"

	"klondike/internal/app"
	"klondike/internal/domain"
)

// MaxSeats is the hard seat capacity of a collaborative room.
const MaxSeats = 4

// DefaultTurnLimit is the per-turn countdown in ticks (the match handler
// runs at one tick per second).
const DefaultTurnLimit int64 = 30

// Phase represents the lifecycle stage of a collaborative session.
type Phase string

const (
	// PhaseLobby is the pre-game state where players can join.
	PhaseLobby Phase = "lobby"
	// PhasePlaying is the active game state where moves are accepted.
	PhasePlaying Phase = "playing"
	// PhaseWon and PhaseBlocked are sticky terminal states.
	PhaseWon     Phase = "won"
	PhaseBlocked Phase = "blocked"
)

var (
	ErrFull        = errors.New("session is full")
	ErrNotSeated   = errors.New("player is not seated")
	ErrNotOwner    = errors.New("only the owner may start the game")
	ErrNotStarted  = errors.New("game has not started")
	ErrNotYourTurn = errors.New("not this player's turn")
	ErrGameOver    = errors.New("session has a terminal result")
	ErrTooFew      = errors.New("not enough players to start")
	ErrInProgress  = errors.New("game already in progress")
)

// Session is the explicit per-room state object for one collaborative game.
// Exactly one Session instance exists per room, owned by its coordinator
// (the Nakama match handler); all turn and timer data lives here rather
// than in ambient globals.
type Session struct {
	Phase Phase

	Seats     [MaxSeats]string // seat -> userID, "" when empty
	OwnerSeat int

	Game *domain.Game

	CurrentTurnSeat int
	MaxPlayers      int
	TurnTimeLimit   int64
	TurnStartedAt   int64         // tick of the last turn change
	PlayerMoves     [MaxSeats]int // accepted moves per seat

	svc *app.Service
}

// NewSession constructs an empty lobby-phase session.
func NewSession(svc *app.Service, maxPlayers int, turnLimit int64) *Session {
	if maxPlayers < 2 || maxPlayers > MaxSeats {
		maxPlayers = MaxSeats
	}
	if turnLimit <= 0 {
		turnLimit = DefaultTurnLimit
	}
	return &Session{
		Phase:           PhaseLobby,
		OwnerSeat:       -1,
		CurrentTurnSeat: -1,
		MaxPlayers:      maxPlayers,
		TurnTimeLimit:   turnLimit,
		svc:             svc,
	}
}

// Join seats a player at the lowest free seat. The first occupied seat owns
// the session and performs the initial deal.
func (s *Session) Join(userID string) (int, error) {
	if s.SeatOf(userID) >= 0 {
		return s.SeatOf(userID), nil
	}
	for i := 0; i < s.MaxPlayers; i++ {
		if s.Seats[i] == "" {
			s.Seats[i] = userID
			if s.OwnerSeat < 0 || s.Seats[s.OwnerSeat] == "" {
				s.OwnerSeat = i
			}
			return i, nil
		}
	}
	return -1, ErrFull
}

// Leave frees the player's seat. Ownership passes to the lowest occupied
// seat; if it was the leaver's turn the turn advances.
func (s *Session) Leave(userID string, tick int64) {
	seat := s.SeatOf(userID)
	if seat < 0 {
		return
	}
	s.Seats[seat] = ""
	if s.OwnerSeat == seat {
		s.OwnerSeat = s.lowestOccupiedSeat()
	}
	if s.Phase == PhasePlaying && s.CurrentTurnSeat == seat {
		s.advanceTurn(tick)
	}
}

// SeatOf returns the player's seat index or -1.
func (s *Session) SeatOf(userID string) int {
	if userID == "" {
		return -1
	}
	for i, id := range s.Seats {
		if id == userID {
			return i
		}
	}
	return -1
}

// SeatedCount returns the number of occupied seats.
func (s *Session) SeatedCount() int {
	n := 0
	for _, id := range s.Seats {
		if id != "" {
			n++
		}
	}
	return n
}

// Start deals a fresh game. Only the owner seat may start, with at least
// two players seated; the first turn belongs to the owner.
func (s *Session) Start(seat int, tick int64) ([]app.Event, error) {
	if s.Phase == PhasePlaying {
		return nil, ErrInProgress
	}
	if seat != s.OwnerSeat || s.Seats[seat] == "" {
		return nil, ErrNotOwner
	}
	if s.SeatedCount() < 2 {
		return nil, ErrTooFew
	}

	game, err := s.svc.NewGame()
	if err != nil {
		return nil, err
	}
	s.Game = game
	s.Phase = PhasePlaying
	s.PlayerMoves = [MaxSeats]int{}
	s.CurrentTurnSeat = s.OwnerSeat
	s.TurnStartedAt = tick

	return nil, nil
}

// ApplyMove applies a move on behalf of a seat. Out-of-turn requests and
// requests after a terminal result are rejected without touching state. An
// accepted move counts for the mover, advances the turn and re-runs
// terminal detection through the engine.
func (s *Session) ApplyMove(seat int, req app.MoveRequest, tick int64) ([]app.Event, error) {
	if s.Phase == PhaseWon || s.Phase == PhaseBlocked {
		return nil, ErrGameOver
	}
	if s.Phase != PhasePlaying || s.Game == nil {
		return nil, ErrNotStarted
	}
	if seat < 0 || seat >= MaxSeats || s.Seats[seat] == "" {
		return nil, ErrNotSeated
	}
	if seat != s.CurrentTurnSeat {
		return nil, ErrNotYourTurn
	}

	events, err := s.svc.Apply(s.Game, req)
	if err != nil {
		return nil, err
	}

	s.PlayerMoves[seat]++
	s.syncPhase()
	if s.Phase == PhasePlaying {
		s.advanceTurn(tick)
	}
	return events, nil
}

// CheckTurnTimeout auto-passes the turn when the countdown has lapsed. The
// timed-out player forfeits that turn only; no card state changes and no
// move counter increments. Returns the skipped seat when a pass happened.
func (s *Session) CheckTurnTimeout(tick int64) (int, bool) {
	if s.Phase != PhasePlaying || s.Game == nil {
		return -1, false
	}
	if tick-s.TurnStartedAt < s.TurnTimeLimit {
		return -1, false
	}
	skipped := s.CurrentTurnSeat
	s.advanceTurn(tick)
	return skipped, true
}

// Reset tears the session down to the lobby, discarding the game and the
// pending turn countdown.
func (s *Session) Reset() {
	s.Game = nil
	s.Phase = PhaseLobby
	s.CurrentTurnSeat = -1
	s.TurnStartedAt = 0
	s.PlayerMoves = [MaxSeats]int{}
}

// advanceTurn hands the turn to the next occupied seat in ascending cyclic
// order and restarts the countdown. Setting TurnStartedAt here is the
// cancel-and-restart of the single outstanding turn timer.
func (s *Session) advanceTurn(tick int64) {
	for i := 1; i <= MaxSeats; i++ {
		next := (s.CurrentTurnSeat + i) % MaxSeats
		if s.Seats[next] != "" {
			s.CurrentTurnSeat = next
			s.TurnStartedAt = tick
			return
		}
	}
	// Nobody left to hand the turn to.
	s.CurrentTurnSeat = -1
}

// syncPhase mirrors the engine's terminal status into the session phase.
// Terminal phases are sticky: once set, ApplyMove rejects everything.
func (s *Session) syncPhase() {
	switch s.Game.Status {
	case domain.StatusWon:
		s.Phase = PhaseWon
	case domain.StatusBlocked:
		s.Phase = PhaseBlocked
	}
}

func (s *Session) lowestOccupiedSeat() int {
	for i, id := range s.Seats {
		if id != "" {
			return i
		}
	}
	return -1
}
