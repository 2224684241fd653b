package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"klondike/internal/app"
	"klondike/internal/domain"
	"klondike/internal/ports"
)

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeBadRequest, "invalid request body")
		return
	}
	if req.PlayerID == "" {
		s.writeError(w, http.StatusBadRequest, ErrTypeBadRequest, "playerId is required")
		return
	}

	game, err := s.svc.NewGame()
	if err != nil {
		s.logger.Printf("create game: deal failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, "failed to deal game")
		return
	}

	e := &gameEntry{
		ID:       uuid.NewString(),
		PlayerID: req.PlayerID,
		Game:     game,
	}

	token, err := mintGameToken(s.tokenSecret, e.ID, e.PlayerID)
	if err != nil {
		s.logger.Printf("create game: token mint failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, "failed to issue token")
		return
	}

	s.mu.Lock()
	s.games[e.ID] = e
	s.mu.Unlock()

	s.writeJSON(w, http.StatusCreated, CreateGameResponse{
		GameID: e.ID,
		Token:  token,
		State:  s.stateView(e),
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(chi.URLParam(r, "gameID"))
	if !ok {
		s.writeError(w, http.StatusNotFound, ErrTypeNotFound, "game not found")
		return
	}
	s.writeJSON(w, http.StatusOK, s.stateView(e))
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(chi.URLParam(r, "gameID"))
	if !ok {
		s.writeError(w, http.StatusNotFound, ErrTypeNotFound, "game not found")
		return
	}

	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeBadRequest, "invalid move payload")
		return
	}

	s.mu.Lock()
	events, err := s.svc.Apply(e.Game, req)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, ErrTypeRejected, err.Error())
		return
	}

	s.afterChange(r, e, events)
	s.writeJSON(w, http.StatusOK, s.stateView(e))
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(chi.URLParam(r, "gameID"))
	if !ok {
		s.writeError(w, http.StatusNotFound, ErrTypeNotFound, "game not found")
		return
	}

	s.mu.Lock()
	events, err := s.svc.Undo(e.Game)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, ErrTypeRejected, err.Error())
		return
	}

	s.afterChange(r, e, events)
	s.writeJSON(w, http.StatusOK, s.stateView(e))
}

func (s *Server) handleAutoComplete(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(chi.URLParam(r, "gameID"))
	if !ok {
		s.writeError(w, http.StatusNotFound, ErrTypeNotFound, "game not found")
		return
	}

	s.mu.Lock()
	events, err := s.svc.AutoComplete(e.Game)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, ErrTypeRejected, err.Error())
		return
	}

	s.afterChange(r, e, events)
	s.writeJSON(w, http.StatusOK, s.stateView(e))
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(chi.URLParam(r, "gameID"))
	if !ok {
		s.writeError(w, http.StatusNotFound, ErrTypeNotFound, "game not found")
		return
	}

	s.mu.Lock()
	hint, found := domain.FindHint(e.Game)
	s.mu.Unlock()

	resp := HintResponse{Found: found}
	if found {
		resp.Hint = &hint
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(chi.URLParam(r, "gameID"))
	if !ok {
		s.writeError(w, http.StatusNotFound, ErrTypeNotFound, "game not found")
		return
	}

	game, err := s.svc.NewGame()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, "failed to deal game")
		return
	}

	s.mu.Lock()
	e.Game = game
	e.Recorded = false
	s.mu.Unlock()

	s.hub.Broadcast(e.ID, "state", s.stateView(e))
	s.writeJSON(w, http.StatusOK, s.stateView(e))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")
	totals, err := s.ledger.Totals(r.Context(), playerID)
	if err != nil {
		s.logger.Printf("stats: %v", err)
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, "failed to read stats")
		return
	}
	s.writeJSON(w, http.StatusOK, totals)
}

// afterChange publishes the new state to spectators and, on a terminal
// event, records the result in the ledger exactly once.
func (s *Server) afterChange(r *http.Request, e *gameEntry, events []app.Event) {
	s.hub.Broadcast(e.ID, "state", s.stateView(e))

	for _, ev := range events {
		if ev.Kind != app.EventGameWon && ev.Kind != app.EventGameBlocked {
			continue
		}

		payload, ok := ev.Payload.(app.GameEndedPayload)
		if !ok {
			s.logger.Printf("ledger: unexpected %s payload %T for game %s", ev.Kind, ev.Payload, e.ID)
			continue
		}

		s.mu.Lock()
		already := e.Recorded
		e.Recorded = true
		s.mu.Unlock()
		if already {
			continue
		}

		result := ports.GameResult{
			PlayerID:   e.PlayerID,
			Won:        payload.Status == domain.StatusWon,
			Score:      payload.Score,
			Moves:      payload.Moves,
			DurationMS: payload.ElapsedTime * 1000,
		}
		if err := s.ledger.RecordResult(r.Context(), result); err != nil {
			s.logger.Printf("ledger: failed to record result for game %s: %v", e.ID, err)
		}
		s.hub.Broadcast(e.ID, "ended", payload)
	}
}

// stateView snapshots a game under the server lock; mutating handlers
// release s.mu before rendering, so the clone must re-acquire it.
func (s *Server) stateView(e *gameEntry) GameState {
	s.mu.Lock()
	g := e.Game.Clone()
	canAuto := s.svc.CanAutoComplete(e.Game)
	s.mu.Unlock()
	return GameState{
		GameID:      e.ID,
		Tableau:     g.Tableau,
		Foundations: g.Foundations,
		Stock:       g.Stock,
		Waste:       g.Waste,
		Moves:       g.Moves,
		Score:       g.Score,
		Status:      g.Status,
		CanAuto:     canAuto,
	}
}
