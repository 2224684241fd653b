package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"

	"klondike/internal/app"
	"klondike/internal/config"
	"klondike/internal/table"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Label is the match label advertised for quick-match queries. Open counts
// the remaining lobby seats so listings can filter on `+label.open:>0`.
type Label struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

// matchState holds the authoritative runtime state for one room.
type matchState struct {
	Session   *table.Session
	Presences map[string]runtime.Presence
	Tick      int64
}

// StateUpdate pairs the broadcast snapshot with the action that caused it.
type StateUpdate struct {
	State  table.Snapshot `json:"state"`
	Action *table.Action  `json:"action,omitempty"`
}

// GameErrorEvent is sent privately to the offending sender.
type GameErrorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newMatchHandler() runtime.Match {
	return &matchHandler{}
}

type matchHandler struct{}

// MatchInit boots a new room in lobby phase.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	turnLimit := config.TurnDuration()
	maxPlayers := config.MaxPlayers()

	// Environment overrides win over file config.
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if val, ok := env["klondike_turn_limit_sec"]; ok {
			if i, err := strconv.ParseInt(val, 10, 64); err == nil && i > 0 {
				turnLimit = i
			}
		}
		if val, ok := env["klondike_max_players"]; ok {
			if i, err := strconv.Atoi(val); err == nil {
				maxPlayers = i
			}
		}
	}

	state := &matchState{
		Session:   table.NewSession(app.NewService(nil), maxPlayers, turnLimit),
		Presences: make(map[string]runtime.Presence),
	}

	labelBytes, _ := json.Marshal(Label{Open: maxPlayers, Game: "klondike", Phase: string(table.PhaseLobby)})

	tickRate := 1 // one tick per second; the turn countdown is measured in ticks
	return state, tickRate, string(labelBytes)
}

// MatchJoinAttempt validates whether a presence may join the room.
func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	s, ok := state.(*matchState)
	if !ok {
		return state, false, "state not found"
	}

	// Allow rejoin; disallow new joins once playing.
	if s.Session.Phase != table.PhaseLobby {
		if s.Session.SeatOf(presence.GetUserId()) >= 0 {
			return state, true, ""
		}
		return state, false, "match_in_progress"
	}

	if s.Session.SeatedCount() >= s.Session.MaxPlayers {
		return state, false, "match_full"
	}

	return state, true, ""
}

// MatchJoin seats joining presences and publishes the session state.
func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s, ok := state.(*matchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		s.Presences[p.GetUserId()] = p

		seat, err := s.Session.Join(p.GetUserId())
		if err != nil {
			logger.Warn("MatchJoin: User %s joined but no seat was available.", p.GetUserId())
			continue
		}

		evt, _ := json.Marshal(map[string]any{
			"user_id": p.GetUserId(),
			"seat":    seat,
			"owner":   seat == s.Session.OwnerSeat,
		})
		_ = dispatcher.BroadcastMessage(OpPlayerJoined, evt, nil, nil, true)
	}

	mh.updateLabel(s, dispatcher, logger)
	mh.broadcastState(s, dispatcher, nil)

	return s
}

// MatchLeave frees seats and reassigns ownership.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s, ok := state.(*matchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(s.Presences, p.GetUserId())
		s.Session.Leave(p.GetUserId(), tick)

		evt, _ := json.Marshal(map[string]any{"user_id": p.GetUserId()})
		_ = dispatcher.BroadcastMessage(OpPlayerLeft, evt, nil, nil, true)
	}

	if s.Session.SeatedCount() == 0 {
		logger.Info("MatchLeave: Terminating empty room.")
		return nil
	}

	mh.updateLabel(s, dispatcher, logger)
	mh.broadcastState(s, dispatcher, nil)

	return s
}

// MatchLoop processes room messages and drives the turn countdown.
func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	s, ok := state.(*matchState)
	if !ok {
		return state
	}

	s.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(s, dispatcher, logger, msg)
		case OpMove:
			mh.handleMove(s, dispatcher, logger, msg)
		case OpRequestNewGame:
			mh.handleRequestNewGame(s, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if skipped, ok := s.Session.CheckTurnTimeout(tick); ok {
		evt, _ := json.Marshal(map[string]any{
			"seat":      skipped,
			"next_turn": s.Session.CurrentTurnSeat,
		})
		_ = dispatcher.BroadcastMessage(OpTurnSkipped, evt, nil, nil, true)
		mh.broadcastState(s, dispatcher, nil)
	}

	return s
}

func (mh *matchHandler) handleStartGame(s *matchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderSeat := s.Session.SeatOf(msg.GetUserId())

	if _, err := s.Session.Start(senderSeat, s.Tick); err != nil {
		logger.Warn("StartGame: User %s (seat %d) cannot start: %v", msg.GetUserId(), senderSeat, err)
		mh.sendError(s, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}

	evt, _ := json.Marshal(map[string]any{
		"phase":      string(s.Session.Phase),
		"first_turn": s.Session.CurrentTurnSeat,
	})
	_ = dispatcher.BroadcastMessage(OpGameStarted, evt, nil, nil, true)

	mh.updateLabel(s, dispatcher, logger)
	mh.broadcastState(s, dispatcher, nil)
}

func (mh *matchHandler) handleMove(s *matchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderSeat := s.Session.SeatOf(msg.GetUserId())

	var req app.MoveRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleMove: Invalid move payload from %s: %v", msg.GetUserId(), err)
		mh.sendError(s, dispatcher, logger, msg.GetUserId(), 400, "invalid move payload")
		return
	}

	events, err := s.Session.ApplyMove(senderSeat, req, s.Tick)
	if err != nil {
		logger.Warn("handleMove: User %s (seat %d) move rejected: %v", msg.GetUserId(), senderSeat, err)
		mh.sendError(s, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}

	mh.broadcastState(s, dispatcher, &table.Action{PlayerNumber: senderSeat, MoveType: req.Kind})

	for _, ev := range events {
		if ev.Kind == app.EventGameWon || ev.Kind == app.EventGameBlocked {
			end, _ := json.Marshal(ev.Payload)
			_ = dispatcher.BroadcastMessage(OpGameEnded, end, nil, nil, true)
			mh.updateLabel(s, dispatcher, logger)
		}
	}
}

func (mh *matchHandler) handleRequestNewGame(s *matchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if s.Session.Phase != table.PhaseWon && s.Session.Phase != table.PhaseBlocked {
		return
	}
	if s.Session.SeatOf(msg.GetUserId()) != s.Session.OwnerSeat {
		return
	}

	s.Session.Reset()
	mh.updateLabel(s, dispatcher, logger)
	mh.broadcastState(s, dispatcher, nil)
}

// broadcastState hands the collaborative state object to the transport
// exactly once per accepted change.
func (mh *matchHandler) broadcastState(s *matchState, dispatcher runtime.MatchDispatcher, action *table.Action) {
	update := StateUpdate{State: s.Session.Snapshot(), Action: action}
	bytes, err := json.Marshal(update)
	if err != nil {
		return
	}
	_ = dispatcher.BroadcastMessage(OpStateUpdate, bytes, nil, nil, true)
}

// sendError sends a GameErrorEvent to a specific user.
func (mh *matchHandler) sendError(s *matchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	payload, err := json.Marshal(GameErrorEvent{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal GameErrorEvent: %v", err)
		return
	}

	presence, ok := s.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	_ = dispatcher.BroadcastMessage(OpGameError, payload, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(s *matchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	open := 0
	if s.Session.Phase == table.PhaseLobby {
		open = s.Session.MaxPlayers - s.Session.SeatedCount()
	}
	labelBytes, err := json.Marshal(Label{Open: open, Game: "klondike", Phase: string(s.Session.Phase)})
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

// MatchTerminate runs on room shutdown.
func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	if s, ok := state.(*matchState); ok {
		s.Session.Reset()
	}
	logger.Debug("MatchTerminate: Room terminated for reason %d", reason)
	return state
}

// MatchSignal handles out-of-band signals; unused.
func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
