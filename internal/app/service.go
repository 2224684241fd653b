package app

import (
	"errors"
	"math/rand"
	"time"

	"klondike/internal/domain"
)

// Service contains the solitaire use-cases operating on domain state. It is
// stateless apart from its rng; every operation validates, mutates the given
// game, logs the move and re-checks terminal state before returning.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = domain.NewRNG()
	}
	return &Service{rng: rng}
}

// Rejections. Illegal-but-well-formed input is reported through these, never
// through panics, and never mutates state.
var (
	ErrNotPlaying    = errors.New("game is not in play")
	ErrEmptyStock    = errors.New("stock is empty")
	ErrEmptyWaste    = errors.New("waste is empty")
	ErrStockNotEmpty = errors.New("stock still has cards")
	ErrIllegalMove   = errors.New("move violates placement rules")
	ErrBadPile       = errors.New("pile index out of range")
	ErrNothingToUndo = errors.New("move log is empty")
	ErrNotSafe       = errors.New("auto-complete is not safe yet")
	ErrUnknownMove   = errors.New("unknown move kind")
)

// MoveRequest is a transport-neutral move submission.
type MoveRequest struct {
	Kind      domain.MoveKind `json:"kind"`
	From      int             `json:"from"`
	CardIndex int             `json:"cardIndex"`
	To        int             `json:"to"`
}

// NewGame shuffles a fresh deck and deals the starting position.
func (s *Service) NewGame() (*domain.Game, error) {
	deck := domain.Shuffle(domain.NewDeck(), s.rng)
	return domain.Deal(deck)
}

// Apply dispatches a move request to the matching operation.
func (s *Service) Apply(g *domain.Game, req MoveRequest) ([]Event, error) {
	switch req.Kind {
	case domain.MoveStockToWaste:
		return s.Draw(g)
	case domain.MoveRecycleStock:
		return s.RecycleStock(g)
	case domain.MoveWasteToTableau:
		return s.WasteToTableau(g, req.To)
	case domain.MoveWasteToFoundation:
		return s.WasteToFoundation(g, req.To)
	case domain.MoveTableauToTableau:
		return s.TableauToTableau(g, req.From, req.CardIndex, req.To)
	case domain.MoveTableauToFoundation:
		return s.TableauToFoundation(g, req.From, req.To)
	case domain.MoveFoundationToTableau:
		return s.FoundationToTableau(g, req.From, req.To)
	default:
		return nil, ErrUnknownMove
	}
}

// Draw turns the top stock card face-up onto the waste.
func (s *Service) Draw(g *domain.Game) ([]Event, error) {
	if g.Status != domain.StatusPlaying {
		return nil, ErrNotPlaying
	}
	if len(g.Stock) == 0 {
		return nil, ErrEmptyStock
	}

	c := g.Stock[0]
	g.Stock = g.Stock[1:]
	c.FaceUp = true
	g.Waste = append([]domain.Card{c}, g.Waste...)

	return s.commit(g, domain.MoveRecord{
		Kind:  domain.MoveStockToWaste,
		From:  -1,
		To:    -1,
		Cards: []domain.Card{c},
	}, ScoreDraw), nil
}

// RecycleStock flips the exhausted waste back into a face-down stock.
func (s *Service) RecycleStock(g *domain.Game) ([]Event, error) {
	if g.Status != domain.StatusPlaying {
		return nil, ErrNotPlaying
	}
	if len(g.Stock) != 0 {
		return nil, ErrStockNotEmpty
	}
	if len(g.Waste) == 0 {
		return nil, ErrEmptyWaste
	}

	prior := append([]domain.Card{}, g.Waste...)
	stock := make([]domain.Card, 0, len(prior))
	for i := len(prior) - 1; i >= 0; i-- {
		c := prior[i]
		c.FaceUp = false
		stock = append(stock, c)
	}
	g.Stock = stock
	g.Waste = nil

	return s.commit(g, domain.MoveRecord{
		Kind:  domain.MoveRecycleStock,
		From:  -1,
		To:    -1,
		Cards: prior,
	}, ScoreRecycleStock), nil
}

// WasteToTableau moves the top waste card onto a tableau column.
func (s *Service) WasteToTableau(g *domain.Game, col int) ([]Event, error) {
	if g.Status != domain.StatusPlaying {
		return nil, ErrNotPlaying
	}
	if col < 0 || col >= domain.TableauColumns {
		return nil, ErrBadPile
	}
	if len(g.Waste) == 0 {
		return nil, ErrEmptyWaste
	}
	c := g.Waste[0]
	if !domain.CanPlaceOnTableau(c, g.Tableau[col]) {
		return nil, ErrIllegalMove
	}

	g.Waste = g.Waste[1:]
	g.Tableau[col] = append(g.Tableau[col], c)

	return s.commit(g, domain.MoveRecord{
		Kind:  domain.MoveWasteToTableau,
		From:  -1,
		To:    col,
		Cards: []domain.Card{c},
	}, ScoreWasteToTableau), nil
}

// WasteToFoundation moves the top waste card onto a foundation pile.
func (s *Service) WasteToFoundation(g *domain.Game, pile int) ([]Event, error) {
	if g.Status != domain.StatusPlaying {
		return nil, ErrNotPlaying
	}
	if pile < 0 || pile >= domain.FoundationPiles {
		return nil, ErrBadPile
	}
	if len(g.Waste) == 0 {
		return nil, ErrEmptyWaste
	}
	c := g.Waste[0]
	if !domain.CanPlaceOnFoundation(c, g.Foundations[pile]) {
		return nil, ErrIllegalMove
	}

	g.Waste = g.Waste[1:]
	g.Foundations[pile] = append(g.Foundations[pile], c)

	return s.commit(g, domain.MoveRecord{
		Kind:  domain.MoveWasteToFoundation,
		From:  -1,
		To:    pile,
		Cards: []domain.Card{c},
	}, ScoreWasteToFoundation), nil
}

// TableauToTableau moves the face-up run starting at cardIndex from one
// column to another. Exposing a face-down card flips it, and the flip is
// recorded for undo.
func (s *Service) TableauToTableau(g *domain.Game, from, cardIndex, to int) ([]Event, error) {
	if g.Status != domain.StatusPlaying {
		return nil, ErrNotPlaying
	}
	if from < 0 || from >= domain.TableauColumns || to < 0 || to >= domain.TableauColumns || from == to {
		return nil, ErrBadPile
	}
	col := g.Tableau[from]
	if cardIndex < 0 || cardIndex >= len(col) {
		return nil, ErrBadPile
	}
	if !col[cardIndex].FaceUp {
		return nil, ErrIllegalMove
	}
	if !domain.CanPlaceOnTableau(col[cardIndex], g.Tableau[to]) {
		return nil, ErrIllegalMove
	}

	moved := append([]domain.Card{}, col[cardIndex:]...)
	g.Tableau[from] = col[:cardIndex]
	flipped := s.flipExposed(g, from)
	g.Tableau[to] = append(g.Tableau[to], moved...)

	return s.commit(g, domain.MoveRecord{
		Kind:    domain.MoveTableauToTableau,
		From:    from,
		To:      to,
		Cards:   moved,
		Flipped: flipped,
	}, ScoreTableauToTableau), nil
}

// TableauToFoundation moves a column's top card onto a foundation pile.
func (s *Service) TableauToFoundation(g *domain.Game, from, pile int) ([]Event, error) {
	if g.Status != domain.StatusPlaying {
		return nil, ErrNotPlaying
	}
	if from < 0 || from >= domain.TableauColumns || pile < 0 || pile >= domain.FoundationPiles {
		return nil, ErrBadPile
	}
	col := g.Tableau[from]
	if len(col) == 0 {
		return nil, ErrIllegalMove
	}
	c := col[len(col)-1]
	if !domain.CanPlaceOnFoundation(c, g.Foundations[pile]) {
		return nil, ErrIllegalMove
	}

	g.Tableau[from] = col[:len(col)-1]
	flipped := s.flipExposed(g, from)
	g.Foundations[pile] = append(g.Foundations[pile], c)

	return s.commit(g, domain.MoveRecord{
		Kind:    domain.MoveTableauToFoundation,
		From:    from,
		To:      pile,
		Cards:   []domain.Card{c},
		Flipped: flipped,
	}, ScoreTableauToFoundation), nil
}

// FoundationToTableau moves a foundation's top card back onto a tableau
// column. The score penalty discourages foundation-robbing.
func (s *Service) FoundationToTableau(g *domain.Game, pile, col int) ([]Event, error) {
	if g.Status != domain.StatusPlaying {
		return nil, ErrNotPlaying
	}
	if pile < 0 || pile >= domain.FoundationPiles || col < 0 || col >= domain.TableauColumns {
		return nil, ErrBadPile
	}
	src := g.Foundations[pile]
	if len(src) == 0 {
		return nil, ErrIllegalMove
	}
	c := src[len(src)-1]
	if !domain.CanPlaceOnTableau(c, g.Tableau[col]) {
		return nil, ErrIllegalMove
	}

	g.Foundations[pile] = src[:len(src)-1]
	g.Tableau[col] = append(g.Tableau[col], c)

	return s.commit(g, domain.MoveRecord{
		Kind:  domain.MoveFoundationToTableau,
		From:  pile,
		To:    col,
		Cards: []domain.Card{c},
	}, ScoreFoundationToTableau), nil
}

// Undo pops the most recent move and restores the exact prior state: card
// placement, orientation, score and move count.
func (s *Service) Undo(g *domain.Game) ([]Event, error) {
	if g.Status != domain.StatusPlaying {
		return nil, ErrNotPlaying
	}
	if len(g.Log) == 0 {
		return nil, ErrNothingToUndo
	}

	rec := g.Log[len(g.Log)-1]
	g.Log = g.Log[:len(g.Log)-1]

	switch rec.Kind {
	case domain.MoveStockToWaste:
		c := g.Waste[0]
		g.Waste = g.Waste[1:]
		c.FaceUp = false
		g.Stock = append([]domain.Card{c}, g.Stock...)

	case domain.MoveRecycleStock:
		g.Waste = append([]domain.Card{}, rec.Cards...)
		g.Stock = nil

	case domain.MoveWasteToTableau:
		col := g.Tableau[rec.To]
		c := col[len(col)-1]
		g.Tableau[rec.To] = col[:len(col)-1]
		g.Waste = append([]domain.Card{c}, g.Waste...)

	case domain.MoveWasteToFoundation:
		pile := g.Foundations[rec.To]
		c := pile[len(pile)-1]
		g.Foundations[rec.To] = pile[:len(pile)-1]
		g.Waste = append([]domain.Card{c}, g.Waste...)

	case domain.MoveTableauToTableau:
		n := len(rec.Cards)
		dst := g.Tableau[rec.To]
		moved := append([]domain.Card{}, dst[len(dst)-n:]...)
		g.Tableau[rec.To] = dst[:len(dst)-n]
		s.unflip(g, rec)
		g.Tableau[rec.From] = append(g.Tableau[rec.From], moved...)

	case domain.MoveTableauToFoundation:
		pile := g.Foundations[rec.To]
		c := pile[len(pile)-1]
		g.Foundations[rec.To] = pile[:len(pile)-1]
		s.unflip(g, rec)
		g.Tableau[rec.From] = append(g.Tableau[rec.From], c)

	case domain.MoveFoundationToTableau:
		col := g.Tableau[rec.To]
		c := col[len(col)-1]
		g.Tableau[rec.To] = col[:len(col)-1]
		g.Foundations[rec.From] = append(g.Foundations[rec.From], c)
	}

	g.Score = rec.PrevScore
	g.Moves--

	return []Event{{
		Kind:    EventMoveUndone,
		Payload: MoveUndonePayload{Kind: rec.Kind, Score: g.Score, Moves: g.Moves},
	}}, nil
}

// CanAutoComplete reports whether the remaining game is deterministic:
// every tableau card face-up with stock and waste empty.
func (s *Service) CanAutoComplete(g *domain.Game) bool {
	if g.Status != domain.StatusPlaying {
		return false
	}
	if len(g.Stock) > 0 || len(g.Waste) > 0 {
		return false
	}
	for _, col := range g.Tableau {
		for _, c := range col {
			if !c.FaceUp {
				return false
			}
		}
	}
	return true
}

// AutoComplete repeatedly applies foundation-bound moves until none remain.
// Each step goes through the normal operations, so scoring, logging and win
// detection behave exactly as if the player made the moves by hand.
func (s *Service) AutoComplete(g *domain.Game) ([]Event, error) {
	if !s.CanAutoComplete(g) {
		return nil, ErrNotSafe
	}

	var events []Event
	for {
		moved := false

		if len(g.Waste) > 0 {
			for pile := range g.Foundations {
				if domain.CanPlaceOnFoundation(g.Waste[0], g.Foundations[pile]) {
					evs, err := s.WasteToFoundation(g, pile)
					if err != nil {
						return events, err
					}
					events = append(events, evs...)
					moved = true
					break
				}
			}
		}

		if !moved {
			for col := range g.Tableau {
				pile := g.Tableau[col]
				if len(pile) == 0 {
					continue
				}
				top := pile[len(pile)-1]
				for f := range g.Foundations {
					if domain.CanPlaceOnFoundation(top, g.Foundations[f]) {
						evs, err := s.TableauToFoundation(g, col, f)
						if err != nil {
							return events, err
						}
						events = append(events, evs...)
						moved = true
						break
					}
				}
				if moved {
					break
				}
			}
		}

		if !moved {
			return events, nil
		}
	}
}

// flipExposed turns the new top of a column face-up after its run left.
// Returns true when a flip happened so the move record can reverse it.
func (s *Service) flipExposed(g *domain.Game, col int) bool {
	pile := g.Tableau[col]
	if len(pile) == 0 {
		return false
	}
	if pile[len(pile)-1].FaceUp {
		return false
	}
	pile[len(pile)-1].FaceUp = true
	return true
}

func (s *Service) unflip(g *domain.Game, rec domain.MoveRecord) {
	if !rec.Flipped {
		return
	}
	pile := g.Tableau[rec.From]
	if len(pile) > 0 {
		pile[len(pile)-1].FaceUp = false
	}
}

// commit finalizes an accepted move: it stamps the pre-move score into the
// record, applies the delta, appends the log entry and re-checks terminal
// state.
func (s *Service) commit(g *domain.Game, rec domain.MoveRecord, delta int) []Event {
	rec.PrevScore = g.Score
	g.Score += delta
	g.Moves++
	g.Log = append(g.Log, rec)

	events := []Event{{
		Kind: EventMoveApplied,
		Payload: MoveAppliedPayload{
			Kind:  rec.Kind,
			From:  rec.From,
			To:    rec.To,
			Cards: rec.Cards,
			Score: g.Score,
			Moves: g.Moves,
		},
	}}

	if domain.CheckWinCondition(g) {
		g.Status = domain.StatusWon
		g.ElapsedTime = int64(time.Since(g.StartTime).Seconds())
		events = append(events, Event{Kind: EventGameWon, Payload: s.endedPayload(g)})
	} else if domain.CheckIfBlocked(g) {
		g.Status = domain.StatusBlocked
		g.ElapsedTime = int64(time.Since(g.StartTime).Seconds())
		events = append(events, Event{Kind: EventGameBlocked, Payload: s.endedPayload(g)})
	}

	return events
}

func (s *Service) endedPayload(g *domain.Game) GameEndedPayload {
	return GameEndedPayload{
		Status:      g.Status,
		Score:       g.Score,
		Moves:       g.Moves,
		ElapsedTime: g.ElapsedTime,
	}
}
