package domain

// CheckWinCondition reports whether all four foundations are complete.
func CheckWinCondition(g *Game) bool {
	for _, pile := range g.Foundations {
		if len(pile) != 13 {
			return false
		}
	}
	return true
}

// CheckIfBlocked reports whether no immediate legal move exists. The check
// is a conservative reachability test over the visible position: it does not
// search future recycle permutations, matching the player-visible "stuck"
// feeling rather than proving unwinnability.
func CheckIfBlocked(g *Game) bool {
	// Drawing is always available while the stock holds cards.
	if len(g.Stock) > 0 {
		return false
	}

	// Waste top to any foundation or column.
	if len(g.Waste) > 0 {
		top := g.Waste[0]
		for _, pile := range g.Foundations {
			if CanPlaceOnFoundation(top, pile) {
				return false
			}
		}
		for _, col := range g.Tableau {
			if CanPlaceOnTableau(top, col) {
				return false
			}
		}
	}

	// Any tableau top to a foundation.
	for _, col := range g.Tableau {
		if len(col) == 0 {
			continue
		}
		top := col[len(col)-1]
		for _, pile := range g.Foundations {
			if CanPlaceOnFoundation(top, pile) {
				return false
			}
		}
	}

	// Any face-up tableau card, buried or not, to another column.
	for from, col := range g.Tableau {
		for _, c := range col {
			if !c.FaceUp {
				continue
			}
			for to, dst := range g.Tableau {
				if to == from {
					continue
				}
				if CanPlaceOnTableau(c, dst) {
					return false
				}
			}
		}
	}

	return true
}

// Hint describes a single suggested move.
type Hint struct {
	Kind      MoveKind `json:"kind"`
	From      int      `json:"from"`
	CardIndex int      `json:"cardIndex"`
	To        int      `json:"to"`
}

// FindHint returns the first legal move found in foundation-first scan
// order, or false when only drawing (or nothing) remains.
func FindHint(g *Game) (Hint, bool) {
	if len(g.Waste) > 0 {
		top := g.Waste[0]
		for i, pile := range g.Foundations {
			if CanPlaceOnFoundation(top, pile) {
				return Hint{Kind: MoveWasteToFoundation, From: -1, To: i}, true
			}
		}
	}
	for col, pile := range g.Tableau {
		if len(pile) == 0 {
			continue
		}
		top := pile[len(pile)-1]
		for i, f := range g.Foundations {
			if CanPlaceOnFoundation(top, f) {
				return Hint{Kind: MoveTableauToFoundation, From: col, CardIndex: len(pile) - 1, To: i}, true
			}
		}
	}
	if len(g.Waste) > 0 {
		top := g.Waste[0]
		for col, pile := range g.Tableau {
			if CanPlaceOnTableau(top, pile) {
				return Hint{Kind: MoveWasteToTableau, From: -1, To: col}, true
			}
		}
	}
	for from, col := range g.Tableau {
		for i, c := range col {
			if !c.FaceUp {
				continue
			}
			// Moving a whole column led by a king onto an empty column is
			// legal but never progresses the game; skip it as a hint.
			if i == 0 && c.Rank == King {
				continue
			}
			for to, dst := range g.Tableau {
				if to == from {
					continue
				}
				if CanPlaceOnTableau(c, dst) {
					return Hint{Kind: MoveTableauToTableau, From: from, CardIndex: i, To: to}, true
				}
			}
		}
	}
	return Hint{}, false
}
