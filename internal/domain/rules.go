package domain

// CanPlaceOnTableau reports whether card may legally land on the given
// tableau column: kings on empty columns, otherwise opposite color and one
// rank below the column's top card.
func CanPlaceOnTableau(card Card, column []Card) bool {
	if len(column) == 0 {
		return card.Rank == King
	}
	top := column[len(column)-1]
	return card.IsRed() != top.IsRed() && card.Rank == top.Rank-1
}

// CanPlaceOnFoundation reports whether card may legally land on the given
// foundation pile: aces on empty piles, otherwise same suit and one rank
// above the pile's top card.
func CanPlaceOnFoundation(card Card, pile []Card) bool {
	if len(pile) == 0 {
		return card.Rank == Ace
	}
	top := pile[len(pile)-1]
	return card.Suit == top.Suit && card.Rank == top.Rank+1
}
