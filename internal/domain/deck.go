package domain

import (
	"errors"
	"math/rand"
	"time"
)

// ErrBadDeck rejects deal attempts with anything other than the standard
// 52-card deck.
var ErrBadDeck = errors.New("deck is not a standard 52-card deck")

// NewDeck returns the ordered 52-card deck, all face-down.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for _, s := range Suits {
		for r := Ace; r <= King; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Shuffle returns a shuffled copy of the given deck using the provided rng.
func Shuffle(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Deal lays a 52-card deck into the starting Klondike position: column i
// receives i+1 cards with only the last one face-up, and the remaining 24
// cards become the face-down stock. Decks that are not exactly the standard
// 52 cards are rejected.
func Deal(deck []Card) (*Game, error) {
	if !isStandardDeck(deck) {
		return nil, ErrBadDeck
	}

	g := &Game{
		Status:    StatusPlaying,
		StartTime: time.Now(),
	}

	idx := 0
	for col := 0; col < TableauColumns; col++ {
		pile := make([]Card, 0, col+1)
		for n := 0; n <= col; n++ {
			c := deck[idx]
			c.FaceUp = n == col
			pile = append(pile, c)
			idx++
		}
		g.Tableau[col] = pile
	}

	g.Stock = make([]Card, 0, len(deck)-idx)
	for ; idx < len(deck); idx++ {
		c := deck[idx]
		c.FaceUp = false
		g.Stock = append(g.Stock, c)
	}

	return g, nil
}

func isStandardDeck(deck []Card) bool {
	if len(deck) != 52 {
		return false
	}
	seen := make(map[string]bool, 52)
	for _, c := range deck {
		switch c.Suit {
		case Hearts, Diamonds, Clubs, Spades:
		default:
			return false
		}
		if c.Rank < Ace || c.Rank > King {
			return false
		}
		if seen[c.ID()] {
			return false
		}
		seen[c.ID()] = true
	}
	return true
}

// NewRNG returns a time-seeded rng suitable for shuffling.
func NewRNG() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
