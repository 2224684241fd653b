package domain

import "fmt"

// Suit identifies one of the four French suits.
type Suit string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

// Suits lists all suits in deck order.
var Suits = [4]Suit{Hearts, Diamonds, Clubs, Spades}

// Rank runs Ace=1 through King=13.
type Rank int

const (
	Ace   Rank = 1
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

// Card is a single playing card. Suit and Rank are its identity; FaceUp is
// the only field that changes over a card's lifetime.
type Card struct {
	Suit   Suit `json:"suit"`
	Rank   Rank `json:"rank"`
	FaceUp bool `json:"faceUp"`
}

// ID returns a stable identifier unique within a single deck.
func (c Card) ID() string {
	return fmt.Sprintf("%s-%d", c.Suit, c.Rank)
}

// IsRed reports whether the card belongs to a red suit.
func (c Card) IsRed() bool {
	return c.Suit == Hearts || c.Suit == Diamonds
}

// Is reports identity equality, ignoring orientation.
func (c Card) Is(o Card) bool {
	return c.Suit == o.Suit && c.Rank == o.Rank
}
