package domain

import "testing"

func up(s Suit, r Rank) Card {
	return Card{Suit: s, Rank: r, FaceUp: true}
}

func TestCanPlaceOnTableau(t *testing.T) {
	tests := []struct {
		name     string
		card     Card
		column   []Card
		expected bool
	}{
		{
			name:     "king on empty column",
			card:     up(Spades, King),
			column:   nil,
			expected: true,
		},
		{
			name:     "non-king on empty column",
			card:     up(Spades, Queen),
			column:   nil,
			expected: false,
		},
		{
			name:     "red on black one lower",
			card:     up(Hearts, 5),
			column:   []Card{up(Clubs, 6)},
			expected: true,
		},
		{
			name:     "black on red one lower",
			card:     up(Clubs, 9),
			column:   []Card{up(Diamonds, 10)},
			expected: true,
		},
		{
			name:     "same color rejected",
			card:     up(Hearts, 5),
			column:   []Card{up(Diamonds, 6)},
			expected: false,
		},
		{
			name:     "wrong rank rejected",
			card:     up(Hearts, 4),
			column:   []Card{up(Clubs, 6)},
			expected: false,
		},
		{
			name:     "equal rank rejected",
			card:     up(Hearts, 6),
			column:   []Card{up(Clubs, 6)},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanPlaceOnTableau(tt.card, tt.column); got != tt.expected {
				t.Errorf("CanPlaceOnTableau = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCanPlaceOnFoundation(t *testing.T) {
	tests := []struct {
		name     string
		card     Card
		pile     []Card
		expected bool
	}{
		{
			name:     "ace on empty pile",
			card:     up(Hearts, Ace),
			pile:     nil,
			expected: true,
		},
		{
			name:     "two on empty pile",
			card:     up(Hearts, 2),
			pile:     nil,
			expected: false,
		},
		{
			name:     "next rank same suit",
			card:     up(Hearts, 2),
			pile:     []Card{up(Hearts, Ace)},
			expected: true,
		},
		{
			name:     "next rank wrong suit",
			card:     up(Diamonds, 2),
			pile:     []Card{up(Hearts, Ace)},
			expected: false,
		},
		{
			name:     "skipped rank rejected",
			card:     up(Hearts, 3),
			pile:     []Card{up(Hearts, Ace)},
			expected: false,
		},
		{
			name:     "king tops queen",
			card:     up(Spades, King),
			pile:     []Card{up(Spades, Queen)},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanPlaceOnFoundation(tt.card, tt.pile); got != tt.expected {
				t.Errorf("CanPlaceOnFoundation = %v, want %v", got, tt.expected)
			}
		})
	}
}
