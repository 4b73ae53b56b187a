package golf

import "sixcardgolf/pkg/deck"

// CardValue returns the scoring value of a single card.
// Aces count 1, twos count -2, face cards J and Q count 10, kings count 0,
// every other card counts its rank.
func CardValue(c deck.Card) int {
	switch c.Rank {
	case deck.Ace:
		return 1
	case 2:
		return -2
	case deck.Jack, deck.Queen:
		return 10
	case deck.King:
		return 0
	default:
		return c.Rank
	}
}

// Score totals a hand. Each column with two cards of equal rank scores
// zero regardless of face status; every other position contributes its
// card value. Lower is better.
func Score(h *Hand) int {
	total := 0
	for col := 0; col < Cols; col++ {
		top := h.CardAt(Position{Row: 0, Col: col})
		bottom := h.CardAt(Position{Row: 1, Col: col})

		if top.Rank == bottom.Rank {
			continue
		}

		total += CardValue(top) + CardValue(bottom)
	}

	return total
}
