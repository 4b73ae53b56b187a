package golf

import (
	"fmt"
	"math/rand"
	"time"

	"sixcardgolf/pkg/deck"
)

// number of positions flipped face-up at hole setup
const initialFaceUp = 2

// package-level rng for the initial face-up picks
// defined here for testing purposes
var random = rand.New(rand.NewSource(time.Now().UnixNano())) // nolint:gosec

// Deal draws six cards per player from a shuffled deck, flips two
// uniformly random positions face-up in each hand, and starts the
// discard pile from the next stock card. The remaining deck becomes the
// stock pile. The union of both piles and every hand is the full
// 52-card deck.
func Deal(d *deck.Deck, players []string) (map[string]*Hand, *Piles, error) {
	if !d.CanDraw(len(players)*HandSize + 1) {
		return nil, nil, fmt.Errorf("deck cannot deal %d hands", len(players))
	}

	hands := make(map[string]*Hand, len(players))
	for _, player := range players {
		cards := make([]deck.Card, HandSize)
		for i := range cards {
			card, err := d.Draw()
			if err != nil {
				return nil, nil, err
			}

			cards[i] = card
		}

		hand, err := NewHand(cards)
		if err != nil {
			return nil, nil, err
		}

		for _, i := range random.Perm(HandSize)[:initialFaceUp] {
			hand.Flip(Position{Row: i / Cols, Col: i % Cols})
		}

		hands[player] = hand
	}

	top, err := d.Draw()
	if err != nil {
		return nil, nil, err
	}

	stock := make([]deck.Card, d.CardsLeft())
	copy(stock, d.Cards)

	piles := &Piles{
		Stock:   stock,
		Discard: []deck.Card{top},
	}

	return hands, piles, nil
}
