package golf

import (
	"errors"

	"sixcardgolf/pkg/deck"
)

// ErrNoCards is returned when a draw is attempted and no cards are available
var ErrNoCards = errors.New("no cards left to draw")

// Piles holds the stock pile and the discard pile. Both are ordered
// stacks; the last element is the top.
type Piles struct {
	Stock   []deck.Card `json:"stock_pile"`
	Discard []deck.Card `json:"discard_pile"`
}

// DrawStock pops the top card off the stock pile. When the stock runs
// out, the discard pile minus its top card is reshuffled into a fresh
// stock first. ErrNoCards is returned when there is nothing left at all.
func (p *Piles) DrawStock() (deck.Card, error) {
	if len(p.Stock) == 0 {
		if len(p.Discard) <= 1 {
			return deck.Card{}, ErrNoCards
		}

		d := deck.New()
		d.Restock(p.Discard[:len(p.Discard)-1])
		p.Stock = d.Cards
		p.Discard = []deck.Card{p.Discard[len(p.Discard)-1]}
	}

	card := p.Stock[len(p.Stock)-1]
	p.Stock = p.Stock[:len(p.Stock)-1]
	return card, nil
}

// DrawDiscard pops the top card off the discard pile
func (p *Piles) DrawDiscard() (deck.Card, error) {
	if len(p.Discard) == 0 {
		return deck.Card{}, ErrNoCards
	}

	card := p.Discard[len(p.Discard)-1]
	p.Discard = p.Discard[:len(p.Discard)-1]
	return card, nil
}

// PushDiscard places a card on top of the discard pile
func (p *Piles) PushDiscard(card deck.Card) {
	p.Discard = append(p.Discard, card)
}

// TopDiscard returns the top discard card without removing it
func (p *Piles) TopDiscard() (deck.Card, bool) {
	if len(p.Discard) == 0 {
		return deck.Card{}, false
	}

	return p.Discard[len(p.Discard)-1], true
}

// Count returns the total number of cards across both piles
func (p *Piles) Count() int {
	return len(p.Stock) + len(p.Discard)
}
