package golf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sixcardgolf/pkg/deck"
)

func TestPiles_DrawStock(t *testing.T) {
	a := assert.New(t)

	p := &Piles{
		Stock:   deck.CardsFromString("2c,3c"),
		Discard: deck.CardsFromString("4c"),
	}

	card, err := p.DrawStock()
	a.NoError(err)
	a.Equal(deck.CardFromString("3c"), card)
	a.Len(p.Stock, 1)
}

func TestPiles_DrawStock_restocksFromDiscard(t *testing.T) {
	a := assert.New(t)

	p := &Piles{
		Stock:   nil,
		Discard: deck.CardsFromString("2c,3c,4c,5c"),
	}

	card, err := p.DrawStock()
	a.NoError(err)
	a.False(card.IsZero())

	// the old discard top stays on the discard pile; the rest became
	// stock, minus the card just drawn
	a.Equal(deck.CardsFromString("5c"), p.Discard)
	a.Equal(2, len(p.Stock))
	a.Equal(3, p.Count())
}

func TestPiles_DrawStock_empty(t *testing.T) {
	p := &Piles{Discard: deck.CardsFromString("2c")}

	_, err := p.DrawStock()
	assert.Equal(t, ErrNoCards, err)
}

func TestPiles_Discard(t *testing.T) {
	a := assert.New(t)

	p := &Piles{}
	_, ok := p.TopDiscard()
	a.False(ok)

	_, err := p.DrawDiscard()
	a.Equal(ErrNoCards, err)

	p.PushDiscard(deck.CardFromString("9h"))
	p.PushDiscard(deck.CardFromString("10h"))

	top, ok := p.TopDiscard()
	a.True(ok)
	a.Equal(deck.CardFromString("10h"), top)

	card, err := p.DrawDiscard()
	require.NoError(t, err)
	a.Equal(deck.CardFromString("10h"), card)
	a.Equal(deck.CardsFromString("9h"), p.Discard)
}
