package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDeck(t *testing.T) {
	deck := New()

	assert.Equal(t, 52, deck.CardsLeft())
	assert.Equal(t, Card{Rank: Ace, Suit: Clubs}, deck.Cards[0])
	assert.Equal(t, Card{Rank: King, Suit: Spades}, deck.Cards[51])
}

func TestDeck_Shuffle(t *testing.T) {
	a := assert.New(t)

	d1 := New()
	d1.Shuffle(42)

	d2 := New()
	d2.Shuffle(42)

	a.Equal(int64(42), d1.GetSeed())
	a.Equal(d1.Cards, d2.Cards)

	// every card is still accounted for after the shuffle
	seen := make(map[Card]bool)
	for _, c := range d1.Cards {
		seen[c] = true
	}
	a.Equal(52, len(seen))
}

func TestDeck_Draw(t *testing.T) {
	deck := New()

	if !deck.CanDraw(52) {
		t.Errorf("expected CanDraw(52) to be true")
	}

	if deck.CanDraw(53) {
		t.Errorf("expected CanDraw(53) to be false")
	}

	for i := 0; i < 52; i++ {
		card, err := deck.Draw()
		if card.IsZero() {
			t.Error("expected card, got zero value")
		}

		if err != nil {
			t.Errorf("expected err to be nil, got %v", err)
		}
	}

	card, err := deck.Draw()
	assert.True(t, card.IsZero())
	assert.Equal(t, ErrEndOfDeck, err)
}

func TestDeck_Restock(t *testing.T) {
	a := assert.New(t)

	d := New()
	d.Shuffle(1)

	discards := CardsFromString("2c,3c,4c,5c")
	d.Restock(discards)

	a.Equal(4, d.CardsLeft())

	seen := make(map[Card]bool)
	for _, c := range d.Cards {
		seen[c] = true
	}
	for _, c := range discards {
		a.True(seen[c])
	}

	// the source slice must not be mutated
	a.Equal(CardsFromString("2c,3c,4c,5c"), discards)
}
