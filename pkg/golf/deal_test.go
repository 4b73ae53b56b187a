package golf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sixcardgolf/pkg/deck"
)

func TestDeal(t *testing.T) {
	a := assert.New(t)

	d := deck.New()
	d.Shuffle(7)

	players := []string{"alice", "bob", "carol"}
	hands, piles, err := Deal(d, players)
	require.NoError(t, err)

	// 52 - 3*6 - 1 flipped to the discard
	a.Equal(33, len(piles.Stock))
	a.Equal(1, len(piles.Discard))

	// every hand starts with exactly two face-up positions
	for _, player := range players {
		hand := hands[player]
		require.NotNil(t, hand)
		a.Len(hand.FaceUpPositions(), 2)
	}

	assertConservation(t, hands, piles)
}

func TestDeal_notEnoughCards(t *testing.T) {
	d := deck.New()
	for i := 0; i < 48; i++ {
		_, _ = d.Draw()
	}

	_, _, err := Deal(d, []string{"alice"})
	assert.Error(t, err)
}

// assertConservation checks that the piles plus all hands hold each of
// the 52 cards exactly once.
func assertConservation(t *testing.T, hands map[string]*Hand, piles *Piles) {
	t.Helper()

	seen := make(map[deck.Card]int)
	for _, c := range piles.Stock {
		seen[c]++
	}
	for _, c := range piles.Discard {
		seen[c]++
	}
	for _, hand := range hands {
		for _, c := range hand.Cards() {
			seen[c]++
		}
	}

	require.Equal(t, 52, len(seen))
	for card, n := range seen {
		require.Equal(t, 1, n, "card %s seen %d times", card, n)
	}
}
