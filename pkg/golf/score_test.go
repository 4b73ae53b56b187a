package golf

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sixcardgolf/pkg/deck"
)

func TestCardValue(t *testing.T) {
	a := assert.New(t)

	a.Equal(1, CardValue(deck.CardFromString("1c")))
	a.Equal(-2, CardValue(deck.CardFromString("2h")))
	a.Equal(3, CardValue(deck.CardFromString("3d")))
	a.Equal(10, CardValue(deck.CardFromString("10s")))
	a.Equal(10, CardValue(deck.CardFromString("11c")))
	a.Equal(10, CardValue(deck.CardFromString("12c")))
	a.Equal(0, CardValue(deck.CardFromString("13c")))
}

func TestScore(t *testing.T) {
	a := assert.New(t)

	// grid rows: 3c 5h 13d / 9c 10h 1d
	// no pairs: 3+5+0 + 9+10+1 = 28
	a.Equal(28, Score(mustHand(t, "3c,5h,13d,9c,10h,1d")))

	// middle column pairs (5h over 5s) and cancels: 3+0 + 9+1 = 13
	a.Equal(13, Score(mustHand(t, "3c,5h,13d,9c,5s,1d")))

	// twos count -2: 2c 4h 6d / 3c 4d 6s -> middle and right columns cancel
	a.Equal(-2+3, Score(mustHand(t, "2c,4h,6d,3c,4d,6s")))

	// all three columns paired scores zero
	a.Equal(0, Score(mustHand(t, "7c,8c,9c,7h,8h,9h")))
}

func TestScore_ignoresFaceStatus(t *testing.T) {
	// pair cancellation applies whether or not the cards are face-up
	hand := mustHand(t, "3c,5h,13d,9c,5s,1d")
	faceDown := Score(hand)

	hand.Reveal()
	assert.Equal(t, faceDown, Score(hand))
}

func TestScore_idempotent(t *testing.T) {
	hand := mustHand(t, "1c,2c,3c,4c,5c,6c")
	first := Score(hand)
	assert.Equal(t, first, Score(hand))
	assert.Equal(t, 1-2+3+4+5+6, first)
}
