package golf

import (
	"errors"
	"fmt"

	"sixcardgolf/pkg/deck"
)

// grid dimensions. A hand is always a 2x3 grid of six cards.
const (
	Rows     = 2
	Cols     = 3
	HandSize = Rows * Cols
)

// ErrBadHandSize is returned when building a hand from the wrong number of cards
var ErrBadHandSize = errors.New("a hand requires exactly six cards")

// Position addresses a cell in the hand grid
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Valid returns true if the position is inside the 2x3 grid
func (p Position) Valid() bool {
	return p.Row >= 0 && p.Row < Rows && p.Col >= 0 && p.Col < Cols
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

func (p Position) index() int {
	return p.Row*Cols + p.Col
}

// Hand is one player's 2x3 card grid plus the face-up flag per position.
// A hand always holds exactly six cards.
type Hand struct {
	cards [HandSize]deck.Card
	faces [HandSize]bool
}

// NewHand builds a hand from six cards, all face-down
func NewHand(cards []deck.Card) (*Hand, error) {
	if len(cards) != HandSize {
		return nil, ErrBadHandSize
	}

	h := &Hand{}
	copy(h.cards[:], cards)
	return h, nil
}

// HandFromWire rebuilds a hand from its flat wire representation
func HandFromWire(cards []deck.Card, faces []bool) (*Hand, error) {
	if len(cards) != HandSize || len(faces) != HandSize {
		return nil, ErrBadHandSize
	}

	h := &Hand{}
	copy(h.cards[:], cards)
	copy(h.faces[:], faces)
	return h, nil
}

// Cards returns the hand's cards as a flat slice in row-major order
func (h *Hand) Cards() []deck.Card {
	cards := make([]deck.Card, HandSize)
	copy(cards, h.cards[:])
	return cards
}

// Faces returns the face-up flags as a flat slice in row-major order
func (h *Hand) Faces() []bool {
	faces := make([]bool, HandSize)
	copy(faces, h.faces[:])
	return faces
}

// CardAt returns the card at the position
func (h *Hand) CardAt(p Position) deck.Card {
	return h.cards[p.index()]
}

// FaceUpAt returns true if the position is face-up
func (h *Hand) FaceUpAt(p Position) bool {
	return h.faces[p.index()]
}

// SetCard places a card at the position with the given visibility
func (h *Hand) SetCard(p Position, card deck.Card, faceUp bool) {
	h.cards[p.index()] = card
	h.faces[p.index()] = faceUp
}

// Flip turns the position face-up
func (h *Hand) Flip(p Position) {
	h.faces[p.index()] = true
}

// Reveal turns every position face-up
func (h *Hand) Reveal() {
	for i := range h.faces {
		h.faces[i] = true
	}
}

// AllFaceUp returns true once every position is face-up
func (h *Hand) AllFaceUp() bool {
	for _, up := range h.faces {
		if !up {
			return false
		}
	}

	return true
}

// FaceUpPositions returns the positions currently face-up, row-major
func (h *Hand) FaceUpPositions() []Position {
	return h.positions(true)
}

// FaceDownPositions returns the positions currently face-down, row-major
func (h *Hand) FaceDownPositions() []Position {
	return h.positions(false)
}

func (h *Hand) positions(up bool) []Position {
	var positions []Position
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			p := Position{Row: row, Col: col}
			if h.faces[p.index()] == up {
				positions = append(positions, p)
			}
		}
	}

	return positions
}
