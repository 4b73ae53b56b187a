package peer

import (
	"errors"
	"time"

	"sixcardgolf/pkg/deck"
	"sixcardgolf/pkg/golf"
	"sixcardgolf/pkg/wire"
)

// turn action errors
var (
	ErrNoGame          = errors.New("not in a game")
	ErrNoHand          = errors.New("no hand has been dealt")
	ErrNotYourTurn     = errors.New("it is not your turn")
	ErrAlreadyActed    = errors.New("you already acted this turn")
	ErrCardDrawn       = errors.New("you are holding a drawn card")
	ErrNoDrawnCard     = errors.New("you have no drawn card")
	ErrBadPosition     = errors.New("position is not playable")
	ErrStealNotAllowed = errors.New("stealing is disabled for this game")
	ErrBadStealTarget  = errors.New("cannot steal from that player")
)

// DrawStock draws the top stock card. The card stays in hand until
// SwapDrawn or DiscardDrawn resolves it.
func (p *Peer) DrawStock() (deck.Card, error) {
	return p.draw(func(piles *golf.Piles) (deck.Card, error) {
		return piles.DrawStock()
	})
}

// DrawDiscard draws the top discard card
func (p *Peer) DrawDiscard() (deck.Card, error) {
	return p.draw(func(piles *golf.Piles) (deck.Card, error) {
		return piles.DrawDiscard()
	})
}

func (p *Peer) draw(take func(*golf.Piles) (deck.Card, error)) (deck.Card, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.sess
	switch {
	case s == nil:
		return deck.Card{}, ErrNoGame
	case !s.myTurn:
		return deck.Card{}, ErrNotYourTurn
	case s.acted:
		return deck.Card{}, ErrAlreadyActed
	}

	card, err := take(&s.piles)
	if err != nil {
		return deck.Card{}, err
	}

	s.drawn = card
	s.acted = true
	return card, nil
}

// SwapDrawn places the drawn card face-up at the position and sends the
// replaced card to the discard pile. The updated hand is broadcast to
// every peer.
func (p *Peer) SwapDrawn(pos golf.Position) (deck.Card, error) {
	if !pos.Valid() {
		return deck.Card{}, ErrBadPosition
	}

	p.mu.Lock()
	s := p.sess
	switch {
	case s == nil:
		p.mu.Unlock()
		return deck.Card{}, ErrNoGame
	case s.hand == nil:
		// a turn grant can outrun the deal; never touch a missing grid
		p.mu.Unlock()
		return deck.Card{}, ErrNoHand
	case !s.myTurn:
		p.mu.Unlock()
		return deck.Card{}, ErrNotYourTurn
	case s.drawn.IsZero():
		p.mu.Unlock()
		return deck.Card{}, ErrNoDrawnCard
	}

	replaced := s.hand.CardAt(pos)
	s.hand.SetCard(pos, s.drawn, true)
	s.piles.PushDiscard(replaced)
	s.drawn = deck.Card{}
	update := p.handUpdateLocked(s)
	p.mu.Unlock()

	p.broadcast(wire.CmdUpdateHand, update)
	return replaced, nil
}

// DiscardDrawn sends the drawn card straight to the discard pile
func (p *Peer) DiscardDrawn() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.sess
	switch {
	case s == nil:
		return ErrNoGame
	case !s.myTurn:
		return ErrNotYourTurn
	case s.drawn.IsZero():
		return ErrNoDrawnCard
	}

	s.piles.PushDiscard(s.drawn)
	s.drawn = deck.Card{}
	return nil
}

// EndTurn closes the turn: the piles are broadcast so every peer sees
// the result of the draw, a fully face-up grid is announced, and the
// turn-complete signal is raised. A drawn card must be resolved first.
func (p *Peer) EndTurn() error {
	p.mu.Lock()
	s := p.sess
	switch {
	case s == nil:
		p.mu.Unlock()
		return ErrNoGame
	case !s.myTurn:
		p.mu.Unlock()
		return ErrNotYourTurn
	case !s.drawn.IsZero():
		p.mu.Unlock()
		return ErrCardDrawn
	}

	s.myTurn = false
	s.acted = false

	isDealer := s.isDealer
	done := s.hand != nil && s.hand.AllFaceUp()
	if done {
		s.done[p.username] = true
	}

	piles := wire.UpdatePiles{Stock: s.piles.Stock, Discard: s.piles.Discard}
	dealerAddr := s.game.Dealer.GameAddr()
	p.mu.Unlock()

	p.broadcast(wire.CmdUpdatePiles, piles)

	if isDealer {
		p.signalTurnDone()
		return nil
	}

	if done {
		if err := p.gameConn.Send(dealerAddr, wire.CmdPlayerDone, wire.PlayerDone{Player: p.username}); err != nil {
			p.log.WithError(err).Warn("could not announce done hand")
		}
	}

	return p.gameConn.Send(dealerAddr, wire.CmdTurnOver, wire.TurnOver{
		Player:  p.username,
		Stock:   piles.Stock,
		Discard: piles.Discard,
	})
}

// WaitHoleOver blocks until the current hole's results arrive or the
// timeout elapses. Returns false on timeout.
func (p *Peer) WaitHoleOver(timeout time.Duration) bool {
	p.mu.Lock()
	s := p.sess
	if s == nil {
		p.mu.Unlock()
		return true
	}
	holeOver := s.holeOver
	p.mu.Unlock()

	select {
	case <-holeOver:
		return true
	case <-p.closed:
		return true
	case <-time.After(timeout):
		return false
	}
}

// handUpdateLocked builds the update_hand broadcast for the local hand.
// Callers must hold the peer mutex.
func (p *Peer) handUpdateLocked(s *session) wire.UpdateHand {
	return wire.UpdateHand{
		Player:   p.username,
		Hand:     s.hand.Cards(),
		Statuses: s.hand.Faces(),
	}
}

// broadcast fires a datagram at every other player in the game
func (p *Peer) broadcast(cmd wire.Command, payload interface{}) {
	p.mu.Lock()
	s := p.sess
	if s == nil {
		p.mu.Unlock()
		return
	}
	players := make([]wire.Player, len(s.game.Players))
	copy(players, s.game.Players)
	p.mu.Unlock()

	for _, pl := range players {
		if pl.Username == p.username {
			continue
		}

		if err := p.gameConn.Send(pl.GameAddr(), cmd, payload); err != nil {
			p.log.WithError(err).WithField("to", pl.Username).Warn("could not send broadcast")
		}
	}
}
