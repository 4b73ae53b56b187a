package peer

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"sixcardgolf/pkg/deck"
	"sixcardgolf/pkg/golf"
	"sixcardgolf/pkg/wire"
)

// Steal offers one of this player's face-down cards to another
// participant in exchange for one of that participant's face-up cards.
// The target owns its grid, so the exchange is a request/response: the
// target validates against its authoritative hand and replies with the
// stolen card or with a no-card refusal.
//
// The stolen card lands face-up at offerPos; the offered card lands
// face-down in the target's grid at stealPos. A refusal or a reply that
// never arrives forfeits the action: ok is false and nothing changes.
// The turn still has to be closed with EndTurn either way.
func (p *Peer) Steal(target string, stealPos, offerPos golf.Position) (card deck.Card, ok bool, err error) {
	if !stealPos.Valid() || !offerPos.Valid() {
		return deck.Card{}, false, ErrBadPosition
	}

	p.mu.Lock()
	s := p.sess
	switch {
	case s == nil:
		err = ErrNoGame
	case s.hand == nil:
		err = ErrNoHand
	case !s.myTurn:
		err = ErrNotYourTurn
	case !s.game.AllowSteal:
		err = ErrStealNotAllowed
	case !s.drawn.IsZero():
		err = ErrCardDrawn
	case s.acted:
		err = ErrAlreadyActed
	case target == p.username:
		err = ErrBadStealTarget
	case s.hand.FaceUpAt(offerPos):
		err = ErrBadPosition
	}
	if err != nil {
		p.mu.Unlock()
		return deck.Card{}, false, err
	}

	targetInfo, found := s.player(target)
	if !found {
		p.mu.Unlock()
		return deck.Card{}, false, ErrBadStealTarget
	}

	mirror, found := s.mirrors[target]
	if !found || !mirror.FaceUpAt(stealPos) {
		p.mu.Unlock()
		return deck.Card{}, false, ErrBadPosition
	}

	offer := s.hand.CardAt(offerPos)
	s.acted = true
	p.mu.Unlock()

	// drop any stale reply from an earlier forfeited attempt
	select {
	case <-p.stealResponses:
	default:
	}

	req := wire.StealRequest{
		From:          p.username,
		StealPosition: wire.Position{Row: stealPos.Row, Col: stealPos.Col},
		OfferCard:     offer,
		OfferPosition: wire.Position{Row: offerPos.Row, Col: offerPos.Col},
	}
	if err := p.gameConn.Send(targetInfo.GameAddr(), wire.CmdStealRequest, req); err != nil {
		return deck.Card{}, false, err
	}

	var resp wire.StealResponse
	select {
	case resp = <-p.stealResponses:
	case <-time.After(p.timeouts.Steal):
		p.log.WithField("target", target).Warn("steal timed out; forfeiting the action")
		return deck.Card{}, false, nil
	case <-p.closed:
		return deck.Card{}, false, ErrNoGame
	}

	if !resp.HasCard {
		p.log.WithField("target", target).Info("steal refused; forfeiting the action")
		return deck.Card{}, false, nil
	}

	p.mu.Lock()
	s = p.sess
	if s == nil {
		p.mu.Unlock()
		return deck.Card{}, false, ErrNoGame
	}

	s.hand.SetCard(offerPos, resp.Card, true)
	if mirror, found := s.mirrors[target]; found {
		mirror.SetCard(stealPos, offer, false)
	}
	update := p.handUpdateLocked(s)
	p.mu.Unlock()

	p.broadcast(wire.CmdUpdateHand, update)
	p.log.WithFields(logrus.Fields{
		"target": target,
		"card":   resp.Card.String(),
	}).Info("steal succeeded")

	return resp.Card, true, nil
}

// handleStealRequest validates a steal against this player's
// authoritative grid and answers with the card or a refusal.
func (p *Peer) handleStealRequest(env *wire.Envelope) {
	var msg wire.StealRequest
	if err := env.Decode(&msg); err != nil {
		p.log.WithError(err).Warn("malformed steal_request")
		return
	}

	stealPos := golf.Position{Row: msg.StealPosition.Row, Col: msg.StealPosition.Col}
	offerPos := golf.Position{Row: msg.OfferPosition.Row, Col: msg.OfferPosition.Col}

	p.mu.Lock()
	s := p.sess

	refuse := s == nil || s.hand == nil || !s.game.AllowSteal ||
		!stealPos.Valid() || !offerPos.Valid() || !s.hand.FaceUpAt(stealPos)

	resp := wire.StealResponse{From: p.username}
	var update wire.UpdateHand
	if !refuse {
		resp.HasCard = true
		resp.Card = s.hand.CardAt(stealPos)
		s.hand.SetCard(stealPos, msg.OfferCard, false)
		update = p.handUpdateLocked(s)
	}
	p.mu.Unlock()

	if err := p.gameConn.SendTo(env.Addr, wire.CmdStealResponse, resp); err != nil {
		p.log.WithError(err).Warn("could not answer steal_request")
		return
	}

	if refuse {
		p.log.WithField("from", msg.From).Info("refused a steal")
		return
	}

	p.broadcast(wire.CmdUpdateHand, update)
	p.emit(EventStateUpdated, fmt.Sprintf("%s stole %s from position %s", msg.From, resp.Card, stealPos))
}

func (p *Peer) handleStealResponse(env *wire.Envelope) {
	var msg wire.StealResponse
	if err := env.Decode(&msg); err != nil {
		p.log.WithError(err).Warn("malformed steal_response")
		return
	}

	select {
	case p.stealResponses <- msg:
	default:
		p.log.WithField("from", msg.From).Warn("dropping steal_response with no steal in flight")
	}
}
