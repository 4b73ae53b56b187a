package peer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"sixcardgolf/pkg/golf"
	"sixcardgolf/pkg/wire"
)

// handlers returns the gameplay dispatch table. Every inbound datagram
// resolves through this table; there is no other receive path.
func (p *Peer) handlers() map[wire.Command]wire.Handler {
	return map[wire.Command]wire.Handler{
		wire.CmdAssignedGame:      p.handleAssignedGame,
		wire.CmdSendAllHands:      p.handleSendAllHands,
		wire.CmdYourTurn:          p.handleYourTurn,
		wire.CmdUpdatePiles:       p.handleUpdatePiles,
		wire.CmdUpdateHand:        p.handleUpdateHand,
		wire.CmdUpdatePlayerState: p.handleUpdatePlayerState,
		wire.CmdTurnOver:          p.handleTurnOver,
		wire.CmdPlayerDone:        p.handlePlayerDone,
		wire.CmdSendScore:         p.handleSendScore,
		wire.CmdScoreResponse:     p.handleScoreResponse,
		wire.CmdEndHole:           p.handleEndHole,
		wire.CmdEndGame:           p.handleEndGame,
		wire.CmdStealRequest:      p.handleStealRequest,
		wire.CmdStealResponse:     p.handleStealResponse,
	}
}

func (p *Peer) handleAssignedGame(env *wire.Envelope) {
	var msg wire.AssignedGame
	if err := env.Decode(&msg); err != nil {
		p.log.WithError(err).Warn("malformed assigned_game")
		return
	}

	isDealer := msg.Dealer.Username == p.username

	p.mu.Lock()
	if p.sess != nil {
		p.mu.Unlock()
		p.log.WithField("game", msg.ID).Warn("already in a game; dropping assignment")
		return
	}
	p.sess = newSession(msg.Game, isDealer)
	p.mu.Unlock()

	p.log.WithFields(logrus.Fields{
		"game":   msg.ID,
		"dealer": msg.Dealer.Username,
		"holes":  msg.Holes,
	}).Info("assigned to game")
	p.emit(EventGameAssigned, fmt.Sprintf("assigned to game %s (dealer %s)", msg.ID, msg.Dealer.Username))

	if isDealer {
		go p.runDealer()
	}
}

func (p *Peer) handleSendAllHands(env *wire.Envelope) {
	var msg wire.SendAllHands
	if err := env.Decode(&msg); err != nil {
		p.log.WithError(err).Warn("malformed send_all_hands")
		return
	}

	p.mu.Lock()
	s := p.sess
	if s == nil {
		p.mu.Unlock()
		return
	}

	s.resetForHole(s.hole + 1)
	for player, cards := range msg.Hands {
		hand, err := golf.HandFromWire(cards, msg.Statuses[player])
		if err != nil {
			p.log.WithError(err).WithField("player", player).Warn("bad hand in send_all_hands")
			continue
		}

		if player == p.username {
			s.hand = hand
		} else {
			s.mirrors[player] = hand
		}
	}
	hole := s.hole
	p.mu.Unlock()

	p.emit(EventHandsDealt, fmt.Sprintf("hole %d dealt", hole))
}

func (p *Peer) handleYourTurn(env *wire.Envelope) {
	var msg wire.YourTurn
	if err := env.Decode(&msg); err != nil {
		p.log.WithError(err).Warn("malformed your_turn")
		return
	}

	p.mu.Lock()
	s := p.sess
	if s == nil {
		p.mu.Unlock()
		return
	}

	if msg.Index < 0 || msg.Index >= len(s.game.Players) {
		p.mu.Unlock()
		p.log.WithField("index", msg.Index).Warn("dropping your_turn with a bad player index")
		return
	}

	s.piles = golf.Piles{Stock: msg.Stock, Discard: msg.Discard}
	s.turnIndex = msg.Index
	s.myTurn = true
	s.acted = false
	info := TurnInfo{Hole: s.hole, Index: msg.Index}
	p.mu.Unlock()

	select {
	case p.turnStart <- info:
	default:
	}
}

func (p *Peer) handleUpdatePiles(env *wire.Envelope) {
	var msg wire.UpdatePiles
	if err := env.Decode(&msg); err != nil {
		p.log.WithError(err).Warn("malformed update_piles")
		return
	}

	p.mu.Lock()
	if s := p.sess; s != nil {
		s.piles = golf.Piles{Stock: msg.Stock, Discard: msg.Discard}
	}
	p.mu.Unlock()

	p.emit(EventStateUpdated, "piles updated")
}

func (p *Peer) handleUpdateHand(env *wire.Envelope) {
	var msg wire.UpdateHand
	if err := env.Decode(&msg); err != nil {
		p.log.WithError(err).Warn("malformed update_hand")
		return
	}

	if msg.Player == p.username {
		// the local hand is authoritative; never overwrite it from a mirror
		return
	}

	hand, err := golf.HandFromWire(msg.Hand, msg.Statuses)
	if err != nil {
		p.log.WithError(err).WithField("player", msg.Player).Warn("bad hand in update_hand")
		return
	}

	p.mu.Lock()
	if s := p.sess; s != nil {
		s.mirrors[msg.Player] = hand
	}
	p.mu.Unlock()

	p.emit(EventStateUpdated, fmt.Sprintf("%s updated their hand", msg.Player))
}

func (p *Peer) handleUpdatePlayerState(env *wire.Envelope) {
	var msg wire.UpdatePlayerState
	if err := env.Decode(&msg); err != nil {
		p.log.WithError(err).Warn("malformed update_player_state")
		return
	}

	p.mu.Lock()
	if s := p.sess; s != nil && msg.Index >= 0 && msg.Index < len(s.game.Players) {
		s.turnIndex = msg.Index
	}
	p.mu.Unlock()

	p.emit(EventStateUpdated, "turn advanced")
}

// handleTurnOver is dealer-only: a participant finished a turn. The
// signal only counts when it names the player whose turn it is.
func (p *Peer) handleTurnOver(env *wire.Envelope) {
	var msg wire.TurnOver
	if err := env.Decode(&msg); err != nil {
		p.log.WithError(err).Warn("malformed turn_over")
		return
	}

	p.mu.Lock()
	s := p.sess
	if s == nil || !s.isDealer {
		p.mu.Unlock()
		return
	}

	current := s.currentPlayer().Username
	if msg.Player != current {
		p.mu.Unlock()
		p.log.WithFields(logrus.Fields{
			"from":    msg.Player,
			"current": current,
		}).Warn("turn_over from a player who is not up; ignoring")
		return
	}

	// the finishing player's pile state rides along, so the next turn
	// is granted from fresh piles even if the update_piles broadcast
	// arrives late
	if msg.Stock != nil || msg.Discard != nil {
		s.piles = golf.Piles{Stock: msg.Stock, Discard: msg.Discard}
	}
	p.mu.Unlock()

	p.signalTurnDone()
}

func (p *Peer) handlePlayerDone(env *wire.Envelope) {
	var msg wire.PlayerDone
	if err := env.Decode(&msg); err != nil {
		p.log.WithError(err).Warn("malformed player_done")
		return
	}

	p.mu.Lock()
	if s := p.sess; s != nil && s.isDealer {
		s.done[msg.Player] = true
	}
	p.mu.Unlock()

	p.emit(EventStateUpdated, fmt.Sprintf("%s is done", msg.Player))
}

// handleSendScore answers the dealer's score request with this player's
// own hole score, computed from the authoritative local hand.
func (p *Peer) handleSendScore(env *wire.Envelope) {
	p.mu.Lock()
	s := p.sess
	if s == nil || s.hand == nil {
		p.mu.Unlock()
		return
	}

	score := golf.Score(s.hand)
	p.mu.Unlock()

	err := p.gameConn.SendTo(env.Addr, wire.CmdScoreResponse, wire.ScoreResponse{
		Player: p.username,
		Score:  score,
	})
	if err != nil {
		p.log.WithError(err).Warn("could not send score")
	}
}

func (p *Peer) handleScoreResponse(env *wire.Envelope) {
	var msg wire.ScoreResponse
	if err := env.Decode(&msg); err != nil {
		p.log.WithError(err).Warn("malformed score_response")
		return
	}

	p.mu.Lock()
	if s := p.sess; s != nil && s.isDealer && !s.received[msg.Player] {
		s.holeScores[msg.Player] = msg.Score
		s.received[msg.Player] = true
	}
	p.mu.Unlock()
}

func (p *Peer) handleEndHole(env *wire.Envelope) {
	var msg wire.EndHole
	if err := env.Decode(&msg); err != nil {
		p.log.WithError(err).Warn("malformed end_hole")
		return
	}

	p.mu.Lock()
	s := p.sess
	if s == nil {
		p.mu.Unlock()
		return
	}

	s.scores = msg.Scores
	s.holeScores = msg.HoleScores
	s.holeWinner = msg.HoleWinner
	s.myTurn = false
	if s.hand != nil {
		s.hand.Reveal()
	}
	s.finishHole()
	p.mu.Unlock()

	p.emit(EventHoleEnded, fmt.Sprintf("hole won by %s (%s)", msg.HoleWinner, formatScores(msg.HoleScores)))
}

func (p *Peer) handleEndGame(env *wire.Envelope) {
	var msg wire.EndGame
	if err := env.Decode(&msg); err != nil {
		p.log.WithError(err).Warn("malformed end_game")
		return
	}

	p.mu.Lock()
	s := p.sess
	if s == nil {
		p.mu.Unlock()
		return
	}

	s.finishHole()
	p.sess = nil
	p.mu.Unlock()

	p.log.WithField("winner", msg.Winner).Info("game over")
	p.emit(EventGameEnded, fmt.Sprintf("game over, won by %s (%s)", msg.Winner, formatScores(msg.Scores)))
}

// formatScores renders a score map in a stable order for display
func formatScores(scores map[string]int) string {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %d", name, scores[name])
	}

	return strings.Join(parts, ", ")
}
