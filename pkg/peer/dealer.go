package peer

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"sixcardgolf/pkg/deck"
	"sixcardgolf/pkg/golf"
	"sixcardgolf/pkg/wire"
)

// how often the dealer re-checks the score tally while waiting
const scorePollInterval = 50 * time.Millisecond

// runDealer is the dealer coordinator. It owns the game's lifecycle:
// deal a hole, run the turn loop, consolidate scores, repeat, then
// declare the overall winner and release the players at the directory.
// Exactly one instance runs per game, started on assignment.
func (p *Peer) runDealer() {
	p.mu.Lock()
	s := p.sess
	if s == nil {
		p.mu.Unlock()
		return
	}
	holes := s.game.Holes
	gameID := s.game.ID
	p.mu.Unlock()

	log := p.log.WithField("game", gameID)
	log.WithField("holes", holes).Info("dealing game")

	for hole := 1; hole <= holes; hole++ {
		if !p.setupHole(hole) {
			return
		}

		if !p.runTurnLoop() {
			return
		}

		p.scoreHole()

		if hole < holes {
			// leave the results on everyone's screen before dealing again
			select {
			case <-time.After(p.timeouts.DisplayPause):
			case <-p.closed:
				return
			}
		}
	}

	p.declareWinner(gameID)
}

// setupHole shuffles a fresh deck, deals every player six cards, and
// pushes the full deal to every participant. Returns false if the game
// disappeared out from under the coordinator.
func (p *Peer) setupHole(hole int) bool {
	d := deck.New()
	d.Shuffle(0)

	p.mu.Lock()
	s := p.sess
	if s == nil {
		p.mu.Unlock()
		return false
	}

	s.resetForHole(hole)
	players := s.usernames()
	p.mu.Unlock()

	hands, piles, err := golf.Deal(d, players)
	if err != nil {
		p.log.WithError(err).Error("could not deal the hole")
		return false
	}

	msg := wire.SendAllHands{
		Hands:    make(map[string][]deck.Card, len(hands)),
		Statuses: make(map[string][]bool, len(hands)),
	}
	for player, hand := range hands {
		msg.Hands[player] = hand.Cards()
		msg.Statuses[player] = hand.Faces()
	}

	p.mu.Lock()
	s = p.sess
	if s == nil {
		p.mu.Unlock()
		return false
	}

	s.hand = hands[p.username]
	for player, hand := range hands {
		if player != p.username {
			s.mirrors[player] = hand
		}
	}
	s.piles = *piles
	msg.Dealer = s.game.Dealer
	pilesMsg := wire.UpdatePiles{Stock: s.piles.Stock, Discard: s.piles.Discard}
	state := wire.UpdatePlayerState{Index: 0, Players: s.game.Players}
	p.mu.Unlock()

	p.broadcast(wire.CmdSendAllHands, msg)
	p.broadcast(wire.CmdUpdatePiles, pilesMsg)
	p.broadcast(wire.CmdUpdatePlayerState, state)

	p.log.WithField("hole", hole).Info("hole dealt")
	p.emit(EventHandsDealt, fmt.Sprintf("hole %d dealt", hole))
	return true
}

// runTurnLoop grants turns in seating order until a turn resolves with
// at least one fully face-up grid. The loop blocks on the turn-complete
// signal with no per-turn timeout: a turn takes as long as the player
// takes. Returns false if the session is gone.
func (p *Peer) runTurnLoop() bool {
	for {
		p.mu.Lock()
		s := p.sess
		if s == nil {
			p.mu.Unlock()
			return false
		}

		if len(s.done) > 0 {
			p.mu.Unlock()
			return true
		}

		current := s.currentPlayer()
		isLocal := current.Username == p.username
		var info TurnInfo
		var turn wire.YourTurn
		if isLocal {
			s.myTurn = true
			s.acted = false
			info = TurnInfo{Hole: s.hole, Index: s.turnIndex}
		} else {
			turn = wire.YourTurn{
				Stock:   s.piles.Stock,
				Discard: s.piles.Discard,
				Index:   s.turnIndex,
			}
		}
		p.mu.Unlock()

		if isLocal {
			select {
			case p.turnStart <- info:
			default:
			}
		} else {
			if err := p.gameConn.Send(current.GameAddr(), wire.CmdYourTurn, turn); err != nil {
				p.log.WithError(err).WithField("player", current.Username).Warn("could not grant turn")
			}
		}

		select {
		case <-p.turnDone:
		case <-p.closed:
			return false
		}

		p.mu.Lock()
		s = p.sess
		if s == nil {
			p.mu.Unlock()
			return false
		}

		if len(s.done) > 0 {
			p.mu.Unlock()
			return true
		}

		s.turnIndex = (s.turnIndex + 1) % len(s.game.Players)
		state := wire.UpdatePlayerState{Index: s.turnIndex, Players: s.game.Players}
		p.mu.Unlock()

		p.broadcast(wire.CmdUpdatePlayerState, state)
	}
}

// scoreHole collects every participant's hole score, waiting at most
// the scores timeout. A player who never answers is logged and omitted
// from the hole; the game moves on without them.
func (p *Peer) scoreHole() {
	p.mu.Lock()
	s := p.sess
	if s == nil {
		p.mu.Unlock()
		return
	}

	s.holeScores[p.username] = golf.Score(s.hand)
	s.received[p.username] = true
	expect := len(s.game.Players)
	p.mu.Unlock()

	p.broadcast(wire.CmdSendScore, nil)

	deadline := time.Now().Add(p.timeouts.Scores)
	for {
		p.mu.Lock()
		got := len(s.received)
		p.mu.Unlock()

		if got >= expect || time.Now().After(deadline) {
			break
		}

		select {
		case <-time.After(scorePollInterval):
		case <-p.closed:
			return
		}
	}

	p.mu.Lock()
	for _, name := range s.usernames() {
		if !s.received[name] {
			p.log.WithField("player", name).Warn("no score received before the deadline; omitting from the hole")
		}
	}

	for name, score := range s.holeScores {
		s.scores[name] += score
	}

	s.holeWinner = p.lowestScoreLocked(s, s.holeScores)
	s.hand.Reveal()
	s.myTurn = false

	result := wire.EndHole{
		Scores:     copyScores(s.scores),
		HoleScores: copyScores(s.holeScores),
		HoleWinner: s.holeWinner,
	}
	s.finishHole()
	p.mu.Unlock()

	p.broadcast(wire.CmdEndHole, result)

	p.log.WithFields(logrus.Fields{
		"winner": result.HoleWinner,
		"scores": result.HoleScores,
	}).Info("hole complete")
	p.emit(EventHoleEnded, fmt.Sprintf("hole won by %s (%s)", result.HoleWinner, formatScores(result.HoleScores)))
}

// declareWinner broadcasts the final standings and tells the directory
// service the game is over so it releases the players.
func (p *Peer) declareWinner(gameID string) {
	p.mu.Lock()
	s := p.sess
	if s == nil {
		p.mu.Unlock()
		return
	}

	result := wire.EndGame{
		Scores: copyScores(s.scores),
		Winner: p.lowestScoreLocked(s, s.scores),
	}
	s.finishHole()
	p.sess = nil
	p.mu.Unlock()

	for _, pl := range s.game.Players {
		if pl.Username == p.username {
			continue
		}

		if err := p.gameConn.Send(pl.GameAddr(), wire.CmdEndGame, result); err != nil {
			p.log.WithError(err).WithField("to", pl.Username).Warn("could not send final standings")
		}
	}

	if err := p.endGameAtTracker(gameID); err != nil {
		p.log.WithError(err).Warn("could not release the game at the directory service")
	}

	p.log.WithFields(logrus.Fields{
		"winner": result.Winner,
		"scores": result.Scores,
	}).Info("game complete")
	p.emit(EventGameEnded, fmt.Sprintf("game over, won by %s (%s)", result.Winner, formatScores(result.Scores)))
}

// lowestScoreLocked picks the winner: the lowest score, ties broken by
// seating order. Players with no recorded score are skipped. Callers
// must hold the peer mutex.
func (p *Peer) lowestScoreLocked(s *session, scores map[string]int) string {
	winner := ""
	best := 0
	for _, name := range s.usernames() {
		score, ok := scores[name]
		if !ok {
			continue
		}

		if winner == "" || score < best {
			winner = name
			best = score
		}
	}

	return winner
}
