package peer

import (
	"sixcardgolf/pkg/deck"
	"sixcardgolf/pkg/golf"
	"sixcardgolf/pkg/wire"
)

// session is the per-game state. The peer owns exactly one session at a
// time, guarded by the peer mutex. The local hand is authoritative for
// this player; every other hand is a mirror of the last broadcast and
// carries no authority.
type session struct {
	game     wire.Game
	isDealer bool
	hole     int

	hand    *golf.Hand
	drawn   deck.Card
	mirrors map[string]*golf.Hand
	piles   golf.Piles

	turnIndex int
	myTurn    bool
	acted     bool

	// done holds every player known to have a fully face-up grid. A
	// non-empty set ends the hole after the current turn resolves.
	done map[string]bool

	holeOver   chan struct{}
	scores     map[string]int
	holeScores map[string]int
	received   map[string]bool
	holeWinner string
}

func newSession(game wire.Game, isDealer bool) *session {
	return &session{
		game:     game,
		isDealer: isDealer,
		mirrors:  make(map[string]*golf.Hand),
		done:     make(map[string]bool),
		holeOver: make(chan struct{}),
		scores:   make(map[string]int),
	}
}

// resetForHole clears the per-hole state ahead of a new deal
func (s *session) resetForHole(hole int) {
	s.hole = hole
	s.drawn = deck.Card{}
	s.turnIndex = 0
	s.myTurn = false
	s.acted = false
	s.done = make(map[string]bool)
	s.holeOver = make(chan struct{})
	s.holeScores = make(map[string]int)
	s.received = make(map[string]bool)
	s.holeWinner = ""
}

// finishHole closes the hole-over channel exactly once
func (s *session) finishHole() {
	select {
	case <-s.holeOver:
	default:
		close(s.holeOver)
	}
}

func (s *session) currentPlayer() wire.Player {
	return s.game.Players[s.turnIndex]
}

func (s *session) player(username string) (wire.Player, bool) {
	for _, pl := range s.game.Players {
		if pl.Username == username {
			return pl, true
		}
	}

	return wire.Player{}, false
}

func (s *session) usernames() []string {
	names := make([]string, len(s.game.Players))
	for i, pl := range s.game.Players {
		names[i] = pl.Username
	}

	return names
}

// EventType distinguishes display notifications
type EventType int

// event types delivered on the Events channel
const (
	EventGameAssigned EventType = iota
	EventHandsDealt
	EventStateUpdated
	EventHoleEnded
	EventGameEnded
)

// Event is a display notification for the front end
type Event struct {
	Type    EventType
	Message string
}

// PlayerView is a read-only copy of one player's grid
type PlayerView struct {
	Username string
	Cards    []deck.Card
	Faces    []bool
}

// Snapshot is a point-in-time copy of everything the front end renders
type Snapshot struct {
	InGame        bool
	GameID        string
	Dealer        string
	Players       []string
	Hole          int
	Holes         int
	AllowSteal    bool
	CurrentPlayer string
	MyTurn        bool
	Drawn         deck.Card
	HasDrawn      bool
	Hand          PlayerView
	Others        []PlayerView
	DiscardTop    deck.Card
	HasDiscardTop bool
	StockCount    int
	Scores        map[string]int
	HoleScores    map[string]int
	HoleWinner    string
}

// Snapshot returns a copy of the current session state for display.
// The zero Snapshot with InGame false means the peer is in the lobby.
func (p *Peer) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.sess
	if s == nil {
		return Snapshot{}
	}

	snap := Snapshot{
		InGame:        true,
		GameID:        s.game.ID,
		Dealer:        s.game.Dealer.Username,
		Players:       s.usernames(),
		Hole:          s.hole,
		Holes:         s.game.Holes,
		AllowSteal:    s.game.AllowSteal,
		CurrentPlayer: s.currentPlayer().Username,
		MyTurn:        s.myTurn,
		Drawn:         s.drawn,
		HasDrawn:      !s.drawn.IsZero(),
		StockCount:    len(s.piles.Stock),
		Scores:        copyScores(s.scores),
		HoleScores:    copyScores(s.holeScores),
		HoleWinner:    s.holeWinner,
	}

	if top, ok := s.piles.TopDiscard(); ok {
		snap.DiscardTop = top
		snap.HasDiscardTop = true
	}

	if s.hand != nil {
		snap.Hand = PlayerView{Username: p.username, Cards: s.hand.Cards(), Faces: s.hand.Faces()}
	}

	for _, name := range s.usernames() {
		if name == p.username {
			continue
		}

		view := PlayerView{Username: name}
		if mirror, ok := s.mirrors[name]; ok {
			view.Cards = mirror.Cards()
			view.Faces = mirror.Faces()
		}

		snap.Others = append(snap.Others, view)
	}

	return snap
}

func copyScores(scores map[string]int) map[string]int {
	if scores == nil {
		return nil
	}

	cp := make(map[string]int, len(scores))
	for k, v := range scores {
		cp[k] = v
	}

	return cp
}
