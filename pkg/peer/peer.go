package peer

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"sixcardgolf/pkg/wire"
)

// Timeouts bounds every blocking wait in the protocol. Each wait
// degrades gracefully past its timeout instead of stalling the game.
type Timeouts struct {
	// Directory bounds a tracker request/response exchange
	Directory time.Duration
	// Steal bounds the wait for a steal_response
	Steal time.Duration
	// Scores bounds the dealer's wait for hole score replies
	Scores time.Duration
	// HoleOver bounds a participant's wait for the end_hole signal
	HoleOver time.Duration
	// DisplayPause is how long the dealer lets results sit on screen
	// between holes
	DisplayPause time.Duration
}

// DefaultTimeouts returns the standard protocol timeouts
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Directory:    5 * time.Second,
		Steal:        10 * time.Second,
		Scores:       30 * time.Second,
		HoleOver:     30 * time.Second,
		DisplayPause: 10 * time.Second,
	}
}

// Options configures a peer
type Options struct {
	// Username is the peer's unique name in the directory
	Username string
	// TrackerAddr is the host:port of the directory service
	TrackerAddr string
	// DirectoryConn is the request/response socket for tracker exchanges
	DirectoryConn *wire.Conn
	// GameConn is the gameplay socket every peer message arrives on
	GameConn *wire.Conn
	// Timeouts may be zero, in which case DefaultTimeouts apply
	Timeouts Timeouts
}

// Peer is one player process: a reactive participant agent that also
// runs the dealer coordinator when the directory assigns it the dealer
// role. All session state lives behind one mutex; handlers release it
// before any network send.
type Peer struct {
	username string
	tracker  string
	dirConn  *wire.Conn
	gameConn *wire.Conn
	timeouts Timeouts

	mu   sync.Mutex
	sess *session

	// turnDone carries the per-turn synchronization signal the dealer
	// coordinator blocks on: one signal per completed turn
	turnDone chan struct{}
	// turnStart wakes the front end when it is this player's turn
	turnStart chan TurnInfo
	// stealResponses delivers the reply to an in-flight steal request
	stealResponses chan wire.StealResponse
	events         chan Event
	closed         chan struct{}

	log *logrus.Entry
}

// TurnInfo tells the front end it may take a turn
type TurnInfo struct {
	Hole  int
	Index int
}

// New returns a peer ready to Start
func New(opts Options) *Peer {
	timeouts := opts.Timeouts
	if timeouts == (Timeouts{}) {
		timeouts = DefaultTimeouts()
	}

	return &Peer{
		username:       opts.Username,
		tracker:        opts.TrackerAddr,
		dirConn:        opts.DirectoryConn,
		gameConn:       opts.GameConn,
		timeouts:       timeouts,
		turnDone:       make(chan struct{}, 1),
		turnStart:      make(chan TurnInfo, 1),
		stealResponses: make(chan wire.StealResponse, 1),
		events:         make(chan Event, 32),
		closed:         make(chan struct{}),
		log:            logrus.WithField("player", opts.Username),
	}
}

// Username returns the peer's username
func (p *Peer) Username() string {
	return p.username
}

// Start launches the gameplay listener. It returns immediately.
func (p *Peer) Start() {
	go p.gameConn.Serve(p.handlers(), nil)
}

// Close tears down both sockets and unblocks any coordinator waits
func (p *Peer) Close() {
	select {
	case <-p.closed:
		return
	default:
	}

	close(p.closed)
	_ = p.gameConn.Close()
	_ = p.dirConn.Close()
}

// Turns delivers one TurnInfo each time this player becomes the active
// player. The front end takes its turn and must finish with EndTurn.
func (p *Peer) Turns() <-chan TurnInfo {
	return p.turnStart
}

// Events delivers display notifications. Events are dropped rather
// than blocking the protocol when the consumer falls behind.
func (p *Peer) Events() <-chan Event {
	return p.events
}

// signalTurnDone raises the per-turn synchronization signal. The
// channel holds one slot; a duplicate signal for the same turn is
// dropped, which keeps stray turn_over datagrams harmless.
func (p *Peer) signalTurnDone() {
	select {
	case p.turnDone <- struct{}{}:
	default:
	}
}

func (p *Peer) emit(eventType EventType, message string) {
	select {
	case p.events <- Event{Type: eventType, Message: message}:
	default:
	}
}
