package peer

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sixcardgolf/pkg/deck"
	"sixcardgolf/pkg/golf"
	"sixcardgolf/pkg/tracker"
	"sixcardgolf/pkg/wire"
)

func testTimeouts() Timeouts {
	return Timeouts{
		Directory:    2 * time.Second,
		Steal:        500 * time.Millisecond,
		Scores:       5 * time.Second,
		HoleOver:     5 * time.Second,
		DisplayPause: 50 * time.Millisecond,
	}
}

func newTestPeer(t *testing.T, username, trackerAddr string) *Peer {
	t.Helper()

	dirConn, err := wire.Listen(0)
	require.NoError(t, err)

	gameConn, err := wire.Listen(0)
	require.NoError(t, err)

	p := New(Options{
		Username:      username,
		TrackerAddr:   trackerAddr,
		DirectoryConn: dirConn,
		GameConn:      gameConn,
		Timeouts:      testTimeouts(),
	})
	p.Start()
	t.Cleanup(p.Close)

	return p
}

func newDirectory(t *testing.T) (*tracker.Tracker, string) {
	t.Helper()

	conn, err := wire.Listen(0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	tr := tracker.New()
	go tracker.NewServer(tr, conn).Serve()

	return tr, fmt.Sprintf("127.0.0.1:%d", conn.LocalPort())
}

// gameOf builds a game assignment for peers already listening on real
// sockets. The first peer is the dealer.
func gameOf(allowSteal bool, peers ...*Peer) wire.Game {
	players := make([]wire.Player, len(peers))
	for i, pl := range peers {
		players[i] = wire.Player{
			Username:      pl.username,
			Address:       "127.0.0.1",
			DirectoryPort: pl.dirConn.LocalPort(),
			GamePort:      pl.gameConn.LocalPort(),
			State:         wire.StateInPlay,
		}
	}

	return wire.Game{
		ID:         "test-game",
		Dealer:     players[0],
		Players:    players,
		Holes:      1,
		AllowSteal: allowSteal,
	}
}

func handOf(t *testing.T, cards string, faces ...bool) *golf.Hand {
	t.Helper()

	h, err := golf.HandFromWire(deck.CardsFromString(cards), faces)
	require.NoError(t, err)
	return h
}

// installSession plants game state directly, bypassing the assignment
// flow, so actions can be exercised in isolation
func installSession(p *Peer, game wire.Game, hand *golf.Hand, myTurn bool) *session {
	s := newSession(game, game.Dealer.Username == p.username)
	s.hole = 1
	s.hand = hand
	s.myTurn = myTurn

	p.mu.Lock()
	p.sess = s
	p.mu.Unlock()

	return s
}

func TestTurnActionValidation(t *testing.T) {
	a := assert.New(t)
	p := newTestPeer(t, "ana", "127.0.0.1:1")

	_, err := p.DrawStock()
	a.Equal(ErrNoGame, err)
	a.Equal(ErrNoGame, p.EndTurn())

	hand := handOf(t, "2c,3c,4c,5c,6c,7c", true, true, true, true, true, false)
	s := installSession(p, gameOf(false, p), hand, false)

	_, err = p.DrawStock()
	a.Equal(ErrNotYourTurn, err)

	p.mu.Lock()
	s.myTurn = true
	s.piles = golf.Piles{
		Stock:   deck.CardsFromString("9d,10d"),
		Discard: deck.CardsFromString("11d"),
	}
	p.mu.Unlock()

	_, err = p.SwapDrawn(golf.Position{Row: 1, Col: 2})
	a.Equal(ErrNoDrawnCard, err)
	a.Equal(ErrNoDrawnCard, p.DiscardDrawn())

	card, err := p.DrawStock()
	require.NoError(t, err)
	a.Equal(deck.CardFromString("10d"), card)

	_, err = p.DrawStock()
	a.Equal(ErrAlreadyActed, err)
	_, err = p.DrawDiscard()
	a.Equal(ErrAlreadyActed, err)

	// the drawn card must be resolved before the turn can end
	a.Equal(ErrCardDrawn, p.EndTurn())

	_, err = p.SwapDrawn(golf.Position{Row: 2, Col: 0})
	a.Equal(ErrBadPosition, err)

	replaced, err := p.SwapDrawn(golf.Position{Row: 1, Col: 2})
	require.NoError(t, err)
	a.Equal(deck.CardFromString("7c"), replaced)

	snap := p.Snapshot()
	a.False(snap.HasDrawn)
	a.True(snap.Hand.Faces[5])
	a.Equal(deck.CardFromString("10d"), snap.Hand.Cards[5])
	a.Equal(deck.CardFromString("7c"), snap.DiscardTop)

	require.NoError(t, p.EndTurn())

	// the swap completed the grid, so this player is done
	p.mu.Lock()
	a.True(s.done["ana"])
	a.False(s.myTurn)
	p.mu.Unlock()
}

func TestDiscardDrawn(t *testing.T) {
	a := assert.New(t)
	p := newTestPeer(t, "ana", "127.0.0.1:1")

	hand := handOf(t, "2c,3c,4c,5c,6c,7c", false, false, true, true, false, false)
	installSession(p, gameOf(false, p), hand, true)

	p.mu.Lock()
	p.sess.piles = golf.Piles{Stock: deck.CardsFromString("9d"), Discard: deck.CardsFromString("11d")}
	p.mu.Unlock()

	card, err := p.DrawDiscard()
	require.NoError(t, err)
	a.Equal(deck.CardFromString("11d"), card)

	require.NoError(t, p.DiscardDrawn())

	snap := p.Snapshot()
	a.False(snap.HasDrawn)
	a.Equal(deck.CardFromString("11d"), snap.DiscardTop)

	require.NoError(t, p.EndTurn())
	p.mu.Lock()
	a.Empty(p.sess.done)
	p.mu.Unlock()
}

func TestStealExchange(t *testing.T) {
	a := assert.New(t)
	ana := newTestPeer(t, "ana", "127.0.0.1:1")
	ben := newTestPeer(t, "ben", "127.0.0.1:1")
	game := gameOf(true, ana, ben)

	anaHand := handOf(t, "2c,3c,4c,5c,6c,7c", false, true, true, true, true, true)
	benHand := handOf(t, "13s,12s,11s,10s,9s,8s", true, true, false, false, false, false)

	anaSess := installSession(ana, game, anaHand, true)
	benSess := installSession(ben, game, benHand, false)

	ana.mu.Lock()
	mirror, err := golf.HandFromWire(benHand.Cards(), benHand.Faces())
	require.NoError(t, err)
	anaSess.mirrors["ben"] = mirror
	ana.mu.Unlock()

	stolen, ok, err := ana.Steal("ben", golf.Position{Row: 0, Col: 1}, golf.Position{Row: 0, Col: 0})
	require.NoError(t, err)
	require.True(t, ok)
	a.Equal(deck.CardFromString("12s"), stolen)

	// the stolen card landed face-up in the requester's grid
	snap := ana.Snapshot()
	a.Equal(deck.CardFromString("12s"), snap.Hand.Cards[0])
	a.True(snap.Hand.Faces[0])

	// the offered card landed face-down in the target's grid
	ben.mu.Lock()
	a.Equal(deck.CardFromString("2c"), benSess.hand.CardAt(golf.Position{Row: 0, Col: 1}))
	a.False(benSess.hand.FaceUpAt(golf.Position{Row: 0, Col: 1}))
	ben.mu.Unlock()

	// a second action in the same turn is rejected
	_, _, err = ana.Steal("ben", golf.Position{Row: 0, Col: 0}, golf.Position{Row: 0, Col: 0})
	a.Equal(ErrAlreadyActed, err)
}

func TestStealRefusedByTarget(t *testing.T) {
	a := assert.New(t)
	ana := newTestPeer(t, "ana", "127.0.0.1:1")
	ben := newTestPeer(t, "ben", "127.0.0.1:1")
	game := gameOf(true, ana, ben)

	anaHand := handOf(t, "2c,3c,4c,5c,6c,7c", false, true, true, true, true, true)
	benHand := handOf(t, "13s,12s,11s,10s,9s,8s", true, false, false, false, false, false)

	anaSess := installSession(ana, game, anaHand, true)
	installSession(ben, game, benHand, false)

	// the requester's mirror claims (0,1) is face-up, but the target's
	// authoritative grid says otherwise. The target's word is final.
	ana.mu.Lock()
	mirror, err := golf.HandFromWire(benHand.Cards(), []bool{true, true, false, false, false, false})
	require.NoError(t, err)
	anaSess.mirrors["ben"] = mirror
	ana.mu.Unlock()

	stolen, ok, err := ana.Steal("ben", golf.Position{Row: 0, Col: 1}, golf.Position{Row: 0, Col: 0})
	require.NoError(t, err)
	a.False(ok)
	a.True(stolen.IsZero())

	// nothing changed on either side
	snap := ana.Snapshot()
	a.Equal(deck.CardFromString("2c"), snap.Hand.Cards[0])
	a.False(snap.Hand.Faces[0])

	ben.mu.Lock()
	a.Equal(deck.CardFromString("12s"), ben.sess.hand.CardAt(golf.Position{Row: 0, Col: 1}))
	ben.mu.Unlock()
}

func TestStealTimesOut(t *testing.T) {
	a := assert.New(t)
	ana := newTestPeer(t, "ana", "127.0.0.1:1")
	ben := newTestPeer(t, "ben", "127.0.0.1:1")
	game := gameOf(true, ana, ben)

	// the target goes silent
	ben.Close()

	anaHand := handOf(t, "2c,3c,4c,5c,6c,7c", false, true, true, true, true, true)
	anaSess := installSession(ana, game, anaHand, true)

	ana.mu.Lock()
	mirror, err := golf.HandFromWire(deck.CardsFromString("13s,12s,11s,10s,9s,8s"), []bool{true, true, false, false, false, false})
	require.NoError(t, err)
	anaSess.mirrors["ben"] = mirror
	ana.mu.Unlock()

	_, ok, err := ana.Steal("ben", golf.Position{Row: 0, Col: 1}, golf.Position{Row: 0, Col: 0})
	require.NoError(t, err)
	a.False(ok)

	// the forfeited action still consumed the turn
	_, err = ana.DrawStock()
	a.Equal(ErrAlreadyActed, err)
	a.NoError(ana.EndTurn())
}

func TestStealValidation(t *testing.T) {
	a := assert.New(t)
	ana := newTestPeer(t, "ana", "127.0.0.1:1")
	ben := newTestPeer(t, "ben", "127.0.0.1:1")

	anaHand := handOf(t, "2c,3c,4c,5c,6c,7c", false, true, true, true, true, true)
	up := golf.Position{Row: 0, Col: 1}
	down := golf.Position{Row: 0, Col: 0}

	// stealing disabled for the game
	anaSess := installSession(ana, gameOf(false, ana, ben), anaHand, true)
	_, _, err := ana.Steal("ben", up, down)
	a.Equal(ErrStealNotAllowed, err)

	ana.mu.Lock()
	anaSess.game.AllowSteal = true
	anaSess.mirrors["ben"] = handOf(t, "13s,12s,11s,10s,9s,8s", true, true, false, false, false, false)
	ana.mu.Unlock()

	_, _, err = ana.Steal("ana", up, down)
	a.Equal(ErrBadStealTarget, err)

	_, _, err = ana.Steal("nobody", up, down)
	a.Equal(ErrBadStealTarget, err)

	// the offered position must be face-down
	_, _, err = ana.Steal("ben", up, up)
	a.Equal(ErrBadPosition, err)

	// the mirrored steal position must be face-up
	_, _, err = ana.Steal("ben", golf.Position{Row: 1, Col: 2}, down)
	a.Equal(ErrBadPosition, err)
}

func TestWaitHoleOver(t *testing.T) {
	a := assert.New(t)
	p := newTestPeer(t, "ana", "127.0.0.1:1")

	// no game in progress means there is nothing to wait for
	a.True(p.WaitHoleOver(10 * time.Millisecond))

	s := installSession(p, gameOf(false, p), nil, false)
	a.False(p.WaitHoleOver(30 * time.Millisecond))

	go func() {
		time.Sleep(20 * time.Millisecond)
		p.mu.Lock()
		s.finishHole()
		p.mu.Unlock()
	}()

	a.True(p.WaitHoleOver(2 * time.Second))
}

func TestLowestScore(t *testing.T) {
	a := assert.New(t)
	p := New(Options{Username: "x"})

	game := wire.Game{Players: []wire.Player{
		{Username: "x"}, {Username: "y"}, {Username: "z"},
	}}
	s := newSession(game, true)

	// ties break toward the earlier seat
	a.Equal("y", p.lowestScoreLocked(s, map[string]int{"x": 7, "y": 5, "z": 5}))
	a.Equal("x", p.lowestScoreLocked(s, map[string]int{"x": 5, "y": 5, "z": 5}))
	a.Equal("z", p.lowestScoreLocked(s, map[string]int{"x": 3, "y": 2, "z": -2}))

	// players with no recorded score are skipped
	a.Equal("y", p.lowestScoreLocked(s, map[string]int{"y": 9}))
	a.Equal("", p.lowestScoreLocked(s, map[string]int{}))
}

func TestDirectoryRegistration(t *testing.T) {
	a := assert.New(t)
	tr, addr := newDirectory(t)

	ana := newTestPeer(t, "ana", addr)
	ben := newTestPeer(t, "ben", addr)

	_, err := ana.Register()
	require.NoError(t, err)
	_, err = ben.Register()
	require.NoError(t, err)

	// duplicate registration is refused
	_, err = ana.Register()
	var dirErr *ErrDirectory
	require.ErrorAs(t, err, &dirErr)

	players, err := ana.QueryPlayers()
	require.NoError(t, err)
	a.Len(players, 2)

	games, err := ana.QueryGames()
	require.NoError(t, err)
	a.Empty(games)

	_, err = ben.DeRegister()
	require.NoError(t, err)
	a.Len(tr.Players(), 1)
}

func TestDirectoryUnreachable(t *testing.T) {
	p := newTestPeer(t, "ana", "127.0.0.1:1")
	p.timeouts.Directory = 100 * time.Millisecond

	_, err := p.Register()
	require.ErrorIs(t, err, wire.ErrNoReply)
}
