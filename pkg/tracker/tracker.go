package tracker

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"sixcardgolf/pkg/wire"
)

// limits on a game request
const (
	MinOpponents = 1
	MaxOpponents = 3
	MinHoles     = 1
	MaxHoles     = 9
)

// Tracker is the directory service registry. It owns the authoritative
// list of registered players and the table of games in progress. All
// mutation happens under one mutex.
type Tracker struct {
	mu      sync.Mutex
	players []*wire.Player
	games   []*wire.Game
}

// New returns an empty tracker
func New() *Tracker {
	return &Tracker{}
}

func failure(format string, a ...interface{}) wire.Response {
	return wire.Response{Status: wire.StatusFailure, Message: fmt.Sprintf(format, a...)}
}

func success(format string, a ...interface{}) wire.Response {
	return wire.Response{Status: wire.StatusSuccess, Message: fmt.Sprintf(format, a...)}
}

// Register adds a player to the registry. Usernames are unique keys;
// a duplicate registration is refused.
func (t *Tracker) Register(username, address string, directoryPort, gamePort int) wire.Response {
	t.mu.Lock()
	defer t.mu.Unlock()

	if username == "" {
		return failure("username cannot be empty")
	}

	for _, p := range t.players {
		if p.Username == username {
			return failure("duplicate username")
		}
	}

	t.players = append(t.players, &wire.Player{
		Username:      username,
		Address:       address,
		DirectoryPort: directoryPort,
		GamePort:      gamePort,
		State:         wire.StateFree,
	})

	logrus.WithFields(logrus.Fields{
		"player":  username,
		"address": address,
	}).Info("registered player")

	return success("registered successfully")
}

// DeRegister removes a player. Players in a game cannot deregister.
func (t *Tracker) DeRegister(username string) wire.Response {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, p := range t.players {
		if p.Username != username {
			continue
		}

		if p.State == wire.StateInPlay {
			return failure("player is in an ongoing game")
		}

		t.players = append(t.players[:i], t.players[i+1:]...)
		logrus.WithField("player", username).Info("deregistered player")
		return success("deregistered successfully")
	}

	return failure("player not found")
}

// Players returns a snapshot of all registered players
func (t *Tracker) Players() []wire.Player {
	t.mu.Lock()
	defer t.mu.Unlock()

	players := make([]wire.Player, len(t.players))
	for i, p := range t.players {
		players[i] = *p
	}

	return players
}

// Games returns a snapshot of all games in progress
func (t *Tracker) Games() []wire.Game {
	t.mu.Lock()
	defer t.mu.Unlock()

	games := make([]wire.Game, len(t.games))
	for i, g := range t.games {
		games[i] = *g
	}

	return games
}

// StartGame assembles a game for the named dealer plus n free opponents,
// marks every participant in-play, and returns the game for the caller
// to announce. The dealer is always first in the participant order.
func (t *Tracker) StartGame(dealerName string, n, holes int, allowSteal bool) (wire.Game, wire.Response) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n < MinOpponents || n > MaxOpponents {
		return wire.Game{}, failure("number of players must be between %d and %d", MinOpponents, MaxOpponents)
	}

	if holes < MinHoles || holes > MaxHoles {
		return wire.Game{}, failure("number of holes must be between %d and %d", MinHoles, MaxHoles)
	}

	var dealer *wire.Player
	for _, p := range t.players {
		if p.Username == dealerName {
			dealer = p
			break
		}
	}

	if dealer == nil || dealer.State != wire.StateFree {
		return wire.Game{}, failure("dealer not registered or already in a game")
	}

	var available []*wire.Player
	for _, p := range t.players {
		if p.State == wire.StateFree && p.Username != dealerName {
			available = append(available, p)
		}
	}

	if len(available) < n {
		return wire.Game{}, failure("not enough available players")
	}

	assigned := append([]*wire.Player{dealer}, available[:n]...)
	for _, p := range assigned {
		p.State = wire.StateInPlay
	}

	players := make([]wire.Player, len(assigned))
	for i, p := range assigned {
		players[i] = *p
	}

	game := &wire.Game{
		ID:         uuid.New().String(),
		Dealer:     players[0],
		Players:    players,
		Holes:      holes,
		AllowSteal: allowSteal,
	}
	t.games = append(t.games, game)

	logrus.WithFields(logrus.Fields{
		"game":   game.ID,
		"dealer": dealerName,
		"holes":  holes,
	}).Info("started game")

	return *game, success("game started and players notified")
}

// EndGame removes a game and frees its participants. Only the game's
// dealer may end it.
func (t *Tracker) EndGame(gameID, dealerName string) wire.Response {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, g := range t.games {
		if g.ID != gameID || g.Dealer.Username != dealerName {
			continue
		}

		for _, assigned := range g.Players {
			for _, p := range t.players {
				if p.Username == assigned.Username {
					p.State = wire.StateFree
				}
			}
		}

		t.games = append(t.games[:i], t.games[i+1:]...)
		logrus.WithField("game", gameID).Info("ended game")
		return success("game ended successfully")
	}

	return failure("game not found or dealer mismatch")
}
