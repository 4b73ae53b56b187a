package peer

import (
	"encoding/json"
	"errors"
	"fmt"

	"sixcardgolf/pkg/wire"
)

// ErrDirectory wraps a failure response from the directory service
type ErrDirectory struct {
	Message string
}

func (e *ErrDirectory) Error() string {
	return fmt.Sprintf("directory service refused the request: %s", e.Message)
}

// request performs one directory exchange and decodes the reply into v.
// v must embed or be a wire.Response; a failure status becomes an
// *ErrDirectory. ErrNoReply passes through untouched so callers can
// tell an unreachable tracker from a refusal.
func (p *Peer) request(cmd wire.Command, payload, v interface{}, status *wire.Response) error {
	raw, err := p.dirConn.Request(p.tracker, cmd, payload, p.timeouts.Directory)
	if err != nil {
		return err
	}

	if v != nil {
		if err := json.Unmarshal(raw, v); err != nil {
			return err
		}
	}

	if err := json.Unmarshal(raw, status); err != nil {
		return err
	}

	if !status.OK() {
		return &ErrDirectory{Message: status.Message}
	}

	return nil
}

// Register announces this peer to the directory service. The address is
// left for the tracker to take from the datagram's source.
func (p *Peer) Register() (string, error) {
	var status wire.Response
	err := p.request(wire.CmdRegister, wire.RegisterRequest{
		Player:        p.username,
		DirectoryPort: p.dirConn.LocalPort(),
		GamePort:      p.gameConn.LocalPort(),
	}, nil, &status)
	if err != nil {
		return "", err
	}

	p.log.Info("registered with the directory service")
	return status.Message, nil
}

// DeRegister removes this peer from the directory service
func (p *Peer) DeRegister() (string, error) {
	var status wire.Response
	err := p.request(wire.CmdDeRegister, wire.DeRegisterRequest{Player: p.username}, nil, &status)
	if err != nil {
		return "", err
	}

	p.log.Info("de-registered from the directory service")
	return status.Message, nil
}

// QueryPlayers lists every registered player
func (p *Peer) QueryPlayers() ([]wire.Player, error) {
	var resp wire.QueryPlayersResponse
	var status wire.Response
	if err := p.request(wire.CmdQueryPlayers, nil, &resp, &status); err != nil {
		return nil, err
	}

	return resp.Players, nil
}

// QueryGames lists every game in progress
func (p *Peer) QueryGames() ([]wire.Game, error) {
	var resp wire.QueryGamesResponse
	var status wire.Response
	if err := p.request(wire.CmdQueryGames, nil, &resp, &status); err != nil {
		return nil, err
	}

	return resp.Games, nil
}

// StartGame asks the directory service to assemble a game with this
// peer as the dealer plus n free opponents. The assignment itself
// arrives on the gameplay socket, so a successful response means the
// game is already being dealt.
func (p *Peer) StartGame(n, holes int, allowSteal bool) (wire.StartGameResponse, error) {
	var resp wire.StartGameResponse
	var status wire.Response
	err := p.request(wire.CmdStartGame, wire.StartGameRequest{
		Player:     p.username,
		N:          n,
		Holes:      holes,
		AllowSteal: allowSteal,
	}, &resp, &status)
	if err != nil {
		return wire.StartGameResponse{}, err
	}

	return resp, nil
}

// endGameAtTracker releases the game's players at the directory service
func (p *Peer) endGameAtTracker(gameID string) error {
	var status wire.Response
	err := p.request(wire.CmdEnd, wire.EndRequest{GameID: gameID, Player: p.username}, nil, &status)
	if errors.Is(err, wire.ErrNoReply) {
		return fmt.Errorf("directory service did not answer: %w", err)
	}

	return err
}
