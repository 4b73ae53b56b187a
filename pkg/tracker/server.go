package tracker

import (
	"github.com/sirupsen/logrus"

	"sixcardgolf/pkg/wire"
)

// Server answers directory requests over a UDP socket and pushes game
// assignments to the assigned players.
type Server struct {
	tracker *Tracker
	conn    *wire.Conn
}

// NewServer returns a server answering on the given conn
func NewServer(t *Tracker, conn *wire.Conn) *Server {
	return &Server{
		tracker: t,
		conn:    conn,
	}
}

// Serve blocks, answering directory requests until the conn is closed.
// Each exchange is a single request datagram and a single reply datagram.
func (s *Server) Serve() {
	s.conn.Serve(map[wire.Command]wire.Handler{
		wire.CmdRegister:     s.handleRegister,
		wire.CmdDeRegister:   s.handleDeRegister,
		wire.CmdQueryPlayers: s.handleQueryPlayers,
		wire.CmdQueryGames:   s.handleQueryGames,
		wire.CmdStartGame:    s.handleStartGame,
		wire.CmdEnd:          s.handleEnd,
	}, s.handleUnknown)
}

func (s *Server) reply(env *wire.Envelope, v interface{}) {
	if err := s.conn.Reply(env.Addr, v); err != nil {
		logrus.WithError(err).WithField("to", env.Addr.String()).Warn("could not send reply")
	}
}

func (s *Server) handleRegister(env *wire.Envelope) {
	var req wire.RegisterRequest
	if err := env.Decode(&req); err != nil {
		s.reply(env, failure("malformed register request"))
		return
	}

	address := req.Address
	if address == "" {
		// fall back to the address the datagram came from
		address = env.Addr.IP.String()
	}

	s.reply(env, s.tracker.Register(req.Player, address, req.DirectoryPort, req.GamePort))
}

func (s *Server) handleDeRegister(env *wire.Envelope) {
	var req wire.DeRegisterRequest
	if err := env.Decode(&req); err != nil {
		s.reply(env, failure("malformed de_register request"))
		return
	}

	s.reply(env, s.tracker.DeRegister(req.Player))
}

func (s *Server) handleQueryPlayers(env *wire.Envelope) {
	players := s.tracker.Players()
	s.reply(env, wire.QueryPlayersResponse{
		Response: success("%d players registered", len(players)),
		Count:    len(players),
		Players:  players,
	})
}

func (s *Server) handleQueryGames(env *wire.Envelope) {
	games := s.tracker.Games()
	s.reply(env, wire.QueryGamesResponse{
		Response: success("%d games in progress", len(games)),
		Count:    len(games),
		Games:    games,
	})
}

func (s *Server) handleStartGame(env *wire.Envelope) {
	var req wire.StartGameRequest
	if err := env.Decode(&req); err != nil {
		s.reply(env, failure("malformed start_game request"))
		return
	}

	game, resp := s.tracker.StartGame(req.Player, req.N, req.Holes, req.AllowSteal)
	if !resp.OK() {
		s.reply(env, resp)
		return
	}

	// tell every assigned player about the game before answering the dealer
	for _, p := range game.Players {
		if err := s.conn.Send(p.GameAddr(), wire.CmdAssignedGame, wire.AssignedGame{Game: game}); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"player": p.Username,
				"game":   game.ID,
			}).Warn("could not announce game assignment")
		}
	}

	s.reply(env, wire.StartGameResponse{
		Response: resp,
		GameID:   game.ID,
		Players:  game.Players,
		Holes:    game.Holes,
	})
}

func (s *Server) handleEnd(env *wire.Envelope) {
	var req wire.EndRequest
	if err := env.Decode(&req); err != nil {
		s.reply(env, failure("malformed end request"))
		return
	}

	s.reply(env, s.tracker.EndGame(req.GameID, req.Player))
}

func (s *Server) handleUnknown(env *wire.Envelope) {
	logrus.WithFields(logrus.Fields{
		"command": env.Command,
		"from":    env.Addr.String(),
	}).Warn("unknown directory command")

	s.reply(env, failure("unknown command"))
}
