package mux

import (
	"net/http"

	"sixcardgolf/pkg/wire"
)

type playersResponse struct {
	Count   int           `json:"count"`
	Players []wire.Player `json:"players"`
}

func (m *Mux) getPlayers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players := m.tracker.Players()
		writeJSON(w, http.StatusOK, playersResponse{
			Count:   len(players),
			Players: players,
		})
	}
}

type gamesResponse struct {
	Count int         `json:"count"`
	Games []wire.Game `json:"games"`
}

func (m *Mux) getGames() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		games := m.tracker.Games()
		writeJSON(w, http.StatusOK, gamesResponse{
			Count: len(games),
			Games: games,
		})
	}
}
