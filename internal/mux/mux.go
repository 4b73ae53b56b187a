package mux

import (
	"net/http"

	gmux "github.com/gorilla/mux"

	"sixcardgolf/pkg/tracker"
)

// Mux handles HTTP requests for the tracker's read-only status API
type Mux struct {
	*gmux.Router
	version string
	tracker *tracker.Tracker
}

// NewMux returns a new HTTP mux exposing the tracker registry
func NewMux(version string, t *tracker.Tracker) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		tracker: t,
	}

	r := this.Router
	r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	r.Methods(http.MethodGet).Path("/players").Handler(this.getPlayers())
	r.Methods(http.MethodGet).Path("/games").Handler(this.getGames())

	return this
}
