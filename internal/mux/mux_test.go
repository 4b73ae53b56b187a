package mux

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bmizerany/assert"
	"github.com/stretchr/testify/require"

	"sixcardgolf/pkg/tracker"
)

func assertGet(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int) {
	t.Helper()

	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck

	require.Equal(t, statusCode, resp.StatusCode)
	if respObj != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(respObj))
	}
}

func TestHealthHandler(t *testing.T) {
	ts := httptest.NewServer(NewMux("v1.2.3", tracker.New()))
	defer ts.Close()

	var expects healthResponse
	assertGet(t, ts, "/health", &expects, 200)
	assert.Equal(t, "OK", expects.Status)
	assert.Equal(t, "v1.2.3", expects.Version)
}

func TestRegistryHandlers(t *testing.T) {
	tr := tracker.New()
	ts := httptest.NewServer(NewMux("v0", tr))
	defer ts.Close()

	var players playersResponse
	assertGet(t, ts, "/players", &players, 200)
	assert.Equal(t, 0, players.Count)

	require.True(t, tr.Register("alice", "127.0.0.1", 6000, 6001).OK())
	require.True(t, tr.Register("bob", "127.0.0.1", 6002, 6003).OK())

	assertGet(t, ts, "/players", &players, 200)
	assert.Equal(t, 2, players.Count)
	assert.Equal(t, "alice", players.Players[0].Username)

	var games gamesResponse
	assertGet(t, ts, "/games", &games, 200)
	assert.Equal(t, 0, games.Count)

	_, resp := tr.StartGame("alice", 1, 2, false)
	require.True(t, resp.OK(), resp.Message)

	assertGet(t, ts, "/games", &games, 200)
	assert.Equal(t, 1, games.Count)
	assert.Equal(t, "alice", games.Games[0].Dealer.Username)

	// the status API is read-only
	postResp, err := http.Post(ts.URL+"/players", "application/json", nil)
	require.NoError(t, err)
	_ = postResp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, postResp.StatusCode)
}
