package wire

import (
	"fmt"

	"sixcardgolf/pkg/deck"
)

// player states tracked by the directory service
const (
	StateFree   = "free"
	StateInPlay = "in-play"
)

// Player identifies a registered peer. The directory service owns the
// authoritative copy; peers embed read-only copies in game messages.
type Player struct {
	Username      string `json:"username"`
	Address       string `json:"address"`
	DirectoryPort int    `json:"directory_port"`
	GamePort      int    `json:"game_port"`
	State         string `json:"state"`
}

// GameAddr returns the host:port string for the player's gameplay socket
func (p Player) GameAddr() string {
	return fmt.Sprintf("%s:%d", p.Address, p.GamePort)
}

// Game describes an assigned game. Immutable for the game's lifetime.
type Game struct {
	ID         string   `json:"id"`
	Dealer     Player   `json:"dealer"`
	Players    []Player `json:"players"`
	Holes      int      `json:"holes"`
	AllowSteal bool     `json:"allow_steal"`
}

// Position addresses a cell in the 2x3 hand grid
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Response is the generic directory service reply
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// OK returns true if the response carries a success status
func (r Response) OK() bool {
	return r.Status == StatusSuccess
}

// directory service payloads

// RegisterRequest registers a player with the directory service
type RegisterRequest struct {
	Player        string `json:"player"`
	Address       string `json:"address"`
	DirectoryPort int    `json:"directory_port"`
	GamePort      int    `json:"game_port"`
}

// DeRegisterRequest removes a player from the directory service
type DeRegisterRequest struct {
	Player string `json:"player"`
}

// QueryPlayersResponse lists all registered players
type QueryPlayersResponse struct {
	Response
	Count   int      `json:"count"`
	Players []Player `json:"players"`
}

// QueryGamesResponse lists all games in progress
type QueryGamesResponse struct {
	Response
	Count int    `json:"count"`
	Games []Game `json:"games"`
}

// StartGameRequest asks the directory service to assemble a game
type StartGameRequest struct {
	Player     string `json:"player"`
	N          int    `json:"n"`
	Holes      int    `json:"holes"`
	AllowSteal bool   `json:"allow_steal"`
}

// StartGameResponse reports the assembled game
type StartGameResponse struct {
	Response
	GameID  string   `json:"game_id"`
	Players []Player `json:"players"`
	Holes   int      `json:"holes"`
}

// EndRequest tells the directory service a game is over
type EndRequest struct {
	GameID string `json:"game_id"`
	Player string `json:"player"`
}

// gameplay payloads

// AssignedGame is pushed by the directory service to every assigned player
type AssignedGame struct {
	Game
}

// SendAllHands carries the full authoritative deal: every player's hand,
// every player's face status, and the dealer identity.
type SendAllHands struct {
	Hands    map[string][]deck.Card `json:"hands"`
	Statuses map[string][]bool      `json:"card_statuses"`
	Dealer   Player                 `json:"dealer_info"`
}

// YourTurn tells the active player to take a turn. Carries the current
// piles so the player acts on fresh state.
type YourTurn struct {
	Stock   []deck.Card `json:"stock_pile"`
	Discard []deck.Card `json:"discard_pile"`
	Index   int         `json:"current_player_index"`
}

// UpdatePiles refreshes the mirrored piles on every peer
type UpdatePiles struct {
	Stock   []deck.Card `json:"stock_pile"`
	Discard []deck.Card `json:"discard_pile"`
}

// UpdateHand refreshes one player's mirrored hand on every peer
type UpdateHand struct {
	Player   string      `json:"player"`
	Hand     []deck.Card `json:"hand"`
	Statuses []bool      `json:"card_statuses"`
}

// UpdatePlayerState mirrors the dealer's turn index and participant list.
// Display only; participants never act on it.
type UpdatePlayerState struct {
	Index   int      `json:"current_player_index"`
	Players []Player `json:"players"`
}

// TurnOver signals the dealer that the active player finished a turn.
// It carries the finisher's pile state so the dealer grants the next
// turn from fresh piles even when the update_piles broadcast trails it.
type TurnOver struct {
	Player  string      `json:"player"`
	Stock   []deck.Card `json:"stock_pile"`
	Discard []deck.Card `json:"discard_pile"`
}

// PlayerDone tells the dealer a player's grid is fully face-up
type PlayerDone struct {
	Player string `json:"player"`
}

// ScoreResponse carries a player's score for the current hole
type ScoreResponse struct {
	Player string `json:"player"`
	Score  int    `json:"score"`
}

// EndHole carries the consolidated results of a hole
type EndHole struct {
	Scores     map[string]int `json:"scores"`
	HoleScores map[string]int `json:"hole_scores"`
	HoleWinner string         `json:"hole_winner"`
}

// EndGame carries the final scores and the overall winner
type EndGame struct {
	Scores map[string]int `json:"scores"`
	Winner string         `json:"winner"`
}

// StealRequest asks another participant for one of its face-up cards in
// exchange for one of the requester's face-down cards.
type StealRequest struct {
	From          string    `json:"from_player"`
	StealPosition Position  `json:"steal_position"`
	OfferCard     deck.Card `json:"exchange_card"`
	OfferPosition Position  `json:"exchange_position"`
}

// StealResponse answers a StealRequest. HasCard is false when the target
// had nothing available; the requester forfeits the action.
type StealResponse struct {
	From    string    `json:"from_player"`
	HasCard bool      `json:"has_card"`
	Card    deck.Card `json:"card"`
}
