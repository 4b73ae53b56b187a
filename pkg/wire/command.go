package wire

// Command names a message type. Every datagram carries exactly one command
// in its "command" key; the rest of the object is the command's payload.
type Command string

// directory (tracker) commands
const (
	CmdRegister     Command = "register"
	CmdDeRegister   Command = "de_register"
	CmdQueryPlayers Command = "query_players"
	CmdQueryGames   Command = "query_games"
	CmdStartGame    Command = "start_game"
	CmdEnd          Command = "end"
)

// gameplay commands
const (
	CmdAssignedGame      Command = "assigned_game"
	CmdSendAllHands      Command = "send_all_hands"
	CmdYourTurn          Command = "your_turn"
	CmdUpdatePiles       Command = "update_piles"
	CmdUpdateHand        Command = "update_hand"
	CmdUpdatePlayerState Command = "update_player_state"
	CmdTurnOver          Command = "turn_over"
	CmdPlayerDone        Command = "player_done"
	CmdSendScore         Command = "send_score"
	CmdScoreResponse     Command = "score_response"
	CmdEndHole           Command = "end_hole"
	CmdEndGame           Command = "end_game"
	CmdStealRequest      Command = "steal_request"
	CmdStealResponse     Command = "steal_response"
)

// response status values
const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
)
