package ipc

// These constants must stay in sync with the bridge's message types.
const (
	TypeHello         = "hello"
	TypeAck           = "ack"
	TypeGameState     = "game_state"
	TypeCommandResult = "command_result"
)

type HelloMessage struct {
	Player string `json:"player"`
	Race   string `json:"race"`
	Map    string `json:"map,omitempty"`
}

type AckMessage struct {
	Status string `json:"status"`
}

// CommandResult is the bridge's synchronous reply to a command. Error holds
// the engine's error code when OK is false.
type CommandResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}
