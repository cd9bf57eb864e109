package protocol

// Client message types
const (
	TypeRegister   = "register"
	TypeLogin      = "login"
	TypeCreateGame = "create_game"
	TypeJoinGame   = "join_game"
	TypeGetGames   = "get_games"
	TypeMove       = "move"
	TypeChat       = "chat"
	TypeLeaveGame  = "leave_game"
)

// ClientMessage is a request sent from a client to the server.
// The set of implementations is closed; handle it with a type switch.
//
//sumtype:decl
type ClientMessage interface {
	Type() string
	isClientMessage()
}

// Register creates an account
type Register struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates the connection
type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateGame asks to be matched with the next waiting player
type CreateGame struct{}

// JoinGame joins a specific waiting player's game
type JoinGame struct {
	GameID string `json:"game_id"`
}

// GetGames lists games waiting for a second player
type GetGames struct{}

// Move places the sender's symbol. Position is required.
type Move struct {
	Position *int `json:"position"`
}

// Chat sends a message to both players of the sender's game
type Chat struct {
	Message string `json:"message"`
}

// LeaveGame abandons the sender's current game
type LeaveGame struct{}

func (Register) Type() string   { return TypeRegister }
func (Login) Type() string      { return TypeLogin }
func (CreateGame) Type() string { return TypeCreateGame }
func (JoinGame) Type() string   { return TypeJoinGame }
func (GetGames) Type() string   { return TypeGetGames }
func (Move) Type() string       { return TypeMove }
func (Chat) Type() string       { return TypeChat }
func (LeaveGame) Type() string  { return TypeLeaveGame }

func (Register) isClientMessage()   {}
func (Login) isClientMessage()      {}
func (CreateGame) isClientMessage() {}
func (JoinGame) isClientMessage()   {}
func (GetGames) isClientMessage()   {}
func (Move) isClientMessage()       {}
func (Chat) isClientMessage()       {}
func (LeaveGame) isClientMessage()  {}

// MoveTo builds a Move for the given cell
func MoveTo(position int) Move {
	return Move{Position: &position}
}
