package protocol

// Server message types
const (
	TypeRegisterResponse = "register_response"
	TypeLoginResponse    = "login_response"
	TypeWaiting          = "waiting"
	TypeGameStart        = "game_start"
	TypeGamesList        = "games_list"
	TypeGameUpdate       = "game_update"
	TypeGameOver         = "game_over"
	TypeInvalidMove      = "invalid_move"
	TypeChatBroadcast    = "chat"
	TypeOpponentLeft     = "opponent_left"
	TypeError            = "error"
)

// ServerMessage is a notification sent from the server to a client.
//
//sumtype:decl
type ServerMessage interface {
	Type() string
	isServerMessage()
}

// RegisterResponse answers a Register request
type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoginResponse answers a Login request
type LoginResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Username string `json:"username,omitempty"`
}

// Waiting tells a client it is queued for a match
type Waiting struct {
	Message string `json:"message"`
}

// GameStart is sent to each player when a game begins.
// YourSymbol and Opponent differ per recipient.
type GameStart struct {
	GameID      string   `json:"game_id"`
	Player1     string   `json:"player1"`
	Player2     string   `json:"player2"`
	Board       []string `json:"board"`
	CurrentTurn string   `json:"current_turn"`
	YourSymbol  string   `json:"your_symbol"`
	Opponent    string   `json:"opponent"`
}

// GameListing is one entry of GamesList
type GameListing struct {
	GameID  string `json:"game_id"`
	Player1 string `json:"player1"`
	Status  string `json:"status"`
}

// GamesList answers a GetGames request
type GamesList struct {
	Games []GameListing `json:"games"`
}

// GameUpdate is broadcast to both players after an accepted move
type GameUpdate struct {
	Board       []string `json:"board"`
	CurrentTurn string   `json:"current_turn"`
	Position    int      `json:"position"`
	Player      string   `json:"player"`
}

// GameOver is broadcast after the move that ends a game
type GameOver struct {
	Winner       string `json:"winner,omitempty"`
	Draw         bool   `json:"draw,omitempty"`
	WinningCombo []int  `json:"winning_combo,omitempty"`
}

// InvalidMove rejects a move, sent to the mover only
type InvalidMove struct {
	Message string `json:"message"`
}

// ChatBroadcast relays a chat message to both players
type ChatBroadcast struct {
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// OpponentLeft tells the remaining player their game is gone
type OpponentLeft struct {
	Message string `json:"message"`
}

// Error reports a protocol or request error to the sender
type Error struct {
	Message string `json:"message"`
}

func (RegisterResponse) Type() string { return TypeRegisterResponse }
func (LoginResponse) Type() string    { return TypeLoginResponse }
func (Waiting) Type() string          { return TypeWaiting }
func (GameStart) Type() string        { return TypeGameStart }
func (GamesList) Type() string        { return TypeGamesList }
func (GameUpdate) Type() string       { return TypeGameUpdate }
func (GameOver) Type() string         { return TypeGameOver }
func (InvalidMove) Type() string      { return TypeInvalidMove }
func (ChatBroadcast) Type() string    { return TypeChatBroadcast }
func (OpponentLeft) Type() string     { return TypeOpponentLeft }
func (Error) Type() string            { return TypeError }

func (RegisterResponse) isServerMessage() {}
func (LoginResponse) isServerMessage()    {}
func (Waiting) isServerMessage()          {}
func (GameStart) isServerMessage()        {}
func (GamesList) isServerMessage()        {}
func (GameUpdate) isServerMessage()       {}
func (GameOver) isServerMessage()         {}
func (InvalidMove) isServerMessage()      {}
func (ChatBroadcast) isServerMessage()    {}
func (OpponentLeft) isServerMessage()     {}
func (Error) isServerMessage()            {}
