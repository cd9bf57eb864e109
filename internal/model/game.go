package model

import "time"

// GameID uniquely identifies a game session
type GameID string

// GameState represents the current phase of a game
type GameState string

const (
	GameStateInProgress GameState = "in_progress"
	GameStateWon        GameState = "won"
	GameStateDraw       GameState = "draw"
)

// Game is one two-player match. Player1 plays X and moves first.
type Game struct {
	ID GameID

	Player1     Username
	Player2     Username
	Player1Conn ConnID
	Player2Conn ConnID

	Board       Board
	CurrentTurn Username
	State       GameState

	// Set once State is GameStateWon
	Winner       Username
	WinningCombo []int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true once the game is won or drawn
func (g *Game) IsTerminal() bool {
	return g.State == GameStateWon || g.State == GameStateDraw
}

// HasPlayer returns true if the user plays in this game
func (g *Game) HasPlayer(user Username) bool {
	return user == g.Player1 || user == g.Player2
}

// SymbolFor returns the symbol the user places, or SymbolEmpty for non-players
func (g *Game) SymbolFor(user Username) Symbol {
	switch user {
	case g.Player1:
		return SymbolX
	case g.Player2:
		return SymbolO
	default:
		return SymbolEmpty
	}
}

// PlayerFor returns the user playing the given symbol
func (g *Game) PlayerFor(symbol Symbol) Username {
	if symbol == SymbolX {
		return g.Player1
	}
	return g.Player2
}

// Opponent returns the other player
func (g *Game) Opponent(user Username) Username {
	if user == g.Player1 {
		return g.Player2
	}
	return g.Player1
}

// ConnFor returns the connection the user joined this game on
func (g *Game) ConnFor(user Username) ConnID {
	if user == g.Player1 {
		return g.Player1Conn
	}
	return g.Player2Conn
}

// Conns returns both players' connections, player1 first
func (g *Game) Conns() []ConnID {
	return []ConnID{g.Player1Conn, g.Player2Conn}
}

// MoveResult describes the game after an accepted move
type MoveResult struct {
	Player      Username
	Position    int
	Board       Board
	CurrentTurn Username
	State       GameState

	Winner       Username // Empty unless State is GameStateWon
	WinningCombo []int
}

// IsTerminal returns true if the move ended the game
func (r *MoveResult) IsTerminal() bool {
	return r.State == GameStateWon || r.State == GameStateDraw
}

// OpenGame is a waiting player that can be joined by game id
type OpenGame struct {
	ID       GameID
	Player1  Username
	QueuedAt time.Time
}
