package game

import (
	"log/slog"

	"github.com/mcoot/tictactoe-go/internal/dependencies/clock"
	"github.com/mcoot/tictactoe-go/internal/model"
)

// Controller runs the game state machine. It holds no game state itself;
// callers own the *model.Game and must serialize access to it.
type Controller struct {
	clock  clock.Clock
	logger *slog.Logger
}

// NewController creates a new game Controller
func NewController(clock clock.Clock, logger *slog.Logger) *Controller {
	return &Controller{
		clock:  clock,
		logger: logger.With(slog.String("component", "game")),
	}
}

// NewGame initializes an in-progress game with player1 (X) to move
func (c *Controller) NewGame(
	id model.GameID,
	player1 model.Username,
	player1Conn model.ConnID,
	player2 model.Username,
	player2Conn model.ConnID,
) *model.Game {
	now := c.clock.Now()

	game := &model.Game{
		ID:          id,
		Player1:     player1,
		Player2:     player2,
		Player1Conn: player1Conn,
		Player2Conn: player2Conn,
		CurrentTurn: player1,
		State:       model.GameStateInProgress,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	c.logger.Info("game created",
		slog.String("game_id", string(id)),
		slog.String("player1", string(player1)),
		slog.String("player2", string(player2)),
	)

	return game
}

// ApplyMove validates and applies a move by player at position.
// A rejected move leaves the game untouched.
func (c *Controller) ApplyMove(game *model.Game, player model.Username, position int) (*model.MoveResult, error) {
	if game.IsTerminal() {
		return nil, model.ErrGameAlreadyOver
	}
	if player != game.CurrentTurn {
		return nil, model.ErrNotYourTurn
	}
	if !game.Board.IsValidPosition(position) {
		return nil, model.ErrPositionOutOfRange
	}
	if !game.Board.IsEmpty(position) {
		return nil, model.ErrPositionOccupied
	}

	game.Board[position] = game.SymbolFor(player)
	game.UpdatedAt = c.clock.Now()

	if symbol, combo := game.Board.Winner(); symbol != model.SymbolEmpty {
		game.State = model.GameStateWon
		game.Winner = game.PlayerFor(symbol)
		game.WinningCombo = combo
		c.logger.Info("game won",
			slog.String("game_id", string(game.ID)),
			slog.String("winner", string(game.Winner)),
			slog.Any("winning_combo", combo),
		)
	} else if game.Board.IsFull() {
		game.State = model.GameStateDraw
		c.logger.Info("game drawn", slog.String("game_id", string(game.ID)))
	} else {
		game.CurrentTurn = game.Opponent(player)
	}

	return &model.MoveResult{
		Player:       player,
		Position:     position,
		Board:        game.Board,
		CurrentTurn:  game.CurrentTurn,
		State:        game.State,
		Winner:       game.Winner,
		WinningCombo: game.WinningCombo,
	}, nil
}
