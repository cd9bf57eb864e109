package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tictactoe-go/internal/dependencies/mocks"
	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	clock      *mocks.MockClock
	controller *Controller
	game       *model.Game
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.controller = NewController(s.clock, testutil.NopLogger())
	s.game = s.controller.NewGame("game_1", "alice", "conn-a", "bob", "conn-b")
}

// play applies moves alternating from alice, failing the test on any rejection
func (s *ControllerSuite) play(positions ...int) *model.MoveResult {
	var result *model.MoveResult
	for _, pos := range positions {
		var err error
		result, err = s.controller.ApplyMove(s.game, s.game.CurrentTurn, pos)
		s.Require().NoError(err, "move at %d", pos)
	}
	return result
}

// NewGame tests

func (s *ControllerSuite) TestNewGameStartsWithPlayer1() {
	s.Equal(model.GameStateInProgress, s.game.State)
	s.Equal(model.Username("alice"), s.game.CurrentTurn)
	s.Equal(model.Board{}, s.game.Board)
	s.Equal(model.SymbolX, s.game.SymbolFor("alice"))
	s.Equal(model.SymbolO, s.game.SymbolFor("bob"))
	s.Equal(s.clock.Now(), s.game.CreatedAt)
}

// ApplyMove tests

func (s *ControllerSuite) TestMoveWritesSymbolAndSwitchesTurn() {
	result := s.play(0)

	s.Equal(model.SymbolX, result.Board[0])
	s.Equal(model.Username("bob"), result.CurrentTurn)
	s.Equal(model.GameStateInProgress, result.State)
	s.Equal(model.Username("alice"), result.Player)
	s.Equal(0, result.Position)
	s.False(result.IsTerminal())
}

func (s *ControllerSuite) TestSecondPlayerPlacesO() {
	result := s.play(0, 4)

	s.Equal(model.SymbolO, result.Board[4])
	s.Equal(model.Username("alice"), result.CurrentTurn)
}

func (s *ControllerSuite) TestMoveOutOfTurnIsRejected() {
	_, err := s.controller.ApplyMove(s.game, "bob", 0)
	s.ErrorIs(err, model.ErrNotYourTurn)
	s.Equal(model.Board{}, s.game.Board)
	s.Equal(model.Username("alice"), s.game.CurrentTurn)
}

func (s *ControllerSuite) TestMoveByStrangerIsRejected() {
	_, err := s.controller.ApplyMove(s.game, "mallory", 0)
	s.ErrorIs(err, model.ErrNotYourTurn)
	s.Equal(model.Board{}, s.game.Board)
}

func (s *ControllerSuite) TestMoveOutOfRangeIsRejected() {
	for _, pos := range []int{-1, 9, 100} {
		_, err := s.controller.ApplyMove(s.game, "alice", pos)
		s.ErrorIs(err, model.ErrPositionOutOfRange)
	}
	s.Equal(model.Board{}, s.game.Board)
	s.Equal(model.Username("alice"), s.game.CurrentTurn)
}

func (s *ControllerSuite) TestMoveOnOccupiedCellIsRejected() {
	s.play(4)
	before := s.game.Board

	_, err := s.controller.ApplyMove(s.game, "bob", 4)
	s.ErrorIs(err, model.ErrPositionOccupied)
	s.Equal(before, s.game.Board)
	s.Equal(model.Username("bob"), s.game.CurrentTurn)
}

func (s *ControllerSuite) TestTurnCheckedBeforePosition() {
	_, err := s.controller.ApplyMove(s.game, "bob", 42)
	s.ErrorIs(err, model.ErrNotYourTurn)
}

func (s *ControllerSuite) TestWinOnTopRow() {
	// X: 0,1,2  O: 3,4
	result := s.play(0, 3, 1, 4, 2)

	s.Equal(model.GameStateWon, result.State)
	s.Equal(model.Username("alice"), result.Winner)
	s.Equal([]int{0, 1, 2}, result.WinningCombo)
	s.True(result.IsTerminal())
	// No turn switch after a win
	s.Equal(model.Username("alice"), result.CurrentTurn)
}

func (s *ControllerSuite) TestPlayer2CanWin() {
	// X: 0,1,8  O: 2,4,6
	result := s.play(0, 2, 1, 4, 8, 6)

	s.Equal(model.GameStateWon, result.State)
	s.Equal(model.Username("bob"), result.Winner)
	s.Equal([]int{2, 4, 6}, result.WinningCombo)
}

func (s *ControllerSuite) TestDraw() {
	// X O X
	// X O O
	// O X X
	result := s.play(0, 1, 2, 4, 3, 5, 7, 6, 8)

	s.Equal(model.GameStateDraw, result.State)
	s.Empty(result.Winner)
	s.Nil(result.WinningCombo)
	s.True(result.IsTerminal())
}

func (s *ControllerSuite) TestWinOnLastCellIsNotDraw() {
	// X O X
	// O O X
	// O X X  <- the ninth move (8) completes column 2
	result := s.play(0, 1, 2, 3, 5, 4, 7, 6, 8)

	s.Equal(model.GameStateWon, result.State)
	s.Equal([]int{2, 5, 8}, result.WinningCombo)
}

func (s *ControllerSuite) TestNoMovesAfterGameOver() {
	s.play(0, 3, 1, 4, 2)
	before := s.game.Board

	_, err := s.controller.ApplyMove(s.game, "bob", 8)
	s.ErrorIs(err, model.ErrGameAlreadyOver)
	_, err = s.controller.ApplyMove(s.game, "alice", 8)
	s.ErrorIs(err, model.ErrGameAlreadyOver)
	s.Equal(before, s.game.Board)
}

func (s *ControllerSuite) TestMoveUpdatesTimestamp() {
	s.clock.Advance(time.Minute)
	s.play(0)
	s.Equal(s.clock.Now(), s.game.UpdatedAt)
}

// TestRandomGamesAlternateTurns plays random valid games and checks that the
// turn always passes to the player who did not just move, and that exactly
// one cell changes per move.
func (s *ControllerSuite) TestRandomGamesAlternateTurns() {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		s.game = s.controller.NewGame("game_r", "alice", "conn-a", "bob", "conn-b")

		for !s.game.IsTerminal() {
			var empty []int
			for pos := range s.game.Board {
				if s.game.Board[pos] == model.SymbolEmpty {
					empty = append(empty, pos)
				}
			}
			pos := empty[rng.Intn(len(empty))]
			mover := s.game.CurrentTurn
			before := s.game.Board

			result, err := s.controller.ApplyMove(s.game, mover, pos)
			s.Require().NoError(err)

			changed := 0
			for j := range before {
				if before[j] != result.Board[j] {
					changed++
				}
			}
			s.Equal(1, changed)

			if !result.IsTerminal() {
				s.Equal(s.game.Opponent(mover), result.CurrentTurn)
			}
		}
	}
}
