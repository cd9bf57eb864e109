package factory

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/protocol"
	"github.com/mcoot/tictactoe-go/internal/services/auth"
	redisstorage "github.com/mcoot/tictactoe-go/internal/storage/redis"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// signIn registers an account and binds it to conn
func (s *IntegrationSuite) signIn(conn model.ConnID, name string) {
	_, err := s.app.AuthService.Register(s.ctx, name, "pw-"+name)
	s.Require().NoError(err)
	user, err := s.app.AuthService.Authenticate(s.ctx, name, "pw-"+name)
	s.Require().NoError(err)
	s.app.LobbyController.Bind(conn, user)
}

// Test: Complete game flow from registration to a win
func (s *IntegrationSuite) TestCompleteGameFlow() {
	s.app.MockRandom.QueueString("first001", "second02")

	// Step 1: Both players sign in
	s.signIn("c1", "alice")
	s.signIn("c2", "bob")

	// Step 2: Both queue; the second pairs them
	notes, err := s.app.LobbyController.Enqueue("c1")
	s.Require().NoError(err)
	s.IsType(protocol.Waiting{}, notes[0].Message)

	notes, err = s.app.LobbyController.Enqueue("c2")
	s.Require().NoError(err)
	s.Len(notes, 2)

	game, ok := s.app.LobbyController.GameFor("alice")
	s.Require().True(ok)
	s.Equal(model.GameID("game_first001"), game.ID)

	// Step 3: Play X down the left column
	for _, m := range []struct {
		conn model.ConnID
		pos  int
	}{{"c1", 0}, {"c2", 1}, {"c1", 3}, {"c2", 2}, {"c1", 6}} {
		_, err := s.app.LobbyController.Move(m.conn, m.pos)
		s.Require().NoError(err)
	}

	game, _ = s.app.LobbyController.GameFor("bob")
	s.Equal(model.GameStateWon, game.State)
	s.Equal(model.Username("alice"), game.Winner)
	s.Equal([]int{0, 3, 6}, game.WinningCombo)

	// Step 4: Leaving removes the finished game
	_, err = s.app.LobbyController.Leave("c2")
	s.Require().NoError(err)
	s.Equal(0, s.app.LobbyController.Stats().ActiveGames)
}

func (s *IntegrationSuite) TestAccountsAreHashed() {
	s.signIn("c1", "alice")

	account, err := s.app.Storage.GetAccount(s.ctx, "alice")
	s.Require().NoError(err)
	s.NotEqual("pw-alice", account.PasswordHash)
	s.Equal(s.app.MockClock.Now(), account.CreatedAt)
}

func (s *IntegrationSuite) TestNewWithInvalidStorageType() {
	_, err := New(Config{StorageType: "postgres"})
	s.Error(err)
}

func (s *IntegrationSuite) TestNewRedisRequiresConfig() {
	_, err := New(Config{StorageType: StorageTypeRedis})
	s.Error(err)
}

func (s *IntegrationSuite) TestNewWithRedis() {
	mr := miniredis.RunT(s.T())

	cfg := redisstorage.DefaultConfig()
	cfg.URL = "redis://" + mr.Addr()
	app, err := New(Config{
		StorageType: StorageTypeRedis,
		RedisConfig: &cfg,
		AuthConfig:  auth.Config{BcryptCost: 4},
	})
	s.Require().NoError(err)
	defer app.Close()

	_, err = app.AuthService.Register(s.ctx, "alice", "secret")
	s.Require().NoError(err)
	s.True(mr.Exists("ttt:account:alice"))

	count, err := app.AuthService.AccountCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *IntegrationSuite) TestNewDefaultsToMemory() {
	app, err := New(Config{})
	s.Require().NoError(err)
	s.NoError(app.Close())
	s.NotNil(app.Server)
}
