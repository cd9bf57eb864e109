package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/tictactoe-go/internal/dependencies/mocks"
	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/storage/memory"
	"github.com/mcoot/tictactoe-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, Config{BcryptCost: bcrypt.MinCost}, testutil.NopLogger())
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	account, err := s.service.Register(s.ctx, "alice", "pw1")
	s.Require().NoError(err)

	s.Equal(model.Username("alice"), account.Username)
	s.Equal(s.clock.Now(), account.CreatedAt)
}

func (s *ServiceSuite) TestRegisterStoresHashNotPassword() {
	_, _ = s.service.Register(s.ctx, "alice", "pw1")

	account, err := s.storage.GetAccount(s.ctx, "alice")
	s.Require().NoError(err)
	s.NotEmpty(account.PasswordHash)
	s.NotEqual("pw1", account.PasswordHash)
}

func (s *ServiceSuite) TestRegisterTwiceFailsWithDuplicateIdentity() {
	_, err := s.service.Register(s.ctx, "alice", "pw1")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "alice", "other")
	s.ErrorIs(err, ErrDuplicateIdentity)
}

func (s *ServiceSuite) TestRegisterRequiresUsernameAndPassword() {
	_, err := s.service.Register(s.ctx, "", "pw1")
	s.ErrorIs(err, ErrMissingCredentials)

	_, err = s.service.Register(s.ctx, "alice", "")
	s.ErrorIs(err, ErrMissingCredentials)
}

func (s *ServiceSuite) TestRegisterRejectsOverlongPassword() {
	_, err := s.service.Register(s.ctx, "alice", strings.Repeat("x", 73))
	s.ErrorIs(err, ErrPasswordTooLong)
}

// Authenticate tests

func (s *ServiceSuite) TestAuthenticateSucceeds() {
	_, _ = s.service.Register(s.ctx, "alice", "pw1")

	identity, err := s.service.Authenticate(s.ctx, "alice", "pw1")
	s.Require().NoError(err)
	s.Equal(model.Username("alice"), identity)
}

func (s *ServiceSuite) TestAuthenticateFailsWithWrongPassword() {
	_, _ = s.service.Register(s.ctx, "alice", "pw1")

	_, err := s.service.Authenticate(s.ctx, "alice", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestAuthenticateFailsWithUnknownUser() {
	_, err := s.service.Authenticate(s.ctx, "nobody", "pw1")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestAuthenticateIsCaseSensitive() {
	_, _ = s.service.Register(s.ctx, "alice", "pw1")

	_, err := s.service.Authenticate(s.ctx, "Alice", "pw1")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// AccountCount tests

func (s *ServiceSuite) TestAccountCount() {
	_, _ = s.service.Register(s.ctx, "alice", "pw1")
	_, _ = s.service.Register(s.ctx, "bob", "pw2")

	count, err := s.service.AccountCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
}
