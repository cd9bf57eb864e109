package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/tictactoe-go/internal/dependencies/clock"
	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/storage"
)

// maxPasswordLength is the longest input bcrypt accepts
const maxPasswordLength = 72

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateIdentity  = errors.New("username already exists")
	ErrMissingCredentials = errors.New("username and password are required")
	ErrPasswordTooLong    = errors.New("password is too long")
)

// Config holds configuration for the auth service
type Config struct {
	BcryptCost int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		BcryptCost: bcrypt.DefaultCost,
	}
}

// Service owns the account store: registration and credential checks.
// Binding an authenticated identity to a connection is the lobby's job.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	cost    int
	logger  *slog.Logger
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultConfig().BcryptCost
	}
	return &Service{
		storage: storage,
		clock:   clock,
		cost:    cfg.BcryptCost,
		logger:  logger.With(slog.String("component", "auth")),
	}
}

// Register creates an account. It fails with ErrDuplicateIdentity if the
// username is already taken.
func (s *Service) Register(ctx context.Context, username, password string) (*model.Account, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if len(password) > maxPasswordLength {
		return nil, ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		Username:     model.Username(username),
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}

	if err := s.storage.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, model.ErrAccountExists) {
			return nil, ErrDuplicateIdentity
		}
		s.logger.Error("failed to save account",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("account registered", slog.String("username", username))
	return account, nil
}

// Authenticate checks a username and password and returns the canonical
// identity for the account
func (s *Service) Authenticate(ctx context.Context, username, password string) (model.Username, error) {
	account, err := s.storage.GetAccount(ctx, model.Username(username))
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return account.Username, nil
}

// AccountCount returns the number of registered accounts
func (s *Service) AccountCount(ctx context.Context) (int, error) {
	return s.storage.CountAccounts(ctx)
}
