package storage

import (
	"context"

	"github.com/mcoot/tictactoe-go/internal/model"
)

// Storage defines the interface for account persistence
type Storage interface {
	// CreateAccount stores a new account, failing with model.ErrAccountExists
	// if the username is taken. The check and insert are atomic.
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, username model.Username) (*model.Account, error)
	CountAccounts(ctx context.Context) (int, error)
}
