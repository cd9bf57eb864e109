package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")

	// Session errors
	ErrNotLoggedIn = errors.New("not logged in")

	// Directory errors
	ErrGameNotFound      = errors.New("game not found")
	ErrGameFull          = errors.New("game is full")
	ErrCannotJoinOwnGame = errors.New("cannot join own game")
	ErrNoActiveGame      = errors.New("no active game")
	ErrGameIDsExhausted  = errors.New("could not allocate a unique game id")

	// Move errors
	ErrGameAlreadyOver    = errors.New("game is already over")
	ErrNotYourTurn        = errors.New("not this player's turn")
	ErrPositionOutOfRange = errors.New("position out of range")
	ErrPositionOccupied   = errors.New("position is already occupied")
)
