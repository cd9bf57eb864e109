package server

import (
	"errors"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/protocol"
	"github.com/mcoot/tictactoe-go/internal/services/auth"
)

// Reply texts
const (
	MsgInvalidFormat   = "Invalid message format"
	MsgUnknownType     = "Unknown message type"
	MsgMissingField    = "Missing required field"
	MsgNotLoggedIn     = "Not logged in"
	MsgGameNotFound    = "Game not found"
	MsgGameFull        = "Game is full"
	MsgCannotJoinOwn   = "Cannot join your own game"
	MsgInternalError   = "Internal server error"
	MsgGameOver        = "Game is over"
	MsgNotYourTurn     = "Not your turn"
	MsgInvalidPosition = "Invalid position"
	MsgPositionTaken   = "Position already taken"

	MsgRegistered        = "Registration successful"
	MsgUsernameExists    = "Username already exists"
	MsgMissingCreds      = "Username and password are required"
	MsgPasswordTooLong   = "Password is too long"
	MsgRegisterFailed    = "Registration failed"
	MsgLoggedIn          = "Login successful"
	MsgInvalidCredential = "Invalid credentials"
	MsgLoginFailed       = "Login failed"
)

// decodeErrorReply converts a decoding failure into an error message
func decodeErrorReply(err error) protocol.ServerMessage {
	switch {
	case errors.Is(err, protocol.ErrUnknownType):
		return protocol.Error{Message: MsgUnknownType}
	case errors.Is(err, protocol.ErrMissingField):
		return protocol.Error{Message: MsgMissingField}
	default:
		return protocol.Error{Message: MsgInvalidFormat}
	}
}

// errorReply converts a failed request into the reply for the requester.
// It returns nil for failures that are dropped silently: moves, chat and
// leave from a connection with no identity or no game.
func errorReply(msg protocol.ClientMessage, err error) protocol.ServerMessage {
	switch {
	case errors.Is(err, model.ErrNotLoggedIn):
		switch msg.(type) {
		case protocol.CreateGame, protocol.JoinGame:
			return protocol.Error{Message: MsgNotLoggedIn}
		default:
			return nil
		}
	case errors.Is(err, model.ErrNoActiveGame):
		return nil

	case errors.Is(err, model.ErrGameNotFound):
		return protocol.Error{Message: MsgGameNotFound}
	case errors.Is(err, model.ErrGameFull):
		return protocol.Error{Message: MsgGameFull}
	case errors.Is(err, model.ErrCannotJoinOwnGame):
		return protocol.Error{Message: MsgCannotJoinOwn}

	case errors.Is(err, model.ErrGameAlreadyOver):
		return protocol.InvalidMove{Message: MsgGameOver}
	case errors.Is(err, model.ErrNotYourTurn):
		return protocol.InvalidMove{Message: MsgNotYourTurn}
	case errors.Is(err, model.ErrPositionOutOfRange):
		return protocol.InvalidMove{Message: MsgInvalidPosition}
	case errors.Is(err, model.ErrPositionOccupied):
		return protocol.InvalidMove{Message: MsgPositionTaken}

	default:
		return protocol.Error{Message: MsgInternalError}
	}
}

// registerReply converts the result of a registration
func registerReply(err error) protocol.RegisterResponse {
	switch {
	case err == nil:
		return protocol.RegisterResponse{Success: true, Message: MsgRegistered}
	case errors.Is(err, auth.ErrDuplicateIdentity):
		return protocol.RegisterResponse{Message: MsgUsernameExists}
	case errors.Is(err, auth.ErrMissingCredentials):
		return protocol.RegisterResponse{Message: MsgMissingCreds}
	case errors.Is(err, auth.ErrPasswordTooLong):
		return protocol.RegisterResponse{Message: MsgPasswordTooLong}
	default:
		return protocol.RegisterResponse{Message: MsgRegisterFailed}
	}
}

// loginReply converts the result of a login
func loginReply(user model.Username, err error) protocol.LoginResponse {
	switch {
	case err == nil:
		return protocol.LoginResponse{Success: true, Message: MsgLoggedIn, Username: string(user)}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return protocol.LoginResponse{Message: MsgInvalidCredential}
	default:
		return protocol.LoginResponse{Message: MsgLoginFailed}
	}
}
