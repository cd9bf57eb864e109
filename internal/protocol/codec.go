package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Decoding errors
var (
	ErrMalformed    = errors.New("malformed message")
	ErrUnknownType  = errors.New("unknown message type")
	ErrMissingField = errors.New("missing required field")
)

type envelope struct {
	Type string `json:"type"`
}

// Encode serializes a message as a single JSON object carrying its type tag
func Encode(msg interface{ Type() string }) ([]byte, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	tag, err := json.Marshal(envelope{Type: msg.Type()})
	if err != nil {
		return nil, err
	}
	// Splice the body's fields after the type field: {"type":"x"} + {"a":1}
	if bytes.Equal(body, []byte("{}")) {
		return tag, nil
	}
	out := make([]byte, 0, len(tag)+len(body))
	out = append(out, tag[:len(tag)-1]...)
	out = append(out, ',')
	out = append(out, body[1:]...)
	return out, nil
}

// DecodeClient parses one client message
func DecodeClient(data []byte) (ClientMessage, error) {
	msgType, err := peekType(data)
	if err != nil {
		return nil, err
	}

	switch msgType {
	case TypeRegister:
		return decodeAs[Register](data)
	case TypeLogin:
		return decodeAs[Login](data)
	case TypeCreateGame:
		return CreateGame{}, nil
	case TypeJoinGame:
		return decodeAs[JoinGame](data)
	case TypeGetGames:
		return GetGames{}, nil
	case TypeMove:
		msg, err := decodeAs[Move](data)
		if err != nil {
			return nil, err
		}
		if msg.Position == nil {
			return nil, fmt.Errorf("%w: position", ErrMissingField)
		}
		return msg, nil
	case TypeChat:
		return decodeAs[Chat](data)
	case TypeLeaveGame:
		return LeaveGame{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, msgType)
	}
}

// DecodeServer parses one server message
func DecodeServer(data []byte) (ServerMessage, error) {
	msgType, err := peekType(data)
	if err != nil {
		return nil, err
	}

	switch msgType {
	case TypeRegisterResponse:
		return decodeAs[RegisterResponse](data)
	case TypeLoginResponse:
		return decodeAs[LoginResponse](data)
	case TypeWaiting:
		return decodeAs[Waiting](data)
	case TypeGameStart:
		return decodeAs[GameStart](data)
	case TypeGamesList:
		return decodeAs[GamesList](data)
	case TypeGameUpdate:
		return decodeAs[GameUpdate](data)
	case TypeGameOver:
		return decodeAs[GameOver](data)
	case TypeInvalidMove:
		return decodeAs[InvalidMove](data)
	case TypeChatBroadcast:
		return decodeAs[ChatBroadcast](data)
	case TypeOpponentLeft:
		return decodeAs[OpponentLeft](data)
	case TypeError:
		return decodeAs[Error](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, msgType)
	}
}

func peekType(data []byte) (string, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Type == "" {
		return "", fmt.Errorf("%w: type", ErrMissingField)
	}
	return env.Type, nil
}

func decodeAs[T any](data []byte) (T, error) {
	var msg T
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return msg, nil
}
