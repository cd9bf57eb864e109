package transport

import (
	"net"
	"time"
)

const (
	// MaxMessageSize is the largest inbound message accepted on any transport
	MaxMessageSize = 64 * 1024

	// WriteWait is the time allowed to write one message to the peer
	WriteWait = 10 * time.Second
)

// Conn carries whole protocol messages in both directions. ReadMessage
// must only be called from one goroutine; WriteMessage and Close are safe
// for concurrent use.
type Conn interface {
	// ReadMessage blocks for the next complete message. It returns io.EOF
	// when the peer closes cleanly.
	ReadMessage() ([]byte, error)
	WriteMessage(data []byte) error
	Close() error
	RemoteAddr() string
}

// Listener accepts inbound connections
type Listener interface {
	Accept() (Conn, error)
	Close() error
	Addr() net.Addr
}
