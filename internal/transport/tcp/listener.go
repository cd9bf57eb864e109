package tcp

import (
	"fmt"
	"net"

	"github.com/mcoot/tictactoe-go/internal/transport"
)

// DefaultAddr is the default listen address for the line protocol
const DefaultAddr = "0.0.0.0:5555"

// Listener accepts line-framed connections
type Listener struct {
	ln net.Listener
}

var _ transport.Listener = (*Listener)(nil)

// Listen opens a TCP listener on addr
func Listen(addr string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return &Listener{ln: ln}, nil
}

// Accept waits for the next connection
func (l *Listener) Accept() (transport.Conn, error) {
	conn, err := l.ln.Accept()
	if err != nil {
		return nil, err
	}
	return NewConn(conn), nil
}

// Close stops accepting connections
func (l *Listener) Close() error {
	return l.ln.Close()
}

// Addr returns the bound address
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}
