package tcp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/mcoot/tictactoe-go/internal/transport"
)

// ErrMessageTooLarge is returned when a line exceeds transport.MaxMessageSize
var ErrMessageTooLarge = errors.New("message too large")

// Conn frames messages as newline-terminated lines over a stream socket
type Conn struct {
	conn    net.Conn
	scanner *bufio.Scanner

	writeMu sync.Mutex
}

var _ transport.Conn = (*Conn)(nil)

// NewConn wraps an established stream connection
func NewConn(conn net.Conn) *Conn {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), transport.MaxMessageSize)
	return &Conn{
		conn:    conn,
		scanner: scanner,
	}
}

// Dial connects to a line-framed server
func Dial(ctx context.Context, addr string) (*Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return NewConn(conn), nil
}

// ReadMessage returns the next non-blank line without its terminator
func (c *Conn) ReadMessage() ([]byte, error) {
	for c.scanner.Scan() {
		line := bytes.TrimSpace(c.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		return bytes.Clone(line), nil
	}

	err := c.scanner.Err()
	switch {
	case err == nil:
		return nil, io.EOF
	case errors.Is(err, bufio.ErrTooLong):
		return nil, ErrMessageTooLarge
	default:
		return nil, fmt.Errorf("read: %w", err)
	}
}

// WriteMessage writes data followed by a newline
func (c *Conn) WriteMessage(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(transport.WriteWait)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}

	frame := make([]byte, 0, len(data)+1)
	frame = append(frame, data...)
	frame = append(frame, '\n')
	if _, err := c.conn.Write(frame); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Close closes the underlying connection
func (c *Conn) Close() error {
	return c.conn.Close()
}

// RemoteAddr returns the peer address
func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
