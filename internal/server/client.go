package server

import (
	"log/slog"
	"sync"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/transport"
)

// sendQueueSize is the number of outbound messages buffered per client
const sendQueueSize = 64

// Client is one connected peer. Outbound messages go through a bounded
// queue drained by writePump, so a slow peer never blocks the sender.
type Client struct {
	id     model.ConnID
	conn   transport.Conn
	logger *slog.Logger

	send chan []byte
	done chan struct{}

	closeOnce      sync.Once
	disconnectOnce sync.Once
}

func newClient(id model.ConnID, conn transport.Conn, logger *slog.Logger) *Client {
	return &Client{
		id:     id,
		conn:   conn,
		logger: logger.With(slog.String("conn_id", string(id))),
		send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
	}
}

// ID returns the connection id
func (c *Client) ID() model.ConnID {
	return c.id
}

// Send queues data without blocking. It returns false if the client is
// closed or its queue is full.
func (c *Client) Send(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Close stops the write pump and closes the connection
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if err := c.conn.Close(); err != nil {
			c.logger.Debug("close failed", slog.String("error", err.Error()))
		}
	})
}

// writePump writes queued messages until the client closes or a write fails
func (c *Client) writePump() {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			if err := c.conn.WriteMessage(data); err != nil {
				c.logger.Info("write failed", slog.String("error", err.Error()))
				c.Close()
				return
			}
		}
	}
}
