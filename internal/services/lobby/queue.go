package lobby

import (
	"log/slog"
	"time"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/protocol"
)

// WaitingMessage is sent to a player queued without an opponent
const WaitingMessage = "Waiting for opponent..."

// queueEntry is one waiting player. Ticket becomes the game id when the
// entry is paired, and is how other players join it directly.
type queueEntry struct {
	conn     model.ConnID
	user     model.Username
	ticket   model.GameID
	queuedAt time.Time
}

// Enqueue puts the connection's identity at the back of the wait queue,
// abandoning any game it is in. When two players are waiting the two
// oldest are paired into a new game.
func (c *Controller) Enqueue(conn model.ConnID) ([]Notification, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, err := c.lookupIdentity(conn)
	if err != nil {
		return nil, err
	}

	notes := c.forceLeave(user)
	c.dequeueUser(user)

	ticket, err := c.allocateGameID()
	if err != nil {
		return notes, err
	}

	c.queue = append(c.queue, queueEntry{
		conn:     conn,
		user:     user,
		ticket:   ticket,
		queuedAt: c.clock.Now(),
	})
	c.logger.Info("player queued",
		slog.String("username", string(user)),
		slog.String("ticket", string(ticket)),
		slog.Int("queue_length", len(c.queue)),
	)

	if len(c.queue) < 2 {
		return append(notes, Notification{
			To:      conn,
			Message: protocol.Waiting{Message: WaitingMessage},
		}), nil
	}

	first, second := c.queue[0], c.queue[1]
	c.queue = c.queue[2:]
	return append(notes, c.createSession(first.ticket, first, second)...), nil
}

// OpenGames lists waiting players in queue order
func (c *Controller) OpenGames() []model.OpenGame {
	c.mu.Lock()
	defer c.mu.Unlock()

	open := make([]model.OpenGame, 0, len(c.queue))
	for _, e := range c.queue {
		open = append(open, model.OpenGame{
			ID:       e.ticket,
			Player1:  e.user,
			QueuedAt: e.queuedAt,
		})
	}
	return open
}

// dequeueConn removes entries queued from conn. Must hold mu.
func (c *Controller) dequeueConn(conn model.ConnID) {
	c.removeWhere(func(e queueEntry) bool { return e.conn == conn })
}

// dequeueUser removes entries for user. Must hold mu.
func (c *Controller) dequeueUser(user model.Username) {
	c.removeWhere(func(e queueEntry) bool { return e.user == user })
}

func (c *Controller) removeWhere(match func(queueEntry) bool) {
	kept := c.queue[:0]
	for _, e := range c.queue {
		if !match(e) {
			kept = append(kept, e)
		}
	}
	clear(c.queue[len(kept):])
	c.queue = kept
}

// findTicket returns the index of the queue entry holding ticket, or -1
func (c *Controller) findTicket(ticket model.GameID) int {
	for i, e := range c.queue {
		if e.ticket == ticket {
			return i
		}
	}
	return -1
}
