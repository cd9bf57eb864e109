package lobby

import (
	"log/slog"
	"sync"

	"github.com/mcoot/tictactoe-go/internal/dependencies/clock"
	"github.com/mcoot/tictactoe-go/internal/dependencies/random"
	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/protocol"
	"github.com/mcoot/tictactoe-go/internal/services/game"
)

const (
	// GameIDPrefix starts every generated game id
	GameIDPrefix = "game_"
	// GameIDLength is the number of random characters after the prefix
	GameIDLength = 8
	// GameIDAlphabet is the characters used in game ids
	GameIDAlphabet = "abcdefghijkmnpqrstuvwxyz23456789"
	// maxGameIDAttempts bounds the search for an unused game id
	maxGameIDAttempts = 16
)

// Notification is a message the caller must deliver once the lobby lock
// has been released
type Notification struct {
	To      model.ConnID
	Message protocol.ServerMessage
}

// Stats is a point-in-time summary of lobby state
type Stats struct {
	Authenticated int `json:"authenticated"`
	Waiting       int `json:"waiting"`
	ActiveGames   int `json:"active_games"`
}

// Controller owns all shared session state: connection bindings, the wait
// queue, the game directory and the player game index. Every exported
// method takes the single mutex for its whole duration and never performs
// I/O; outbound messages are returned as notifications instead.
type Controller struct {
	gameController *game.Controller
	clock          clock.Clock
	random         random.Random
	logger         *slog.Logger

	mu          sync.Mutex
	bindings    map[model.ConnID]model.Username
	queue       []queueEntry
	games       map[model.GameID]*model.Game
	playerGames map[model.Username]model.GameID
}

// NewController creates a new lobby Controller
func NewController(
	gameController *game.Controller,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		gameController: gameController,
		clock:          clock,
		random:         random,
		logger:         logger.With(slog.String("component", "lobby")),
		bindings:       make(map[model.ConnID]model.Username),
		games:          make(map[model.GameID]*model.Game),
		playerGames:    make(map[model.Username]model.GameID),
	}
}

// Bind associates an authenticated identity with a connection, replacing
// any previous binding. If the connection was bound to a different
// identity, that identity's queue entry and game on this connection are
// released first.
func (c *Controller) Bind(conn model.ConnID, user model.Username) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	var notes []Notification
	if prev, ok := c.bindings[conn]; ok && prev != user {
		c.logger.Info("connection re-bound",
			slog.String("conn_id", string(conn)),
			slog.String("previous", string(prev)),
			slog.String("username", string(user)),
		)
		notes = c.releaseConn(conn, prev)
	}

	c.bindings[conn] = user
	c.logger.Debug("connection bound",
		slog.String("conn_id", string(conn)),
		slog.String("username", string(user)),
	)
	return notes
}

// IdentityOf returns the identity bound to a connection
func (c *Controller) IdentityOf(conn model.ConnID) (model.Username, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	user, ok := c.bindings[conn]
	return user, ok
}

// Disconnect releases everything held by a connection: its queue entry,
// the game its identity is playing on it, and its binding. Safe to call
// more than once.
func (c *Controller) Disconnect(conn model.ConnID) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, ok := c.bindings[conn]
	if !ok {
		c.dequeueConn(conn)
		return nil
	}

	notes := c.releaseConn(conn, user)
	delete(c.bindings, conn)

	c.logger.Info("connection released",
		slog.String("conn_id", string(conn)),
		slog.String("username", string(user)),
	)
	return notes
}

// Stats returns current counts of lobby state
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Authenticated: len(c.bindings),
		Waiting:       len(c.queue),
		ActiveGames:   len(c.games),
	}
}

// releaseConn drops conn's queue entry and, if user is playing a game on
// conn, force-leaves it. Must hold mu.
func (c *Controller) releaseConn(conn model.ConnID, user model.Username) []Notification {
	c.dequeueConn(conn)

	gameID, ok := c.playerGames[user]
	if !ok {
		return nil
	}
	g, ok := c.games[gameID]
	if !ok || !g.HasPlayer(user) || g.ConnFor(user) != conn {
		return nil
	}
	return c.forceLeave(user)
}

func (c *Controller) lookupIdentity(conn model.ConnID) (model.Username, error) {
	user, ok := c.bindings[conn]
	if !ok {
		return "", model.ErrNotLoggedIn
	}
	return user, nil
}
