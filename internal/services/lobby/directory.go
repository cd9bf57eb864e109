package lobby

import (
	"fmt"
	"log/slog"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/protocol"
)

// ChatTimestampLayout formats chat timestamps as HH:MM:SS
const ChatTimestampLayout = "15:04:05"

// JoinGame pairs the connection's identity with the waiting player holding
// gameID. The waiter plays X.
func (c *Controller) JoinGame(conn model.ConnID, gameID model.GameID) ([]Notification, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, err := c.lookupIdentity(conn)
	if err != nil {
		return nil, err
	}

	if _, ok := c.games[gameID]; ok {
		return nil, model.ErrGameFull
	}
	idx := c.findTicket(gameID)
	if idx < 0 {
		return nil, model.ErrGameNotFound
	}
	waiter := c.queue[idx]
	if waiter.user == user {
		return nil, model.ErrCannotJoinOwnGame
	}

	notes := c.forceLeave(user)
	c.dequeueUser(user)
	c.dequeueUser(waiter.user)

	joiner := queueEntry{conn: conn, user: user}
	return append(notes, c.createSession(gameID, waiter, joiner)...), nil
}

// Move applies a move by the connection's identity in its active game.
// Rejections from the state machine are returned as errors for the mover.
func (c *Controller) Move(conn model.ConnID, position int) ([]Notification, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, g, err := c.activeGame(conn)
	if err != nil {
		return nil, err
	}

	result, err := c.gameController.ApplyMove(g, user, position)
	if err != nil {
		c.logger.Debug("move rejected",
			slog.String("game_id", string(g.ID)),
			slog.String("username", string(user)),
			slog.Int("position", position),
			slog.String("reason", err.Error()),
		)
		return nil, err
	}

	update := protocol.GameUpdate{
		Board:       result.Board.Cells(),
		CurrentTurn: string(result.CurrentTurn),
		Position:    result.Position,
		Player:      string(result.Player),
	}
	notes := broadcast(g, update)

	if result.IsTerminal() {
		over := protocol.GameOver{
			Winner:       string(result.Winner),
			Draw:         result.State == model.GameStateDraw,
			WinningCombo: result.WinningCombo,
		}
		notes = append(notes, broadcast(g, over)...)
	}
	return notes, nil
}

// Chat relays a message to both players of the sender's active game
func (c *Controller) Chat(conn model.ConnID, text string) ([]Notification, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, g, err := c.activeGame(conn)
	if err != nil {
		return nil, err
	}

	return broadcast(g, protocol.ChatBroadcast{
		Username:  string(user),
		Message:   text,
		Timestamp: c.clock.Now().Format(ChatTimestampLayout),
	}), nil
}

// Leave takes the connection's identity out of the wait queue and out of
// any game it is playing
func (c *Controller) Leave(conn model.ConnID) ([]Notification, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, err := c.lookupIdentity(conn)
	if err != nil {
		return nil, err
	}

	c.dequeueConn(conn)
	if _, ok := c.playerGames[user]; !ok {
		return nil, model.ErrNoActiveGame
	}
	return c.forceLeave(user), nil
}

// GameFor returns a snapshot of the user's active game
func (c *Controller) GameFor(user model.Username) (model.Game, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	gameID, ok := c.playerGames[user]
	if !ok {
		return model.Game{}, false
	}
	g, ok := c.games[gameID]
	if !ok {
		return model.Game{}, false
	}
	snapshot := *g
	snapshot.WinningCombo = append([]int(nil), g.WinningCombo...)
	return snapshot, true
}

// activeGame resolves the connection's identity and that identity's game.
// Must hold mu.
func (c *Controller) activeGame(conn model.ConnID) (model.Username, *model.Game, error) {
	user, err := c.lookupIdentity(conn)
	if err != nil {
		return "", nil, err
	}
	gameID, ok := c.playerGames[user]
	if !ok {
		return user, nil, model.ErrNoActiveGame
	}
	g, ok := c.games[gameID]
	if !ok {
		return user, nil, model.ErrNoActiveGame
	}
	return user, g, nil
}

// createSession starts a game between p1 (X) and p2 (O) and indexes both
// players. Must hold mu.
func (c *Controller) createSession(id model.GameID, p1, p2 queueEntry) []Notification {
	g := c.gameController.NewGame(id, p1.user, p1.conn, p2.user, p2.conn)
	c.games[id] = g
	c.playerGames[p1.user] = id
	c.playerGames[p2.user] = id

	start := protocol.GameStart{
		GameID:      string(g.ID),
		Player1:     string(g.Player1),
		Player2:     string(g.Player2),
		Board:       g.Board.Cells(),
		CurrentTurn: string(g.CurrentTurn),
	}

	forP1 := start
	forP1.YourSymbol = string(model.SymbolX)
	forP1.Opponent = string(g.Player2)

	forP2 := start
	forP2.YourSymbol = string(model.SymbolO)
	forP2.Opponent = string(g.Player1)

	return []Notification{
		{To: g.Player1Conn, Message: forP1},
		{To: g.Player2Conn, Message: forP2},
	}
}

// forceLeave destroys the user's active game, if any, and tells the other
// player. Must hold mu.
func (c *Controller) forceLeave(user model.Username) []Notification {
	gameID, ok := c.playerGames[user]
	if !ok {
		return nil
	}
	delete(c.playerGames, user)

	g, ok := c.games[gameID]
	if !ok {
		return nil
	}
	delete(c.games, gameID)

	other := g.Opponent(user)
	if c.playerGames[other] == gameID {
		delete(c.playerGames, other)
	}

	c.logger.Info("player left game",
		slog.String("game_id", string(gameID)),
		slog.String("username", string(user)),
	)

	return []Notification{{
		To:      g.ConnFor(other),
		Message: protocol.OpponentLeft{Message: fmt.Sprintf("%s has left the game", user)},
	}}
}

// allocateGameID picks an id not used by any game or queue ticket.
// Must hold mu.
func (c *Controller) allocateGameID() (model.GameID, error) {
	for range maxGameIDAttempts {
		id := model.GameID(GameIDPrefix + c.random.String(GameIDLength, GameIDAlphabet))
		if _, ok := c.games[id]; ok {
			continue
		}
		if c.findTicket(id) >= 0 {
			continue
		}
		return id, nil
	}
	return "", model.ErrGameIDsExhausted
}

func broadcast(g *model.Game, msg protocol.ServerMessage) []Notification {
	notes := make([]Notification, 0, 2)
	for _, conn := range g.Conns() {
		notes = append(notes, Notification{To: conn, Message: msg})
	}
	return notes
}
