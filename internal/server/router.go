package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/protocol"
	"github.com/mcoot/tictactoe-go/internal/services/auth"
	"github.com/mcoot/tictactoe-go/internal/services/lobby"
)

// Router decodes inbound messages, applies them to the lobby and delivers
// the resulting notifications
type Router struct {
	auth  *auth.Service
	lobby *lobby.Controller
	conns *ConnectionManager

	// orderMu spans each lobby operation and the queueing of its
	// notifications, so clients receive messages in lobby order
	orderMu sync.Mutex

	logger *slog.Logger
}

// NewRouter creates a new Router
func NewRouter(authService *auth.Service, lobbyController *lobby.Controller, conns *ConnectionManager, logger *slog.Logger) *Router {
	return &Router{
		auth:   authService,
		lobby:  lobbyController,
		conns:  conns,
		logger: logger.With(slog.String("component", "router")),
	}
}

// Handle processes one raw inbound message from client. Failures are
// reported to the client and never end its session.
func (r *Router) Handle(ctx context.Context, client *Client, data []byte) {
	msg, err := protocol.DecodeClient(data)
	if err != nil {
		r.logger.Info("undecodable message",
			slog.String("conn_id", string(client.ID())),
			slog.String("error", err.Error()),
		)
		r.reply(client, decodeErrorReply(err))
		return
	}

	err = r.dispatch(ctx, client, msg)
	if err == nil {
		return
	}

	reply := errorReply(msg, err)
	if reply == nil {
		r.logger.Debug("request ignored",
			slog.String("conn_id", string(client.ID())),
			slog.String("type", msg.Type()),
			slog.String("reason", err.Error()),
		)
		return
	}
	if _, ok := reply.(protocol.Error); ok {
		r.logger.Info("request failed",
			slog.String("conn_id", string(client.ID())),
			slog.String("type", msg.Type()),
			slog.String("error", err.Error()),
		)
	}
	r.reply(client, reply)
}

// Disconnect releases everything held by client and closes it. Only the
// first call has any effect.
func (r *Router) Disconnect(client *Client) {
	client.disconnectOnce.Do(func() {
		_ = r.apply(func() ([]lobby.Notification, error) {
			notes := r.lobby.Disconnect(client.ID())
			r.conns.Remove(client.ID())
			return notes, nil
		})
		client.Close()
		r.logger.Info("client disconnected", slog.String("conn_id", string(client.ID())))
	})
}

// apply runs a lobby operation and queues its notifications before
// releasing orderMu. Stalled recipients are closed after the lock is
// released.
func (r *Router) apply(op func() ([]lobby.Notification, error)) error {
	r.orderMu.Lock()
	notes, err := op()
	stalled := r.queue(notes)
	r.orderMu.Unlock()

	for _, client := range stalled {
		client.Close()
	}
	return err
}

// queue hands each notification to its recipient and returns the
// recipients that could not take it
func (r *Router) queue(notes []lobby.Notification) []*Client {
	var stalled []*Client
	for _, note := range notes {
		client, ok := r.conns.Get(note.To)
		if !ok {
			r.logger.Debug("recipient gone",
				slog.String("conn_id", string(note.To)),
				slog.String("type", note.Message.Type()),
			)
			continue
		}
		if !r.enqueue(client, note.Message) {
			stalled = append(stalled, client)
		}
	}
	return stalled
}

// enqueue encodes msg onto the client's send queue. It returns false when
// the queue is full or closed.
func (r *Router) enqueue(client *Client, msg protocol.ServerMessage) bool {
	data, err := protocol.Encode(msg)
	if err != nil {
		r.logger.Error("failed to encode message",
			slog.String("type", msg.Type()),
			slog.String("error", err.Error()),
		)
		return true
	}
	if !client.Send(data) {
		r.logger.Warn("send queue unavailable, closing client",
			slog.String("conn_id", string(client.ID())),
			slog.String("type", msg.Type()),
		)
		return false
	}
	return true
}

// reply sends a message that answers client's own request
func (r *Router) reply(client *Client, msg protocol.ServerMessage) {
	if !r.enqueue(client, msg) {
		client.Close()
	}
}

func (r *Router) dispatch(ctx context.Context, client *Client, msg protocol.ClientMessage) error {
	conn := client.ID()
	switch m := msg.(type) {
	case protocol.Register:
		r.register(ctx, client, m)
		return nil
	case protocol.Login:
		r.login(ctx, client, m)
		return nil
	case protocol.CreateGame:
		return r.apply(func() ([]lobby.Notification, error) { return r.lobby.Enqueue(conn) })
	case protocol.JoinGame:
		return r.apply(func() ([]lobby.Notification, error) { return r.lobby.JoinGame(conn, model.GameID(m.GameID)) })
	case protocol.GetGames:
		r.reply(client, GamesList(r.lobby.OpenGames()))
		return nil
	case protocol.Move:
		return r.apply(func() ([]lobby.Notification, error) { return r.lobby.Move(conn, *m.Position) })
	case protocol.Chat:
		return r.apply(func() ([]lobby.Notification, error) { return r.lobby.Chat(conn, m.Message) })
	case protocol.LeaveGame:
		return r.apply(func() ([]lobby.Notification, error) { return r.lobby.Leave(conn) })
	default:
		return fmt.Errorf("unhandled message type %T", msg)
	}
}

func (r *Router) register(ctx context.Context, client *Client, m protocol.Register) {
	_, err := r.auth.Register(ctx, m.Username, m.Password)
	if err != nil {
		r.logger.Info("registration rejected",
			slog.String("conn_id", string(client.ID())),
			slog.String("username", m.Username),
			slog.String("error", err.Error()),
		)
	}
	r.reply(client, registerReply(err))
}

func (r *Router) login(ctx context.Context, client *Client, m protocol.Login) {
	conn := client.ID()

	// Password hashing is slow, so authenticate before touching the lobby lock
	user, err := r.auth.Authenticate(ctx, m.Username, m.Password)
	if err != nil {
		r.logger.Info("login rejected",
			slog.String("conn_id", string(conn)),
			slog.String("username", m.Username),
			slog.String("error", err.Error()),
		)
		r.reply(client, loginReply("", err))
		return
	}

	_ = r.apply(func() ([]lobby.Notification, error) {
		notes := r.lobby.Bind(conn, user)
		return append(notes, lobby.Notification{To: conn, Message: loginReply(user, nil)}), nil
	})
	r.logger.Info("login succeeded",
		slog.String("conn_id", string(conn)),
		slog.String("username", string(user)),
	)
}

// GamesList builds the listing of games waiting for a second player
func GamesList(open []model.OpenGame) protocol.GamesList {
	games := make([]protocol.GameListing, 0, len(open))
	for _, g := range open {
		games = append(games, protocol.GameListing{
			GameID:  string(g.ID),
			Player1: string(g.Player1),
			Status:  "waiting",
		})
	}
	return protocol.GamesList{Games: games}
}
