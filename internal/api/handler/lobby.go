package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mcoot/tictactoe-go/internal/api/response"
	"github.com/mcoot/tictactoe-go/internal/services/auth"
	"github.com/mcoot/tictactoe-go/internal/services/lobby"
	"github.com/mcoot/tictactoe-go/internal/transport"
	"github.com/mcoot/tictactoe-go/internal/transport/ws"
)

// ConnServer runs the game protocol over an established connection
type ConnServer interface {
	ServeConn(ctx context.Context, conn transport.Conn)
	ConnectionCount() int
}

// LobbyHandler exposes lobby state and the WebSocket game endpoint
type LobbyHandler struct {
	authService     *auth.Service
	lobbyController *lobby.Controller
	connServer      ConnServer
	logger          *slog.Logger
}

// NewLobbyHandler creates a new lobby handler
func NewLobbyHandler(authService *auth.Service, lobbyController *lobby.Controller, connServer ConnServer, logger *slog.Logger) *LobbyHandler {
	return &LobbyHandler{
		authService:     authService,
		lobbyController: lobbyController,
		connServer:      connServer,
		logger:          logger,
	}
}

// Games handles GET /api/v1/games
func (h *LobbyHandler) Games(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.GamesFromModel(h.lobbyController.OpenGames()))
}

// Stats handles GET /api/v1/stats
func (h *LobbyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.authService.AccountCount(r.Context())
	if err != nil {
		h.logger.Error("failed to count accounts", slog.String("error", err.Error()))
		WriteError(w, NewInternalError())
		return
	}

	stats := h.lobbyController.Stats()
	response.JSON(w, http.StatusOK, response.Stats{
		Connections:   h.connServer.ConnectionCount(),
		Authenticated: stats.Authenticated,
		Waiting:       stats.Waiting,
		ActiveGames:   stats.ActiveGames,
		Accounts:      accounts,
	})
}

// Socket handles GET /ws, running the game protocol over a WebSocket
func (h *LobbyHandler) Socket(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.Upgrade(w, r)
	if err != nil {
		// The upgrader has already written an error response
		h.logger.Info("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	h.connServer.ServeConn(r.Context(), conn)
}
