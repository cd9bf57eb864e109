package response

import (
	"time"

	"github.com/mcoot/tictactoe-go/internal/model"
)

// Health is the response for the health endpoint
type Health struct {
	Status string `json:"status"`
}

// Account represents an account in API responses. The credential is never
// included.
type Account struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountFromModel converts a model.Account
func AccountFromModel(a *model.Account) Account {
	return Account{
		Username:  string(a.Username),
		CreatedAt: a.CreatedAt,
	}
}

// OpenGame is a game waiting for a second player
type OpenGame struct {
	GameID   string    `json:"game_id"`
	Player1  string    `json:"player1"`
	Status   string    `json:"status"`
	QueuedAt time.Time `json:"queued_at"`
}

// GamesResponse lists open games
type GamesResponse struct {
	Games []OpenGame `json:"games"`
}

// GamesFromModel converts open games, always returning a non-nil list
func GamesFromModel(open []model.OpenGame) GamesResponse {
	games := make([]OpenGame, 0, len(open))
	for _, g := range open {
		games = append(games, OpenGame{
			GameID:   string(g.ID),
			Player1:  string(g.Player1),
			Status:   "waiting",
			QueuedAt: g.QueuedAt,
		})
	}
	return GamesResponse{Games: games}
}

// Stats summarizes server state
type Stats struct {
	Connections   int `json:"connections"`
	Authenticated int `json:"authenticated"`
	Waiting       int `json:"waiting"`
	ActiveGames   int `json:"active_games"`
	Accounts      int `json:"accounts"`
}
