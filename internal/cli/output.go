package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case AccountResult:
		o.printAccount(v)
	case GamesResult:
		o.printGames(v)
	case StatsResult:
		o.printStats(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// AccountResult response type (matches API)
type AccountResult struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// OpenGame response type
type OpenGame struct {
	GameID   string    `json:"game_id"`
	Player1  string    `json:"player1"`
	Status   string    `json:"status"`
	QueuedAt time.Time `json:"queued_at"`
}

// GamesResult response type
type GamesResult struct {
	Games []OpenGame `json:"games"`
}

// StatsResult response type
type StatsResult struct {
	Connections   int `json:"connections"`
	Authenticated int `json:"authenticated"`
	Waiting       int `json:"waiting"`
	ActiveGames   int `json:"active_games"`
	Accounts      int `json:"accounts"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printAccount(a AccountResult) {
	fmt.Fprintf(o.w, "Registered: %s\n", a.Username)
}

func (o *Output) printGames(g GamesResult) {
	if len(g.Games) == 0 {
		fmt.Fprintln(o.w, "No open games")
		return
	}
	fmt.Fprintf(o.w, "Open games (%d):\n", len(g.Games))
	for _, game := range g.Games {
		fmt.Fprintf(o.w, "  - %s by %s (%s)\n", game.GameID, game.Player1, game.Status)
	}
}

func (o *Output) printStats(s StatsResult) {
	fmt.Fprintf(o.w, "Connections: %d\n", s.Connections)
	fmt.Fprintf(o.w, "Logged in: %d\n", s.Authenticated)
	fmt.Fprintf(o.w, "Waiting: %d\n", s.Waiting)
	fmt.Fprintf(o.w, "Active games: %d\n", s.ActiveGames)
	fmt.Fprintf(o.w, "Accounts: %d\n", s.Accounts)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}

// RenderBoard draws a 3x3 board, numbering the empty cells
func RenderBoard(cells []string) string {
	var b strings.Builder
	for row := 0; row < 3; row++ {
		if row > 0 {
			b.WriteString("---+---+---\n")
		}
		for col := 0; col < 3; col++ {
			pos := row*3 + col
			cell := strconv.Itoa(pos)
			if pos < len(cells) && cells[pos] != "" {
				cell = cells[pos]
			}
			if col > 0 {
				b.WriteString("|")
			}
			b.WriteString(" " + cell + " ")
		}
		b.WriteString("\n")
	}
	return b.String()
}
