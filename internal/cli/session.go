package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mcoot/tictactoe-go/internal/protocol"
	"github.com/mcoot/tictactoe-go/internal/transport"
)

// ErrConnectionClosed is returned when the server goes away mid-session
var ErrConnectionClosed = errors.New("connection closed by server")

var errHelp = errors.New("help requested")

const playHelp = `Commands:
  0-8         place your symbol on that cell
  say <text>  chat with your opponent
  leave       leave the game and exit
  help        show this help`

// Session drives one player's game over a protocol connection
type Session struct {
	conn  transport.Conn
	out   io.Writer
	inbox chan protocol.ServerMessage
}

// NewSession starts reading server messages from conn
func NewSession(conn transport.Conn, out io.Writer) *Session {
	s := &Session{
		conn:  conn,
		out:   out,
		inbox: make(chan protocol.ServerMessage, 64),
	}
	go s.readLoop()
	return s
}

func (s *Session) readLoop() {
	defer close(s.inbox)
	for {
		data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		msg, err := protocol.DecodeServer(data)
		if err != nil {
			continue
		}
		s.inbox <- msg
	}
}

func (s *Session) send(msg protocol.ClientMessage) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(data)
}

func (s *Session) next(ctx context.Context) (protocol.ServerMessage, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case msg, ok := <-s.inbox:
		if !ok {
			return nil, ErrConnectionClosed
		}
		return msg, nil
	}
}

// Login authenticates the connection
func (s *Session) Login(ctx context.Context, username, password string) error {
	if err := s.send(protocol.Login{Username: username, Password: password}); err != nil {
		return err
	}

	for {
		msg, err := s.next(ctx)
		if err != nil {
			return err
		}
		switch m := msg.(type) {
		case protocol.LoginResponse:
			if !m.Success {
				return fmt.Errorf("login failed: %s", m.Message)
			}
			fmt.Fprintf(s.out, "Logged in as %s\n", m.Username)
			return nil
		case protocol.Error:
			return fmt.Errorf("login failed: %s", m.Message)
		}
	}
}

// Start joins gameID, or the matchmaking queue if gameID is empty, and
// waits for the game to begin
func (s *Session) Start(ctx context.Context, gameID string) (protocol.GameStart, error) {
	var req protocol.ClientMessage = protocol.CreateGame{}
	if gameID != "" {
		req = protocol.JoinGame{GameID: gameID}
	}
	if err := s.send(req); err != nil {
		return protocol.GameStart{}, err
	}

	for {
		msg, err := s.next(ctx)
		if err != nil {
			return protocol.GameStart{}, err
		}
		switch m := msg.(type) {
		case protocol.Waiting:
			fmt.Fprintln(s.out, m.Message)
		case protocol.GameStart:
			fmt.Fprintf(s.out, "Game %s started. You are %s, playing against %s.\n", m.GameID, m.YourSymbol, m.Opponent)
			fmt.Fprint(s.out, RenderBoard(m.Board))
			fmt.Fprintf(s.out, "Turn: %s\n", m.CurrentTurn)
			return m, nil
		case protocol.Error:
			return protocol.GameStart{}, errors.New(m.Message)
		}
	}
}

// Play relays commands read from in and prints server messages until the
// player leaves, the opponent leaves or the connection drops
func (s *Session) Play(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(s.out, `Type "help" for commands.`)

	for {
		select {
		case <-ctx.Done():
			_ = s.send(protocol.LeaveGame{})
			return ctx.Err()

		case line, ok := <-lines:
			if !ok {
				return s.send(protocol.LeaveGame{})
			}
			msg, quit, err := ParseCommand(line)
			if errors.Is(err, errHelp) {
				fmt.Fprintln(s.out, playHelp)
				continue
			}
			if err != nil {
				fmt.Fprintln(s.out, err)
				continue
			}
			if msg != nil {
				if err := s.send(msg); err != nil {
					return err
				}
			}
			if quit {
				return nil
			}

		case msg, ok := <-s.inbox:
			if !ok {
				return ErrConnectionClosed
			}
			if done := s.show(msg); done {
				return nil
			}
		}
	}
}

// show prints one server message and reports whether the session is over
func (s *Session) show(msg protocol.ServerMessage) bool {
	switch m := msg.(type) {
	case protocol.GameUpdate:
		fmt.Fprintf(s.out, "%s played %d\n", m.Player, m.Position)
		fmt.Fprint(s.out, RenderBoard(m.Board))
		fmt.Fprintf(s.out, "Turn: %s\n", m.CurrentTurn)
	case protocol.GameOver:
		if m.Draw {
			fmt.Fprintln(s.out, "Game over: draw")
		} else {
			fmt.Fprintf(s.out, "Game over: %s wins\n", m.Winner)
		}
		fmt.Fprintln(s.out, `Type "leave" to exit.`)
	case protocol.InvalidMove:
		fmt.Fprintf(s.out, "Invalid move: %s\n", m.Message)
	case protocol.ChatBroadcast:
		fmt.Fprintf(s.out, "[%s] %s: %s\n", m.Timestamp, m.Username, m.Message)
	case protocol.OpponentLeft:
		fmt.Fprintln(s.out, m.Message)
		return true
	case protocol.Error:
		fmt.Fprintf(s.out, "Error: %s\n", m.Message)
	}
	return false
}

// ParseCommand turns one line of player input into a request. quit is
// true when the session should end after sending it.
func ParseCommand(line string) (msg protocol.ClientMessage, quit bool, err error) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return nil, false, nil
	case line == "help":
		return nil, false, errHelp
	case line == "leave" || line == "quit" || line == "exit":
		return protocol.LeaveGame{}, true, nil
	case strings.HasPrefix(line, "say "):
		text := strings.TrimSpace(strings.TrimPrefix(line, "say "))
		if text == "" {
			return nil, false, errors.New("nothing to say")
		}
		return protocol.Chat{Message: text}, false, nil
	}

	pos, convErr := strconv.Atoi(line)
	if convErr != nil {
		return nil, false, fmt.Errorf("unknown command %q, type \"help\" for commands", line)
	}
	return protocol.MoveTo(pos), false, nil
}
