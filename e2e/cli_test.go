package e2e_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tictactoe-go/internal/api"
	"github.com/mcoot/tictactoe-go/internal/factory"
	"github.com/mcoot/tictactoe-go/internal/protocol"
	"github.com/mcoot/tictactoe-go/internal/services/auth"
	"github.com/mcoot/tictactoe-go/internal/testutil"
	"github.com/mcoot/tictactoe-go/internal/transport/tcp"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tcpAddr    string
}

func newCLIRunner(t *testing.T, ts *testServer) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "tttctl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/tttctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  ts.httpURL,
		tcpAddr:    ts.tcpAddr,
	}
}

func (r *cliRunner) command(stdin string, args ...string) *exec.Cmd {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--addr", r.tcpAddr,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Stdin = strings.NewReader(stdin)
	return cmd
}

func (r *cliRunner) run(args ...string) (string, error) {
	output, err := r.command("", args...).CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages real HTTP and TCP servers for e2e tests
type testServer struct {
	httpURL  string
	tcpAddr  string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := testutil.NopLogger()

	// Create application
	app, err := factory.New(factory.Config{
		Logger:     logger,
		AuthConfig: auth.Config{BcryptCost: 4},
	})
	require.NoError(t, err)

	// Game protocol listener
	listener, err := tcp.Listen("127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = app.Server.Serve(ctx, listener) }()

	// HTTP API
	httpListener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := &http.Server{
		Handler: api.NewRouter(api.RouterConfig{
			Logger:          logger,
			AuthService:     app.AuthService,
			LobbyController: app.LobbyController,
			ConnServer:      app.Server,
		}),
	}

	go func() {
		if err := server.Serve(httpListener); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + httpListener.Addr().String()
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		httpURL: serverURL,
		tcpAddr: listener.Addr().String(),
		shutdown: func() {
			cancel()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = server.Shutdown(shutdownCtx)
			_ = app.Server.Shutdown(shutdownCtx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// protocolPeer is a raw game protocol client used as the other player
type protocolPeer struct {
	t    *testing.T
	conn *tcp.Conn
}

func dialPeer(t *testing.T, addr string) *protocolPeer {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := tcp.Dial(ctx, addr)
	require.NoError(t, err)
	return &protocolPeer{t: t, conn: conn}
}

func (p *protocolPeer) send(msg protocol.ClientMessage) {
	data, err := protocol.Encode(msg)
	require.NoError(p.t, err)
	require.NoError(p.t, p.conn.WriteMessage(data))
}

func (p *protocolPeer) next() protocol.ServerMessage {
	data, err := p.conn.ReadMessage()
	require.NoError(p.t, err)
	msg, err := protocol.DecodeServer(data)
	require.NoError(p.t, err)
	return msg
}

// Response types for JSON parsing
type accountResponse struct {
	Username string `json:"username"`
}

type gamesResponse struct {
	Games []struct {
		GameID  string `json:"game_id"`
		Player1 string `json:"player1"`
		Status  string `json:"status"`
	} `json:"games"`
}

type statsResponse struct {
	Connections int `json:"connections"`
	Waiting     int `json:"waiting"`
	ActiveGames int `json:"active_games"`
	Accounts    int `json:"accounts"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_Register(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts)

	output, err := cli.run("register", "--user", "alice", "--pass", "secret")
	require.NoError(t, err, "output: %s", output)

	var resp accountResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "alice", resp.Username)

	// Duplicate registration fails
	output, err = cli.run("register", "--user", "alice", "--pass", "other")
	assert.Error(t, err)
	assert.Contains(t, output, "USERNAME_EXISTS")
}

func TestCLI_PlayAgainstWaitingPlayer(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts)

	for _, name := range []string{"alice", "bob"} {
		output, err := cli.run("register", "--user", name, "--pass", name+"-pw")
		require.NoError(t, err, "output: %s", output)
	}

	// bob waits over the raw protocol
	bob := dialPeer(t, ts.tcpAddr)
	defer bob.conn.Close()
	bob.send(protocol.Login{Username: "bob", Password: "bob-pw"})
	require.True(t, bob.next().(protocol.LoginResponse).Success)
	bob.send(protocol.CreateGame{})
	require.IsType(t, protocol.Waiting{}, bob.next())

	// The CLI sees bob's open game
	output, err := cli.run("games")
	require.NoError(t, err, "output: %s", output)

	var games gamesResponse
	require.NoError(t, json.Unmarshal([]byte(output), &games))
	require.Len(t, games.Games, 1)
	assert.Equal(t, "bob", games.Games[0].Player1)

	// alice joins it, chats, and leaves
	play := cli.command("say hi bob\nleave\n",
		"play", "--user", "alice", "--pass", "alice-pw", "--join", games.Games[0].GameID)
	out, err := play.CombinedOutput()
	require.NoError(t, err, "output: %s", out)
	assert.Contains(t, string(out), "Logged in as alice")
	assert.Contains(t, string(out), "You are O, playing against bob")

	start := bob.next().(protocol.GameStart)
	assert.Equal(t, "X", start.YourSymbol)
	assert.Equal(t, "alice", start.Opponent)

	chat := bob.next().(protocol.ChatBroadcast)
	assert.Equal(t, "alice", chat.Username)
	assert.Equal(t, "hi bob", chat.Message)

	assert.Equal(t, protocol.OpponentLeft{Message: "alice has left the game"}, bob.next())

	// Nothing is left running
	output, err = cli.run("stats")
	require.NoError(t, err, "output: %s", output)

	var stats statsResponse
	require.NoError(t, json.Unmarshal([]byte(output), &stats))
	assert.Equal(t, 0, stats.ActiveGames)
	assert.Equal(t, 0, stats.Waiting)
	assert.Equal(t, 2, stats.Accounts)
}
