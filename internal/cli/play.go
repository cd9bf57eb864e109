package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/tictactoe-go/internal/transport"
	"github.com/mcoot/tictactoe-go/internal/transport/tcp"
	"github.com/mcoot/tictactoe-go/internal/transport/ws"
)

func newPlayCmd() *cobra.Command {
	var user, pass, join string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Log in and play a game interactively",
		Long: `Log in, then either wait for the next opponent or join a waiting
player's game with --join. Moves and chat are read from standard input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" || pass == "" {
				return fmt.Errorf("--user and --pass are required")
			}

			ctx := cmd.Context()
			var conn transport.Conn
			if cfg.UseWS {
				url, err := cfg.WebSocketURL()
				if err != nil {
					return err
				}
				c, err := ws.Dial(ctx, url)
				if err != nil {
					return err
				}
				conn = c
			} else {
				c, err := tcp.Dial(ctx, cfg.Addr)
				if err != nil {
					return err
				}
				conn = c
			}
			defer func() { _ = conn.Close() }()

			session := NewSession(conn, cmd.OutOrStdout())
			if err := session.Login(ctx, user, pass); err != nil {
				return err
			}
			if _, err := session.Start(ctx, join); err != nil {
				return err
			}
			return session.Play(ctx, cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	cmd.Flags().StringVar(&join, "join", "", "Join this waiting game instead of queuing")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}
