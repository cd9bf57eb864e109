package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/transport"
)

// Server runs one receive loop per connection and feeds the Router
type Server struct {
	router *Router
	conns  *ConnectionManager
	logger *slog.Logger

	wg sync.WaitGroup
}

// New creates a new Server
func New(router *Router, conns *ConnectionManager, logger *slog.Logger) *Server {
	return &Server{
		router: router,
		conns:  conns,
		logger: logger.With(slog.String("component", "server")),
	}
}

// Serve accepts connections from ln until ln is closed or ctx is done.
// It closes ln on return.
func (s *Server) Serve(ctx context.Context, ln transport.Listener) error {
	s.logger.Info("accepting connections", slog.String("addr", ln.Addr().String()))

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()
	defer ln.Close()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.ServeConn(ctx, conn)
		}()
	}
}

// ServeConn runs the receive loop for one connection until the peer goes
// away, then releases everything the connection held
func (s *Server) ServeConn(ctx context.Context, conn transport.Conn) {
	client := newClient(model.ConnID(uuid.NewString()), conn, s.logger)
	s.conns.Add(client)
	defer s.router.Disconnect(client)

	s.logger.Info("client connected",
		slog.String("conn_id", string(client.ID())),
		slog.String("remote_addr", conn.RemoteAddr()),
	)

	go client.writePump()

	for {
		data, err := conn.ReadMessage()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				s.logger.Debug("connection closed", slog.String("conn_id", string(client.ID())))
			} else {
				s.logger.Info("read failed",
					slog.String("conn_id", string(client.ID())),
					slog.String("error", err.Error()),
				)
			}
			return
		}
		s.router.Handle(ctx, client, data)
	}
}

// ConnectionCount returns the number of live connections
func (s *Server) ConnectionCount() int {
	return s.conns.Len()
}

// Shutdown closes every live connection and waits for their loops to
// finish or ctx to expire
func (s *Server) Shutdown(ctx context.Context) error {
	for _, c := range s.conns.All() {
		c.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("all connections closed")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
