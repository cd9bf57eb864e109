package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/mcoot/tictactoe-go/internal/api"
	"github.com/mcoot/tictactoe-go/internal/factory"
	"github.com/mcoot/tictactoe-go/internal/services/auth"
	redisstorage "github.com/mcoot/tictactoe-go/internal/storage/redis"
	"github.com/mcoot/tictactoe-go/internal/transport/tcp"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(),
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
		AuthConfig:  auth.DefaultConfig(),
	}

	if cost := os.Getenv("BCRYPT_COST"); cost != "" {
		n, err := strconv.Atoi(cost)
		if err != nil {
			logger.Error("invalid BCRYPT_COST", slog.String("value", cost))
			os.Exit(1)
		}
		cfg.AuthConfig.BcryptCost = n
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer app.Close()

	// Open the line-protocol listener
	tcpAddr := os.Getenv("TTT_TCP_ADDR")
	if tcpAddr == "" {
		tcpAddr = tcp.DefaultAddr
	}
	listener, err := tcp.Listen(tcpAddr)
	if err != nil {
		logger.Error("failed to listen", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create HTTP server for the API and WebSocket endpoint
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		AuthService:     app.AuthService,
		LobbyController: app.LobbyController,
		ConnServer:      app.Server,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = os.Getenv("TTT_HTTP_HOST")
	if port := os.Getenv("TTT_HTTP_PORT"); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			logger.Error("invalid TTT_HTTP_PORT", slog.String("value", port))
			os.Exit(1)
		}
		serverConfig.Port = n
	}
	httpServer := api.NewServer(apiRouter, serverConfig, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start servers in goroutines
	errCh := make(chan error, 2)
	go func() {
		errCh <- app.Server.Serve(ctx, listener)
	}()
	go func() {
		errCh <- httpServer.Start()
	}()

	logger.Info("server started",
		slog.String("tcp_addr", listener.Addr().String()),
		slog.String("http_addr", httpServer.Addr()),
	)

	// Wait for shutdown or error
	exitCode := 0
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			exitCode = 1
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	_ = listener.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		exitCode = 1
	}
	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		exitCode = 1
	}

	logger.Info("server stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// logLevel reads LOG_LEVEL (debug, info, warn, error), defaulting to info
func logLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
		return slog.LevelInfo
	}
	return level
}
