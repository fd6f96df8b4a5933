package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"logrouter/internal/config"
	"logrouter/internal/server"
)

func main() {
	// Best effort: local development keeps SLACK_URL etc. in a .env file.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := config.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, logger)
	logger.Info().Str("port", cfg.Port).Str("project", cfg.GCPProjectName).Msg("starting log alert router")
	if err := srv.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}
