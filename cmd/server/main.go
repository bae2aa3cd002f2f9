package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/hotshelf/backend/internal/infrastructure/config"
	"github.com/hotshelf/backend/internal/infrastructure/logging"
	"github.com/hotshelf/backend/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.NewDefault().Fatal("invalid configuration", zap.Error(err))
	}

	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		logging.NewDefault().Fatal("invalid log configuration", zap.Error(err))
	}
	defer log.Sync()

	srv, err := server.New(cfg, log)
	if err != nil {
		log.Fatal("failed to build server", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
