package main

import (
	"context"
	"os"
	"os/signal"
	"rentfy/config"
	"rentfy/di"
	"rentfy/shared/logger"
	"syscall"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := di.InitializeWorker()

	worker.Run(ctx)

	if err := worker.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close Kafka client")
	}
}
