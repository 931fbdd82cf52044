package main

import (
	"rentfy/config"
	"rentfy/di"
	"rentfy/helper"
	"rentfy/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Rentfy API
// @version 1.0
// @description Booking lifecycle service of the Rentfy rental marketplace.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
