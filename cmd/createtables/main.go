package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/jcarranz97/colony/internal/config"
	"github.com/jcarranz97/colony/internal/db"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	log.Info().Msg("creating database tables")
	if _, err := pool.Exec(ctx, db.Schema); err != nil {
		log.Fatal().Err(err).Msg("create tables")
	}
	log.Info().Msg("tables created successfully")
}
