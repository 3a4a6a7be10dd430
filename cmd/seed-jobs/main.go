package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tics/site-backend-go/internal/config"
	"github.com/tics/site-backend-go/internal/database"
	"github.com/tics/site-backend-go/internal/repository"
	"github.com/tics/site-backend-go/internal/service"
)

// seed-jobs replaces every job posting with the default board.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid database configuration")
	}
	defer db.Close()

	ctx := context.Background()
	if !db.WaitReady(ctx, config.DBConnectAttempts, config.DBConnectInterval) {
		log.Fatal().Msg("database not reachable")
	}
	log.Info().Msg("connected to database")

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	n, err := service.ReplaceJobs(ctx, db, repository.NewJobRepository(db), service.DefaultJobs())
	if err != nil {
		log.Fatal().Err(err).Msg("error seeding jobs")
	}
	log.Info().Int("count", n).Msg("successfully seeded jobs")
}
