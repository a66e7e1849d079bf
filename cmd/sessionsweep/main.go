package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/vncsmyrnk/contentapi/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/contentapi/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found")
	}

	var dbURL string
	var timeout time.Duration
	flag.StringVar(&dbURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection string")
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "Maximum job duration")
	flag.Parse()

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := postgres.Open(ctx, postgres.Config{URL: dbURL, QueryTimeout: timeout})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	sweeper := services.NewSweepService(postgres.NewAuthRepository(db))

	log.Info().Msg("starting expired session sweep")

	n, err := sweeper.PurgeExpiredSessions(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("session sweep failed")
	}

	log.Info().Int64("deleted", n).Msg("session sweep completed")
}
