package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/vncsmyrnk/contentapi/internal/adapters/password"
	"github.com/vncsmyrnk/contentapi/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/contentapi/internal/adapters/token"
	"github.com/vncsmyrnk/contentapi/internal/core/services"
)

// seedadmin creates the first admin account. Registration never grants the
// admin role, so this is how one is obtained.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found")
	}

	var dbURL, email, pass, name string
	flag.StringVar(&dbURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection string")
	flag.StringVar(&email, "email", os.Getenv("ADMIN_EMAIL"), "Admin email")
	flag.StringVar(&pass, "password", os.Getenv("ADMIN_PASSWORD"), "Admin password")
	flag.StringVar(&name, "name", os.Getenv("ADMIN_NAME"), "Admin display name (optional)")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, postgres.Config{URL: dbURL})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Only the user store is touched; the issuer is required by the service
	// but never signs anything here.
	issuer, err := token.NewIssuer("unused")
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	authSvc := services.NewAuthService(
		postgres.NewUserRepository(db),
		postgres.NewAuthRepository(db),
		issuer,
		password.NewHasher(password.DefaultCost),
	)

	var displayName *string
	if name != "" {
		displayName = &name
	}

	user, created, err := authSvc.EnsureAdmin(ctx, email, pass, displayName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin")
	}
	if !created {
		log.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("user already exists, nothing to do")
		return
	}
	log.Info().Str("email", user.Email).Str("id", user.ID.String()).Msg("admin created")
}
