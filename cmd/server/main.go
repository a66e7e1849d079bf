package main

import (
	"context"
	"errors"
	"flag"
	"net"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vncsmyrnk/contentapi/internal/adapters/handler/http"
	"github.com/vncsmyrnk/contentapi/internal/adapters/password"
	"github.com/vncsmyrnk/contentapi/internal/adapters/ratelimit"
	"github.com/vncsmyrnk/contentapi/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/contentapi/internal/adapters/token"
	"github.com/vncsmyrnk/contentapi/internal/config"
	"github.com/vncsmyrnk/contentapi/internal/core/ports"
	"github.com/vncsmyrnk/contentapi/internal/core/services"
	"github.com/vncsmyrnk/contentapi/internal/platform/logger"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply pending migrations before serving")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	appLog := logger.New(cfg.Env, cfg.LogLevel)

	if err := run(cfg, appLog, *migrate); err != nil {
		appLog.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, appLog zerolog.Logger, migrate bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, postgres.Config{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		QueryTimeout:    cfg.QueryTimeout,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if migrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		appLog.Info().Msg("migrations applied")
	}

	issuer, err := token.NewIssuer(cfg.JWTSecret,
		token.WithAccessTTL(cfg.AccessTokenTTL),
		token.WithRefreshTTL(cfg.RefreshTokenTTL),
	)
	if err != nil {
		return err
	}

	userRepo := postgres.NewUserRepository(db)
	authRepo := postgres.NewAuthRepository(db)
	postRepo := postgres.NewPostRepository(db)

	authSvc := services.NewAuthService(userRepo, authRepo, issuer, password.NewHasher(password.DefaultCost))
	userSvc := services.NewUserService(userRepo)
	postSvc := services.NewPostService(postRepo)
	sweepSvc := services.NewSweepService(authRepo)

	routerCfg := http.RouterConfig{
		AuthService: authSvc,
		Auth:        http.NewAuthHandler(authSvc, http.NewCookiePolicy(cfg.IsProduction(), cfg.CookieDomain)),
		Users:       http.NewUserHandler(userSvc),
		Posts:       http.NewPostHandler(postSvc),
		Health:      http.NewHealthHandler(db, cfg.Env),
		Logger:      appLog,
	}

	if cfg.RedisURL != "" {
		rdb, err := newRedis(ctx, cfg.RedisURL, appLog)
		if err != nil {
			return err
		}
		defer rdb.Close()

		if routerCfg.GlobalLimiter, err = ratelimit.New(rdb, ratelimit.Policy{
			Name: "global", Limit: cfg.GlobalRateLimit.Limit, Window: cfg.GlobalRateLimit.Window,
		}); err != nil {
			return err
		}
		if routerCfg.AuthLimiter, err = ratelimit.New(rdb, ratelimit.Policy{
			Name: "auth", Limit: cfg.AuthRateLimit.Limit, Window: cfg.AuthRateLimit.Window,
		}); err != nil {
			return err
		}
	} else {
		appLog.Warn().Msg("REDIS_URL not set, rate limiting disabled")
	}

	if cfg.SessionSweepInterval > 0 {
		go sweepSessions(ctx, sweepSvc, cfg.SessionSweepInterval, appLog)
	}

	server := &stdhttp.Server{
		Addr:              net.JoinHostPort("0.0.0.0", cfg.Port),
		Handler:           http.NewHandler(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	appLog.Info().Msg("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func newRedis(ctx context.Context, url string, appLog zerolog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		// The limiter fails open, so a cold Redis is not fatal.
		appLog.Warn().Err(err).Msg("redis not reachable at startup")
	}
	return rdb, nil
}

func sweepSessions(ctx context.Context, sweeper ports.SweepService, every time.Duration, appLog zerolog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sweeper.PurgeExpiredSessions(ctx)
			if err != nil {
				appLog.Error().Err(err).Msg("session sweep failed")
				continue
			}
			appLog.Info().Int64("deleted", n).Msg("expired sessions purged")
		}
	}
}
