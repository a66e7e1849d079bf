package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	handler "github.com/vncsmyrnk/contentapi/internal/adapters/handler/http"
	"github.com/vncsmyrnk/contentapi/internal/adapters/password"
	repo "github.com/vncsmyrnk/contentapi/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/contentapi/internal/adapters/token"
	"github.com/vncsmyrnk/contentapi/internal/core/ports"
	"github.com/vncsmyrnk/contentapi/internal/core/services"
)

type TestApp struct {
	DB          *repo.Client
	Server      *httptest.Server
	AuthSvc     *services.AuthService
	SweepSvc    ports.SweepService
	DBContainer testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	ctx := context.Background()

	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := repo.Open(ctx, repo.Config{URL: dbURL, QueryTimeout: 5 * time.Second})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx))

	issuer, err := token.NewIssuer("test-secret")
	require.NoError(t, err)

	userRepo := repo.NewUserRepository(db)
	authRepo := repo.NewAuthRepository(db)

	authSvc := services.NewAuthService(userRepo, authRepo, issuer, password.NewHasher(bcrypt.MinCost))
	router := handler.NewHandler(handler.RouterConfig{
		AuthService: authSvc,
		Auth:        handler.NewAuthHandler(authSvc, handler.NewCookiePolicy(false, "")),
		Users:       handler.NewUserHandler(services.NewUserService(userRepo)),
		Posts:       handler.NewPostHandler(services.NewPostService(repo.NewPostRepository(db))),
		Health:      handler.NewHealthHandler(db, "test"),
		Logger:      zerolog.Nop(),
	})

	return &TestApp{
		DB:          db,
		Server:      httptest.NewServer(router),
		AuthSvc:     authSvc,
		SweepSvc:    services.NewSweepService(authRepo),
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

// NewClient returns a client with its own cookie jar, standing in for one
// browser session.
func (app *TestApp) NewClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func (app *TestApp) SeedAdmin(t *testing.T, email, pw string) {
	t.Helper()
	_, created, err := app.AuthSvc.EnsureAdmin(context.Background(), email, pw, nil)
	require.NoError(t, err)
	require.True(t, created)
}
