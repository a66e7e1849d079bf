package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vncsmyrnk/contentapi/internal/adapters/password"
	"github.com/vncsmyrnk/contentapi/internal/adapters/repository/repofake"
	"github.com/vncsmyrnk/contentapi/internal/adapters/token"
	"github.com/vncsmyrnk/contentapi/internal/core/domain"
	"github.com/vncsmyrnk/contentapi/internal/core/services"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type testApp struct {
	server *httptest.Server
	users  *repofake.FakeUserRepo
	auth   *repofake.FakeAuthRepo
	posts  *repofake.FakePostRepo
	hasher *password.Hasher
	issuer *token.Issuer
}

func newTestApp(t *testing.T, opts ...func(*RouterConfig)) *testApp {
	t.Helper()

	issuer, err := token.NewIssuer("test-secret")
	require.NoError(t, err)

	app := &testApp{
		users:  repofake.NewFakeUserRepo(),
		auth:   repofake.NewFakeAuthRepo(),
		hasher: password.NewHasher(bcrypt.MinCost),
		issuer: issuer,
	}
	app.posts = repofake.NewFakePostRepo(app.users)

	authSvc := services.NewAuthService(app.users, app.auth, issuer, app.hasher)
	cfg := RouterConfig{
		AuthService: authSvc,
		Auth:        NewAuthHandler(authSvc, NewCookiePolicy(false, "")),
		Users:       NewUserHandler(services.NewUserService(app.users)),
		Posts:       NewPostHandler(services.NewPostService(app.posts)),
		Health:      NewHealthHandler(pingerFunc(func(context.Context) error { return nil }), "test"),
		Logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	app.server = httptest.NewServer(NewHandler(cfg))
	t.Cleanup(app.server.Close)
	return app
}

// client returns an HTTP client with its own cookie jar.
func (a *testApp) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func (a *testApp) request(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, a.server.URL+path, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func (a *testApp) do(t *testing.T, c *http.Client, method, path string, body any) *http.Response {
	t.Helper()
	resp, err := c.Do(a.request(t, method, path, body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *testApp) seedUser(t *testing.T, email, pw string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := a.hasher.Hash(pw)
	require.NoError(t, err)
	user := &domain.User{ID: uuid.New(), Email: email, PasswordHash: hash, Role: role}
	require.NoError(t, a.users.Create(context.Background(), user))
	return user
}

// login returns a client holding the session cookies for email.
func (a *testApp) login(t *testing.T, email, pw string) *http.Client {
	t.Helper()
	c := a.client(t)
	resp := a.do(t, c, http.MethodPost, "/api/login", map[string]string{"email": email, "password": pw})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return c
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func tokenIssuerAt(at time.Time) (*token.Issuer, error) {
	return token.NewIssuer("test-secret", token.WithClock(func() time.Time { return at }))
}
