package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/contentapi/internal/core/domain"
)

// AuthRepository is the session store for issued refresh tokens.
type AuthRepository interface {
	StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error
	// GetRefreshToken returns nil, nil when the token is unknown.
	GetRefreshToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

type TokenClaims struct {
	Subject   string
	Role      domain.Role
	ExpiresAt time.Time
}

type TokenIssuer interface {
	IssueAccessToken(userID string, role domain.Role) (string, error)
	IssueRefreshToken(userID string) (string, error)
	VerifyAccess(token string) (*TokenClaims, error)
	VerifyRefresh(token string) (*TokenClaims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type RegisterInput struct {
	Email    string
	Password string
	Name     *string
	Role     string
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	Role         domain.Role
}

type Profile struct {
	ID    string      `json:"id"`
	Role  domain.Role `json:"role"`
	Email string      `json:"email"`
	Name  *string     `json:"name,omitempty"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, identity domain.Identity) (*Profile, error)
	// Authenticate verifies an access token and returns the identity it carries.
	Authenticate(accessToken string) (*domain.Identity, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

type SweepService interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// RateLimiter spends one unit of a client's budget per call. When the
// budget is exhausted it returns domain.ErrRateLimited with the wait until
// the next window.
type RateLimiter interface {
	Allow(ctx context.Context, client string) (time.Duration, error)
}
