// Package token issues and verifies the HS256-signed access and refresh
// tokens carried in session cookies.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/contentapi/internal/core/domain"
	"github.com/vncsmyrnk/contentapi/internal/core/ports"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour

	typeAccess  = "access"
	typeRefresh = "refresh"
)

type claims struct {
	Role string `json:"role,omitempty"`
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// Issuer signs tokens with a single process-wide secret.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

var _ ports.TokenIssuer = (*Issuer)(nil)

type Option func(*Issuer)

func WithAccessTTL(d time.Duration) Option {
	return func(i *Issuer) {
		if d > 0 {
			i.accessTTL = d
		}
	}
}

func WithRefreshTTL(d time.Duration) Option {
	return func(i *Issuer) {
		if d > 0 {
			i.refreshTTL = d
		}
	}
}

// WithClock replaces time.Now for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

func NewIssuer(secret string, opts ...Option) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret is required")
	}
	i := &Issuer{
		secret:     []byte(secret),
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

func (i *Issuer) AccessTTL() time.Duration  { return i.accessTTL }
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

func (i *Issuer) IssueAccessToken(userID string, role domain.Role) (string, error) {
	return i.sign(claims{
		Role:             string(role),
		Type:             typeAccess,
		RegisteredClaims: i.registered(userID, i.accessTTL),
	})
}

// IssueRefreshToken carries no role. Each token gets a random ID so two
// logins within the same second still produce distinct session keys.
func (i *Issuer) IssueRefreshToken(userID string) (string, error) {
	rc := i.registered(userID, i.refreshTTL)
	rc.ID = uuid.NewString()
	return i.sign(claims{
		Type:             typeRefresh,
		RegisteredClaims: rc,
	})
}

// Verify checks signature and expiry of any token minted by this issuer.
func (i *Issuer) Verify(tokenString string) (*ports.TokenClaims, error) {
	c, err := i.parse(tokenString)
	if err != nil {
		return nil, err
	}
	return toPortClaims(c), nil
}

func (i *Issuer) VerifyAccess(tokenString string) (*ports.TokenClaims, error) {
	c, err := i.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if c.Type != typeAccess {
		return nil, fmt.Errorf("%w: not an access token", domain.ErrInvalidSignature)
	}
	role := domain.Role(c.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidSignature, c.Role)
	}
	return toPortClaims(c), nil
}

func (i *Issuer) VerifyRefresh(tokenString string) (*ports.TokenClaims, error) {
	c, err := i.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if c.Type != typeRefresh {
		return nil, fmt.Errorf("%w: not a refresh token", domain.ErrInvalidSignature)
	}
	return toPortClaims(c), nil
}

func (i *Issuer) registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := i.now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (i *Issuer) sign(c claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(i.secret)
}

func (i *Issuer) parse(tokenString string) (*claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid || c.Subject == "" {
		return nil, domain.ErrInvalidSignature
	}
	return c, nil
}

func toPortClaims(c *claims) *ports.TokenClaims {
	out := &ports.TokenClaims{
		Subject: c.Subject,
		Role:    domain.Role(c.Role),
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}
