package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/contentapi/internal/core/domain"
	"github.com/vncsmyrnk/contentapi/internal/core/ports"
)

type AuthService struct {
	userRepo ports.UserRepository
	authRepo ports.AuthRepository
	tokens   ports.TokenIssuer
	hasher   ports.PasswordHasher
	now      func() time.Time
}

func NewAuthService(userRepo ports.UserRepository, authRepo ports.AuthRepository, tokens ports.TokenIssuer, hasher ports.PasswordHasher) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		authRepo: authRepo,
		tokens:   tokens,
		hasher:   hasher,
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if err := validateStruct(registerRules{Email: input.Email, Password: input.Password}); err != nil {
		return nil, err
	}
	name, err := normalizeName(input.Name)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: hash,
		Name:         name,
		Role:         domain.RegistrationRole(input.Role),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if err := validateStruct(loginRules{Email: email, Password: password}); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnknownEmail
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, domain.ErrWrongPassword
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID.String(), user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	rtEntity := &domain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.tokens.RefreshTTL()),
	}
	if err := s.authRepo.StoreRefreshToken(ctx, rtEntity); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &ports.LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Role:         user.Role,
	}, nil
}

// RefreshAccessToken mints a new access token from the session owner's
// current role. The refresh token itself is not rotated.
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", domain.ErrNoSession
	}
	if _, err := s.tokens.VerifyRefresh(refreshToken); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrNoSession, err)
	}

	rtEntity, err := s.authRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to get refresh token: %w", err)
	}
	if rtEntity == nil {
		return "", domain.ErrNoSession
	}
	if rtEntity.Expired(s.now()) {
		if err := s.authRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
			return "", fmt.Errorf("failed to delete expired refresh token: %w", err)
		}
		return "", domain.ErrNoSession
	}

	user, err := s.userRepo.GetByID(ctx, rtEntity.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", domain.ErrNoSession
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID.String(), user.Role)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return accessToken, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.authRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, identity domain.Identity) (*ports.Profile, error) {
	id, err := uuid.Parse(identity.ID)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	// Role comes from the token so /me reports what the gate enforces.
	return &ports.Profile{
		ID:    identity.ID,
		Role:  identity.Role,
		Email: user.Email,
		Name:  user.Name,
	}, nil
}

func (s *AuthService) Authenticate(accessToken string) (*domain.Identity, error) {
	if accessToken == "" {
		return nil, domain.ErrUnauthenticated
	}
	claims, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}
	return &domain.Identity{ID: claims.Subject, Role: claims.Role}, nil
}

func (s *AuthService) AccessTTL() time.Duration {
	return s.tokens.AccessTTL()
}

func (s *AuthService) RefreshTTL() time.Duration {
	return s.tokens.RefreshTTL()
}

// EnsureAdmin creates an admin account unless email is already taken. It
// reports whether a user was created. An existing account is returned as
// is, whatever its role.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string, name *string) (*domain.User, bool, error) {
	if err := validateStruct(registerRules{Email: email, Password: password}); err != nil {
		return nil, false, err
	}
	name, err := normalizeName(name)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         domain.RoleAdmin,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("failed to create admin: %w", err)
	}
	return user, true, nil
}
