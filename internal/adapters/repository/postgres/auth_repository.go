package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vncsmyrnk/contentapi/internal/core/domain"
	"github.com/vncsmyrnk/contentapi/internal/core/ports"
)

type AuthRepository struct {
	client *Client
}

func NewAuthRepository(client *Client) ports.AuthRepository {
	return &AuthRepository{client: client}
}

func (r *AuthRepository) StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	err := r.client.db.QueryRowContext(ctx, query, token.Token, token.UserID, token.ExpiresAt).Scan(&token.CreatedAt)
	if err != nil {
		return storeError(fmt.Errorf("failed to insert refresh token: %w", err))
	}
	return nil
}

func (r *AuthRepository) GetRefreshToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT token, user_id, expires_at, created_at
		FROM refresh_tokens
		WHERE token = $1
	`
	rt := &domain.RefreshToken{}
	err := r.client.db.QueryRowContext(ctx, query, token).Scan(&rt.Token, &rt.UserID, &rt.ExpiresAt, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError(fmt.Errorf("failed to get refresh token: %w", err))
	}
	return rt, nil
}

func (r *AuthRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	if _, err := r.client.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token); err != nil {
		return storeError(fmt.Errorf("failed to delete refresh token: %w", err))
	}
	return nil
}

func (r *AuthRepository) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	res, err := r.client.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, storeError(fmt.Errorf("failed to delete expired refresh tokens: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeError(fmt.Errorf("failed to read affected rows: %w", err))
	}
	return n, nil
}
