package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/contentapi/internal/core/domain"
)

func TestAuthRepository_StoreRefreshToken(t *testing.T) {
	client, mock := newMockClient(t)
	repo := NewAuthRepository(client)

	rt := &domain.RefreshToken{Token: "tok", UserID: uuid.New(), ExpiresAt: time.Now().Add(time.Hour)}
	mock.ExpectQuery(`INSERT INTO refresh_tokens \(token, user_id, expires_at\)`).
		WithArgs("tok", rt.UserID, rt.ExpiresAt).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	require.NoError(t, repo.StoreRefreshToken(context.Background(), rt))
	assert.False(t, rt.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthRepository_GetRefreshToken(t *testing.T) {
	client, mock := newMockClient(t)
	repo := NewAuthRepository(client)

	userID := uuid.New()
	expires := time.Now().Add(time.Hour)
	mock.ExpectQuery(`SELECT token, user_id, expires_at, created_at\s+FROM refresh_tokens\s+WHERE token = \$1`).
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"token", "user_id", "expires_at", "created_at"}).
			AddRow("tok", userID.String(), expires, time.Now()))

	rt, err := repo.GetRefreshToken(context.Background(), "tok")
	require.NoError(t, err)
	require.NotNil(t, rt)
	assert.Equal(t, userID, rt.UserID)
	assert.True(t, expires.Equal(rt.ExpiresAt))
}

func TestAuthRepository_GetRefreshToken_NotFound(t *testing.T) {
	client, mock := newMockClient(t)
	repo := NewAuthRepository(client)

	mock.ExpectQuery(`FROM refresh_tokens`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"token", "user_id", "expires_at", "created_at"}))

	rt, err := repo.GetRefreshToken(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, rt)
}

func TestAuthRepository_DeleteRefreshToken(t *testing.T) {
	client, mock := newMockClient(t)
	repo := NewAuthRepository(client)

	mock.ExpectExec(`DELETE FROM refresh_tokens WHERE token = \$1`).
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.DeleteRefreshToken(context.Background(), "tok"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthRepository_DeleteExpiredRefreshTokens(t *testing.T) {
	client, mock := newMockClient(t)
	repo := NewAuthRepository(client)

	now := time.Now()
	mock.ExpectExec(`DELETE FROM refresh_tokens WHERE expires_at <= \$1`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpiredRefreshTokens(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
