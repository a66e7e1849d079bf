package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/contentapi/internal/adapters/repository/repofake"
	"github.com/vncsmyrnk/contentapi/internal/core/domain"
)

func TestSweepService_PurgeExpiredSessions(t *testing.T) {
	repo := repofake.NewFakeAuthRepo()
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.StoreRefreshToken(ctx, &domain.RefreshToken{Token: "live", UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, repo.StoreRefreshToken(ctx, &domain.RefreshToken{Token: "old-1", UserID: userID, ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, repo.StoreRefreshToken(ctx, &domain.RefreshToken{Token: "old-2", UserID: userID, ExpiresAt: time.Now().Add(-time.Hour)}))

	n, err := NewSweepService(repo).PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	live, err := repo.GetRefreshToken(ctx, "live")
	require.NoError(t, err)
	assert.NotNil(t, live)
}

func TestSweepService_Error(t *testing.T) {
	repo := repofake.NewFakeAuthRepo()
	repo.Err = domain.ErrStoreUnavailable

	_, err := NewSweepService(repo).PurgeExpiredSessions(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
