package services

import (
	"context"
	"fmt"
	"time"

	"github.com/vncsmyrnk/contentapi/internal/core/ports"
)

type sweepService struct {
	authRepo ports.AuthRepository
	now      func() time.Time
}

func NewSweepService(authRepo ports.AuthRepository) ports.SweepService {
	return &sweepService{
		authRepo: authRepo,
		now:      time.Now,
	}
}

// PurgeExpiredSessions removes refresh tokens past their expiry. Refresh
// already rejects them lazily; this only reclaims the rows.
func (s *sweepService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.authRepo.DeleteExpiredRefreshTokens(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired sessions: %w", err)
	}
	return n, nil
}
