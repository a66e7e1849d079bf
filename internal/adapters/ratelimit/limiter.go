// Package ratelimit implements fixed-window request budgets on Redis.
//
// Each budget is a counter per client key: INCR on every hit, EXPIRE on the
// first hit of a window. Keys are "rl:<policy>:<client>".
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vncsmyrnk/contentapi/internal/core/domain"
	"github.com/vncsmyrnk/contentapi/internal/core/ports"
)

var ErrRedisUnavailable = errors.New("redis unavailable")

// Policy is a named budget of Limit hits per Window.
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
}

type Limiter struct {
	redis  redis.UniversalClient
	policy Policy
}

var _ ports.RateLimiter = (*Limiter)(nil)

func New(redisClient redis.UniversalClient, policy Policy) (*Limiter, error) {
	if redisClient == nil {
		return nil, errors.New("ratelimit: redis client is required")
	}
	if policy.Name == "" || policy.Limit <= 0 || policy.Window <= 0 {
		return nil, fmt.Errorf("ratelimit: invalid policy %+v", policy)
	}
	return &Limiter{
		redis:  redisClient,
		policy: policy,
	}, nil
}

// Allow records a hit for client. Once the budget is spent it returns
// domain.ErrRateLimited and the time until the window resets.
func (l *Limiter) Allow(ctx context.Context, client string) (time.Duration, error) {
	key := l.key(client)

	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.policy.Window).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	if count <= int64(l.policy.Limit) {
		return 0, nil
	}

	ttl, err := l.redis.TTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if ttl < 0 {
		// Counter lost its expiry; start a fresh window rather than block forever.
		if err := l.redis.Expire(ctx, key, l.policy.Window).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		ttl = l.policy.Window
	}
	return ttl, domain.ErrRateLimited
}

func (l *Limiter) key(client string) string {
	return "rl:" + l.policy.Name + ":" + client
}
