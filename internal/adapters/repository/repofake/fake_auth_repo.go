package repofake

import (
	"context"
	"sync"
	"time"

	"github.com/vncsmyrnk/contentapi/internal/core/domain"
	"github.com/vncsmyrnk/contentapi/internal/core/ports"
)

var _ ports.AuthRepository = (*FakeAuthRepo)(nil)

type FakeAuthRepo struct {
	tokens map[string]*domain.RefreshToken
	lock   sync.RWMutex

	Err error
}

func NewFakeAuthRepo() *FakeAuthRepo {
	return &FakeAuthRepo{
		tokens: make(map[string]*domain.RefreshToken),
	}
}

func (r *FakeAuthRepo) StoreRefreshToken(_ context.Context, token *domain.RefreshToken) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.Err != nil {
		return r.Err
	}
	token.CreatedAt = time.Now()
	c := *token
	r.tokens[token.Token] = &c
	return nil
}

func (r *FakeAuthRepo) GetRefreshToken(_ context.Context, token string) (*domain.RefreshToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	rt, ok := r.tokens[token]
	if !ok {
		return nil, nil
	}
	c := *rt
	return &c, nil
}

func (r *FakeAuthRepo) DeleteRefreshToken(_ context.Context, token string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.Err != nil {
		return r.Err
	}
	delete(r.tokens, token)
	return nil
}

func (r *FakeAuthRepo) DeleteExpiredRefreshTokens(_ context.Context, now time.Time) (int64, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	var n int64
	for k, rt := range r.tokens {
		if rt.Expired(now) {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}

// Expire moves a stored session's expiry into the past.
func (r *FakeAuthRepo) Expire(token string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if rt, ok := r.tokens[token]; ok {
		rt.ExpiresAt = time.Now().Add(-time.Second)
	}
}

func (r *FakeAuthRepo) Tokens() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()
	tokens := make([]string, 0, len(r.tokens))
	for k := range r.tokens {
		tokens = append(tokens, k)
	}
	return tokens
}

func (r *FakeAuthRepo) Count() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.tokens)
}
