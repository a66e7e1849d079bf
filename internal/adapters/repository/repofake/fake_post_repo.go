package repofake

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/contentapi/internal/core/domain"
	"github.com/vncsmyrnk/contentapi/internal/core/ports"
)

var _ ports.PostRepository = (*FakePostRepo)(nil)

type FakePostRepo struct {
	posts map[uuid.UUID]*domain.Post
	users *FakeUserRepo
	lock  sync.RWMutex

	Err error
}

// NewFakePostRepo resolves author names through users, which may be nil.
func NewFakePostRepo(users *FakeUserRepo) *FakePostRepo {
	return &FakePostRepo{
		posts: make(map[uuid.UUID]*domain.Post),
		users: users,
	}
}

func (r *FakePostRepo) Save(_ context.Context, post *domain.Post) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.Err != nil {
		return r.Err
	}
	c := *post
	r.posts[post.ID] = &c
	return nil
}

func (r *FakePostRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return r.withAuthor(ctx, p), nil
}

func (r *FakePostRepo) List(ctx context.Context, status *domain.PostStatus) ([]*domain.Post, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	posts := []*domain.Post{}
	for _, p := range r.posts {
		if status != nil && p.Status != *status {
			continue
		}
		posts = append(posts, r.withAuthor(ctx, p))
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (r *FakePostRepo) Update(_ context.Context, post *domain.Post) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.posts[post.ID]; !ok {
		return domain.ErrPostNotFound
	}
	c := *post
	c.Author = nil
	r.posts[post.ID] = &c
	return nil
}

func (r *FakePostRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	if _, ok := r.posts[id]; !ok {
		return false, nil
	}
	delete(r.posts, id)
	return true, nil
}

func (r *FakePostRepo) withAuthor(ctx context.Context, p *domain.Post) *domain.Post {
	c := *p
	if r.users != nil {
		if u, err := r.users.GetByID(ctx, p.AuthorID); err == nil && u != nil {
			c.Author = u.Name
		}
	}
	return &c
}
