package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/contentapi/internal/core/domain"
)

type PostRepository interface {
	Save(ctx context.Context, post *domain.Post) error
	// GetByID returns domain.ErrPostNotFound when no post matches.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	// List returns posts newest first; a nil status returns every post.
	List(ctx context.Context, status *domain.PostStatus) ([]*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type CreatePostInput struct {
	Title   string
	Content string
	Status  string
}

type UpdatePostInput struct {
	Title   *string
	Content *string
	Status  *string
}

type PostService interface {
	List(ctx context.Context, identity domain.Identity) ([]*domain.Post, error)
	Get(ctx context.Context, identity domain.Identity, id string) (*domain.Post, error)
	Create(ctx context.Context, identity domain.Identity, input CreatePostInput) (*domain.Post, error)
	Update(ctx context.Context, identity domain.Identity, id string, input UpdatePostInput) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
}
