package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/contentapi/internal/core/domain"
)

type UserRepository interface {
	// GetByEmail and GetByID return nil, nil when no user matches.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Create returns domain.ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type UpdateUserInput struct {
	Email *string
	Name  *string
	Role  *string
}

type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
