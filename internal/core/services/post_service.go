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

type postService struct {
	repo ports.PostRepository
	now  func() time.Time
}

func NewPostService(repo ports.PostRepository) ports.PostService {
	return &postService{
		repo: repo,
		now:  time.Now,
	}
}

// visibleStatus is the status filter for identity: admins see drafts,
// everyone else only published posts.
func visibleStatus(identity domain.Identity) *domain.PostStatus {
	if identity.Role == domain.RoleAdmin {
		return nil
	}
	published := domain.PostPublished
	return &published
}

func (s *postService) List(ctx context.Context, identity domain.Identity) ([]*domain.Post, error) {
	posts, err := s.repo.List(ctx, visibleStatus(identity))
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (s *postService) Get(ctx context.Context, identity domain.Identity, id string) (*domain.Post, error) {
	postID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if status := visibleStatus(identity); status != nil && post.Status != *status {
		return nil, domain.ErrPostNotFound
	}
	return post, nil
}

func (s *postService) Create(ctx context.Context, identity domain.Identity, input ports.CreatePostInput) (*domain.Post, error) {
	if err := validateStruct(postRules(input)); err != nil {
		return nil, err
	}
	authorID, err := uuid.Parse(identity.ID)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	status := domain.PostStatus(input.Status)
	if status == "" {
		status = domain.PostDraft
	}

	now := s.now()
	post := &domain.Post{
		ID:        uuid.New(),
		Title:     input.Title,
		Content:   input.Content,
		AuthorID:  authorID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to save post: %w", err)
	}
	return post, nil
}

func (s *postService) Update(ctx context.Context, identity domain.Identity, id string, input ports.UpdatePostInput) (*domain.Post, error) {
	postID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	// Viewers never reach this through the router; the check keeps the
	// service safe for other callers.
	if identity.Role == domain.RoleViewer && post.AuthorID.String() != identity.ID {
		return nil, domain.ErrForbidden
	}

	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.Status != nil {
		post.Status = domain.PostStatus(*input.Status)
	}
	if err := validateStruct(postRules{Title: post.Title, Content: post.Content, Status: string(post.Status)}); err != nil {
		return nil, err
	}
	if !post.Status.Valid() {
		return nil, fmt.Errorf("%w: Invalid status", domain.ErrValidation)
	}

	post.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, post); err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

func (s *postService) Delete(ctx context.Context, id string) error {
	postID, err := parseID(id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if !deleted {
		return domain.ErrPostNotFound
	}
	return nil
}
