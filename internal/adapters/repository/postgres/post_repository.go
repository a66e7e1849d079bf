package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/contentapi/internal/core/domain"
	"github.com/vncsmyrnk/contentapi/internal/core/ports"
)

type postRepository struct {
	client *Client
}

func NewPostRepository(client *Client) ports.PostRepository {
	return &postRepository{
		client: client,
	}
}

const postSelect = `
	SELECT p.id, p.title, p.content, p.author_id, u.name, p.status, p.created_at, p.updated_at
	FROM posts p
	JOIN users u ON u.id = p.author_id
`

func (r *postRepository) Save(ctx context.Context, post *domain.Post) error {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO posts (id, title, content, author_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.client.db.ExecContext(ctx, query, post.ID, post.Title, post.Content, post.AuthorID, post.Status, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return storeError(fmt.Errorf("failed to insert post: %w", err))
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	post, err := scanPost(r.client.db.QueryRowContext(ctx, postSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, storeError(fmt.Errorf("failed to get post: %w", err))
	}
	return post, nil
}

func (r *postRepository) List(ctx context.Context, status *domain.PostStatus) ([]*domain.Post, error) {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	var filter sql.NullString
	if status != nil {
		filter = sql.NullString{String: string(*status), Valid: true}
	}

	query := postSelect + `
		WHERE $1::text IS NULL OR p.status = $1
		ORDER BY p.created_at DESC
	`
	rows, err := r.client.db.QueryContext(ctx, query, filter)
	if err != nil {
		return nil, storeError(fmt.Errorf("failed to list posts: %w", err))
	}
	defer rows.Close()

	posts := []*domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, storeError(fmt.Errorf("failed to scan post: %w", err))
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(fmt.Errorf("error iterating posts: %w", err))
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE posts
		SET title = $2, content = $3, status = $4, updated_at = $5
		WHERE id = $1
	`
	res, err := r.client.db.ExecContext(ctx, query, post.ID, post.Title, post.Content, post.Status, post.UpdatedAt)
	if err != nil {
		return storeError(fmt.Errorf("failed to update post: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeError(fmt.Errorf("failed to read affected rows: %w", err))
	}
	if n == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	res, err := r.client.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, storeError(fmt.Errorf("failed to delete post: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storeError(fmt.Errorf("failed to read affected rows: %w", err))
	}
	return n > 0, nil
}

func scanPost(s scanner) (*domain.Post, error) {
	var (
		post   domain.Post
		author sql.NullString
	)
	err := s.Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &author, &post.Status, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if author.Valid {
		post.Author = &author.String
	}
	return &post, nil
}
