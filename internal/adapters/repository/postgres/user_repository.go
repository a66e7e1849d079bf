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

type UserRepository struct {
	client *Client
}

func NewUserRepository(client *Client) ports.UserRepository {
	return &UserRepository{client: client}
}

const userColumns = `id, email, password, name, role, created_at`

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(r.client.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.client.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := r.client.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeError(fmt.Errorf("failed to list users: %w", err))
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, storeError(fmt.Errorf("failed to scan user: %w", err))
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(fmt.Errorf("error iterating users: %w", err))
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO users (id, email, password, name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.client.db.QueryRowContext(ctx, query, user.ID, user.Email, user.PasswordHash, user.Name, user.Role).Scan(&user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return storeError(fmt.Errorf("failed to insert user: %w", err))
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	query := `UPDATE users SET email = $2, name = $3, role = $4 WHERE id = $1`
	res, err := r.client.db.ExecContext(ctx, query, user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return storeError(fmt.Errorf("failed to update user: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeError(fmt.Errorf("failed to read affected rows: %w", err))
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete removes the user; their sessions and posts go with them through
// ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	res, err := r.client.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, storeError(fmt.Errorf("failed to delete user: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storeError(fmt.Errorf("failed to read affected rows: %w", err))
	}
	return n > 0, nil
}

func (r *UserRepository) scanOne(row *sql.Row) (*domain.User, error) {
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError(fmt.Errorf("failed to get user: %w", err))
	}
	return user, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*domain.User, error) {
	var (
		user domain.User
		name sql.NullString
	)
	if err := s.Scan(&user.ID, &user.Email, &user.PasswordHash, &name, &user.Role, &user.CreatedAt); err != nil {
		return nil, err
	}
	if name.Valid {
		user.Name = &name.String
	}
	return &user, nil
}
