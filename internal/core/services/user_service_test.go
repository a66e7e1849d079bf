package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/contentapi/internal/adapters/repository/repofake"
	"github.com/vncsmyrnk/contentapi/internal/core/domain"
	"github.com/vncsmyrnk/contentapi/internal/core/ports"
)

func seedUser(t *testing.T, repo *repofake.FakeUserRepo, email string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{ID: uuid.New(), Email: email, PasswordHash: "hash", Role: role}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserService_List(t *testing.T) {
	repo := repofake.NewFakeUserRepo()
	seedUser(t, repo, "a@x.com", domain.RoleAdmin)
	seedUser(t, repo, "b@x.com", domain.RoleViewer)

	users, err := NewUserService(repo).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUserService_Update(t *testing.T) {
	repo := repofake.NewFakeUserRepo()
	svc := NewUserService(repo)
	user := seedUser(t, repo, "a@x.com", domain.RoleViewer)
	seedUser(t, repo, "taken@x.com", domain.RoleViewer)

	updated, err := svc.Update(context.Background(), user.ID.String(), ports.UpdateUserInput{
		Role: strPtr("admin"),
		Name: strPtr("Ann"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, updated.Role)
	assert.Equal(t, "a@x.com", updated.Email)
	assert.Equal(t, "Ann", *updated.Name)

	_, err = svc.Update(context.Background(), user.ID.String(), ports.UpdateUserInput{Role: strPtr("owner")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Update(context.Background(), user.ID.String(), ports.UpdateUserInput{Email: strPtr("nope")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Update(context.Background(), user.ID.String(), ports.UpdateUserInput{Email: strPtr("taken@x.com")})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	_, err = svc.Update(context.Background(), uuid.NewString(), ports.UpdateUserInput{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = svc.Update(context.Background(), "bad-id", ports.UpdateUserInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestUserService_Delete(t *testing.T) {
	repo := repofake.NewFakeUserRepo()
	svc := NewUserService(repo)
	user := seedUser(t, repo, "a@x.com", domain.RoleViewer)

	require.NoError(t, svc.Delete(context.Background(), user.ID.String()))
	assert.ErrorIs(t, svc.Delete(context.Background(), user.ID.String()), domain.ErrUserNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), "bad-id"), domain.ErrInvalidID)
}
