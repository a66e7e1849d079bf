package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/contentapi/internal/adapters/repository/repofake"
	"github.com/vncsmyrnk/contentapi/internal/core/domain"
	"github.com/vncsmyrnk/contentapi/internal/core/ports"
)

type postFixture struct {
	svc    ports.PostService
	admin  domain.Identity
	editor domain.Identity
	viewer domain.Identity
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()
	users := repofake.NewFakeUserRepo()
	admin := seedUser(t, users, "admin@x.com", domain.RoleAdmin)
	editor := seedUser(t, users, "editor@x.com", domain.RoleEditor)
	viewer := seedUser(t, users, "viewer@x.com", domain.RoleViewer)

	return &postFixture{
		svc:    NewPostService(repofake.NewFakePostRepo(users)),
		admin:  domain.Identity{ID: admin.ID.String(), Role: domain.RoleAdmin},
		editor: domain.Identity{ID: editor.ID.String(), Role: domain.RoleEditor},
		viewer: domain.Identity{ID: viewer.ID.String(), Role: domain.RoleViewer},
	}
}

func TestPostService_Create(t *testing.T) {
	f := newPostFixture(t)

	post, err := f.svc.Create(context.Background(), f.editor, ports.CreatePostInput{Title: "Hello", Content: "World"})
	require.NoError(t, err)
	assert.Equal(t, domain.PostDraft, post.Status)
	assert.Equal(t, f.editor.ID, post.AuthorID.String())
	assert.False(t, post.CreatedAt.IsZero())

	published, err := f.svc.Create(context.Background(), f.editor, ports.CreatePostInput{Title: "a", Content: "b", Status: "published"})
	require.NoError(t, err)
	assert.Equal(t, domain.PostPublished, published.Status)
}

func TestPostService_Create_Validation(t *testing.T) {
	f := newPostFixture(t)

	for _, input := range []ports.CreatePostInput{
		{Content: "c"},
		{Title: "t"},
		{Title: "t", Content: "c", Status: "archived"},
	} {
		_, err := f.svc.Create(context.Background(), f.editor, input)
		assert.ErrorIs(t, err, domain.ErrValidation, "input %+v", input)
	}
}

func TestPostService_Visibility(t *testing.T) {
	f := newPostFixture(t)
	draft, err := f.svc.Create(context.Background(), f.editor, ports.CreatePostInput{Title: "draft", Content: "c"})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	published, err := f.svc.Create(context.Background(), f.editor, ports.CreatePostInput{Title: "pub", Content: "c", Status: "published"})
	require.NoError(t, err)

	all, err := f.svc.List(context.Background(), f.admin)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, published.ID, all[0].ID, "newest first")

	visible, err := f.svc.List(context.Background(), f.viewer)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, published.ID, visible[0].ID)

	_, err = f.svc.Get(context.Background(), f.viewer, draft.ID.String())
	assert.ErrorIs(t, err, domain.ErrPostNotFound)

	got, err := f.svc.Get(context.Background(), f.admin, draft.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "draft", got.Title)

	_, err = f.svc.Get(context.Background(), f.admin, "bad-id")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestPostService_Update(t *testing.T) {
	f := newPostFixture(t)
	post, err := f.svc.Create(context.Background(), f.admin, ports.CreatePostInput{Title: "t", Content: "c"})
	require.NoError(t, err)

	updated, err := f.svc.Update(context.Background(), f.editor, post.ID.String(), ports.UpdatePostInput{
		Title:  strPtr("new title"),
		Status: strPtr("published"),
	})
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "c", updated.Content)
	assert.Equal(t, domain.PostPublished, updated.Status)

	_, err = f.svc.Update(context.Background(), f.editor, post.ID.String(), ports.UpdatePostInput{Title: strPtr("")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.Update(context.Background(), f.editor, post.ID.String(), ports.UpdatePostInput{Status: strPtr("gone")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.Update(context.Background(), f.viewer, post.ID.String(), ports.UpdatePostInput{Title: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.Update(context.Background(), f.editor, uuid.NewString(), ports.UpdatePostInput{})
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}

func TestPostService_Delete(t *testing.T) {
	f := newPostFixture(t)
	post, err := f.svc.Create(context.Background(), f.editor, ports.CreatePostInput{Title: "t", Content: "c"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), post.ID.String()))
	assert.ErrorIs(t, f.svc.Delete(context.Background(), post.ID.String()), domain.ErrPostNotFound)
	assert.ErrorIs(t, f.svc.Delete(context.Background(), "x"), domain.ErrInvalidID)
}
