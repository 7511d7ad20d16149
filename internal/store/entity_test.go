package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(t.TempDir(), nil, NewNoopEmitter())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestEntity_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &domain.User{Email: "alice@example.com", Name: "Alice", Role: domain.RoleMember}
	u.ID = "user-1"
	u.InitTimestamps()

	require.NoError(t, s.Users.Create(ctx, u.ID, u))

	got, err := s.Users.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "Alice", got.Name)
}

func TestEntity_CreateDuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &domain.User{Email: "alice@example.com"}
	u.ID = "user-1"

	require.NoError(t, s.Users.Create(ctx, u.ID, u))

	dup := &domain.User{Email: "other@example.com"}
	dup.ID = "user-1"
	err := s.Users.Create(ctx, dup.ID, dup)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestEntity_UniqueIndexConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &domain.User{Email: "alice@example.com"}
	u.ID = "user-1"
	require.NoError(t, s.Users.Create(ctx, u.ID, u))

	// Same email, different case — the email index is case-insensitive.
	dup := &domain.User{Email: "ALICE@example.com"}
	dup.ID = "user-2"
	err := s.Users.Create(ctx, dup.ID, dup)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestEntity_GetByIndex_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &domain.User{Email: "Alice@Example.com"}
	u.ID = "user-1"
	require.NoError(t, s.Users.Create(ctx, u.ID, u))

	got, err := s.Users.GetByIndex(ctx, "email", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)
}

func TestEntity_GetNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Users.Get(context.Background(), "user-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntity_Update(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &domain.User{Email: "alice@example.com", Name: "Alice"}
	u.ID = "user-1"
	require.NoError(t, s.Users.Create(ctx, u.ID, u))

	u.Name = "Alice B"
	require.NoError(t, s.Users.Update(ctx, u.ID, u))

	got, err := s.Users.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Alice B", got.Name)
}

func TestEntity_UpdateMovesUniqueIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &domain.User{Email: "old@example.com"}
	u.ID = "user-1"
	require.NoError(t, s.Users.Create(ctx, u.ID, u))

	u.Email = "new@example.com"
	require.NoError(t, s.Users.Update(ctx, u.ID, u))

	_, err := s.Users.GetByIndex(ctx, "email", "old@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.Users.GetByIndex(ctx, "email", "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)
}

func TestEntity_DeleteIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &domain.User{Email: "alice@example.com"}
	u.ID = "user-1"
	require.NoError(t, s.Users.Create(ctx, u.ID, u))

	require.NoError(t, s.Users.Delete(ctx, "user-1"))
	require.NoError(t, s.Users.Delete(ctx, "user-1")) // Second delete is a no-op.

	_, err := s.Users.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Index entry is cleaned up too.
	_, err = s.Users.GetByIndex(ctx, "email", "alice@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntity_ListByIndex_NonUnique(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"post-1", "post-2"} {
		p := &domain.Post{
			Title:    "Post",
			Slug:     "post-" + string(rune('a'+i)),
			AuthorID: "user-1",
			TagIDs:   []string{"tag-go"},
			Status:   domain.PostStatusPublished,
		}
		p.ID = id
		p.InitTimestamps()
		require.NoError(t, s.Posts.Create(ctx, p.ID, p))
	}

	other := &domain.Post{Title: "Other", Slug: "other", AuthorID: "user-2", TagIDs: []string{"tag-rust"}}
	other.ID = "post-3"
	other.InitTimestamps()
	require.NoError(t, s.Posts.Create(ctx, other.ID, other))

	var ids []string
	for p, err := range s.Posts.ListByIndex(ctx, "author", "user-1") {
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{"post-1", "post-2"}, ids)
}

func TestEntity_MultiValueIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := &domain.Post{Title: "Post", Slug: "multi-tag", AuthorID: "user-1", TagIDs: []string{"tag-go", "tag-web"}}
	p.ID = "post-1"
	p.InitTimestamps()
	require.NoError(t, s.Posts.Create(ctx, p.ID, p))

	for _, tagID := range []string{"tag-go", "tag-web"} {
		var ids []string
		for got, err := range s.Posts.ListByIndex(ctx, "tag", tagID) {
			require.NoError(t, err)
			ids = append(ids, got.ID)
		}
		assert.Equal(t, []string{"post-1"}, ids, "tag %s", tagID)
	}

	// Retagging drops the stale index entry.
	p.TagIDs = []string{"tag-web"}
	require.NoError(t, s.Posts.Update(ctx, p.ID, p))

	count := 0
	for _, err := range s.Posts.ListByIndex(ctx, "tag", "tag-go") {
		require.NoError(t, err)
		count++
	}
	assert.Zero(t, count)
}
