package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
	"github.com/vedantlahane/myblog-sub000/internal/store"
)

// env bundles a fresh store with fully wired services for one test.
type env struct {
	store         *store.Store
	posts         *PostService
	drafts        *DraftService
	tags          *TagService
	comments      *CommentService
	engagement    *EngagementService
	notifications *NotificationService
}

func newTestEnv(t *testing.T) *env {
	t.Helper()

	st, err := store.New(t.TempDir(), nil, store.NewNoopEmitter())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	notifications := NewNotificationService(st, logger)
	posts := NewPostService(st, notifications, logger)

	return &env{
		store:         st,
		posts:         posts,
		drafts:        NewDraftService(st, posts, logger),
		tags:          NewTagService(st, logger),
		comments:      NewCommentService(st, notifications, logger),
		engagement:    NewEngagementService(st, notifications, logger),
		notifications: notifications,
	}
}

func (e *env) mustUser(t *testing.T, id, name string) *domain.User {
	t.Helper()
	u := &domain.User{Email: id + "@example.com", Name: name, Role: domain.RoleMember}
	u.ID = id
	u.InitTimestamps()
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

func (e *env) mustTag(t *testing.T, name string) *domain.Tag {
	t.Helper()
	tag, err := e.tags.CreateTag(context.Background(), name, "")
	require.NoError(t, err)
	return tag
}

func (e *env) tagCount(t *testing.T, tagID string) int {
	t.Helper()
	tag, err := e.store.GetTag(context.Background(), tagID)
	require.NoError(t, err)
	return tag.PostCount
}

func (e *env) mustPost(t *testing.T, authorID string, tagIDs []string, status domain.PostStatus) *domain.Post {
	t.Helper()
	p, err := e.posts.CreatePost(context.Background(), authorID, CreatePostInput{
		Title:   "A Post About Things",
		Content: "some words of content",
		TagIDs:  tagIDs,
		Status:  status,
	})
	require.NoError(t, err)
	return p
}
