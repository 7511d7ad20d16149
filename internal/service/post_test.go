package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
	apperrors "github.com/vedantlahane/myblog-sub000/internal/errors"
	"github.com/vedantlahane/myblog-sub000/internal/sse"
	"github.com/vedantlahane/myblog-sub000/internal/store"
)

func TestCreatePost_RequiresTags(t *testing.T) {
	e := newTestEnv(t)
	e.mustUser(t, "user-a", "Alice")

	_, err := e.posts.CreatePost(context.Background(), "user-a", CreatePostInput{
		Title:   "No Tags",
		Content: "content",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCreatePost_UnknownTagRejected(t *testing.T) {
	e := newTestEnv(t)
	e.mustUser(t, "user-a", "Alice")

	_, err := e.posts.CreatePost(context.Background(), "user-a", CreatePostInput{
		Title:   "Bad Tag",
		Content: "content",
		TagIDs:  []string{"tag-missing"},
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreatePost_DerivesSlugAndReadTime(t *testing.T) {
	e := newTestEnv(t)
	e.mustUser(t, "user-a", "Alice")
	tag := e.mustTag(t, "go")

	p, err := e.posts.CreatePost(context.Background(), "user-a", CreatePostInput{
		Title:   "Going Async in Go",
		Content: strings.Repeat("word ", 450),
		TagIDs:  []string{tag.ID},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(p.Slug, "going-async-in-go-"), "slug %q", p.Slug)
	assert.Equal(t, 3, p.ReadTime)
	assert.Equal(t, domain.PostStatusDraft, p.Status)
	assert.Nil(t, p.PublishedAt)
}

func TestTagLedger_CreateUpdateDeleteScenario(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")
	goTag := e.mustTag(t, "go")
	rustTag := e.mustTag(t, "rust")

	assert.Equal(t, 0, e.tagCount(t, goTag.ID))

	p := e.mustPost(t, "user-a", []string{goTag.ID}, domain.PostStatusPublished)
	assert.Equal(t, 1, e.tagCount(t, goTag.ID))

	caller := Caller{ID: "user-a"}
	_, err := e.posts.UpdatePost(ctx, p.ID, caller, UpdatePostInput{TagIDs: []string{rustTag.ID}})
	require.NoError(t, err)
	assert.Equal(t, 0, e.tagCount(t, goTag.ID))
	assert.Equal(t, 1, e.tagCount(t, rustTag.ID))

	require.NoError(t, e.posts.DeletePost(ctx, p.ID, caller))
	assert.Equal(t, 0, e.tagCount(t, rustTag.ID))
}

func TestUpdatePost_TagDiffLeavesSharedTagUntouched(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")
	a := e.mustTag(t, "alpha")
	b := e.mustTag(t, "beta")
	c := e.mustTag(t, "gamma")

	p := e.mustPost(t, "user-a", []string{a.ID, b.ID}, domain.PostStatusPublished)

	// {A,B} -> {B,C}: A decremented, C incremented, B never touched.
	_, err := e.posts.UpdatePost(ctx, p.ID, Caller{ID: "user-a"}, UpdatePostInput{
		TagIDs: []string{b.ID, c.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, e.tagCount(t, a.ID))
	assert.Equal(t, 1, e.tagCount(t, b.ID))
	assert.Equal(t, 1, e.tagCount(t, c.ID))
}

func TestUpdatePost_Forbidden(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")
	e.mustUser(t, "user-b", "Bob")
	tag := e.mustTag(t, "go")

	p := e.mustPost(t, "user-a", []string{tag.ID}, domain.PostStatusPublished)

	title := "Hijacked"
	_, err := e.posts.UpdatePost(ctx, p.ID, Caller{ID: "user-b"}, UpdatePostInput{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Admins may edit anyone's post.
	_, err = e.posts.UpdatePost(ctx, p.ID, Caller{ID: "user-b", Admin: true}, UpdatePostInput{Title: &title})
	assert.NoError(t, err)
}

func TestUpdatePost_SlugImmutable(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")
	tag := e.mustTag(t, "go")

	p := e.mustPost(t, "user-a", []string{tag.ID}, domain.PostStatusPublished)
	originalSlug := p.Slug

	title := "A Completely Different Title"
	updated, err := e.posts.UpdatePost(ctx, p.ID, Caller{ID: "user-a"}, UpdatePostInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, originalSlug, updated.Slug)
	assert.Equal(t, title, updated.Title)
}

func TestUpdatePost_PublishedAtSetExactlyOnce(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")
	tag := e.mustTag(t, "go")
	caller := Caller{ID: "user-a"}

	p := e.mustPost(t, "user-a", []string{tag.ID}, domain.PostStatusDraft)
	require.Nil(t, p.PublishedAt)

	published := domain.PostStatusPublished
	p, err := e.posts.UpdatePost(ctx, p.ID, caller, UpdatePostInput{Status: &published})
	require.NoError(t, err)
	require.NotNil(t, p.PublishedAt)
	firstPublished := *p.PublishedAt

	// Archive and republish: the original timestamp survives.
	archived := domain.PostStatusArchived
	_, err = e.posts.UpdatePost(ctx, p.ID, caller, UpdatePostInput{Status: &archived})
	require.NoError(t, err)

	p, err = e.posts.UpdatePost(ctx, p.ID, caller, UpdatePostInput{Status: &published})
	require.NoError(t, err)
	require.NotNil(t, p.PublishedAt)
	assert.Equal(t, firstPublished, *p.PublishedAt)
}

func TestUpdatePost_ContentChangeRecomputesReadTime(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")
	tag := e.mustTag(t, "go")

	p := e.mustPost(t, "user-a", []string{tag.ID}, domain.PostStatusPublished)
	assert.Equal(t, 1, p.ReadTime)

	longContent := strings.Repeat("word ", 1000)
	p, err := e.posts.UpdatePost(ctx, p.ID, Caller{ID: "user-a"}, UpdatePostInput{Content: &longContent})
	require.NoError(t, err)
	assert.Equal(t, 5, p.ReadTime)
}

func TestLikePost_Idempotency(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")
	e.mustUser(t, "user-b", "Bob")
	tag := e.mustTag(t, "go")
	p := e.mustPost(t, "user-a", []string{tag.ID}, domain.PostStatusPublished)

	count, err := e.posts.LikePost(ctx, p.ID, "user-b")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Second like is rejected, not silently ignored.
	_, err = e.posts.LikePost(ctx, p.ID, "user-b")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyLiked)

	got, err := e.posts.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Likes, 1)

	// Unliking a non-liker is a forgiving no-op.
	count, err = e.posts.UnlikePost(ctx, p.ID, "user-c")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = e.posts.UnlikePost(ctx, p.ID, "user-b")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestLikePost_NotifiesAuthorButNeverSelf(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")
	e.mustUser(t, "user-b", "Bob")
	tag := e.mustTag(t, "go")
	p := e.mustPost(t, "user-a", []string{tag.ID}, domain.PostStatusPublished)

	// Author liking their own post creates no notification.
	_, err := e.posts.LikePost(ctx, p.ID, "user-a")
	require.NoError(t, err)
	notifications, err := e.notifications.ListForUser(ctx, "user-a")
	require.NoError(t, err)
	assert.Empty(t, notifications)

	_, err = e.posts.LikePost(ctx, p.ID, "user-b")
	require.NoError(t, err)
	notifications, err = e.notifications.ListForUser(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, domain.NotificationTypeLike, notifications[0].Type)
	assert.Equal(t, "user-b", notifications[0].SenderID)
}

func TestCreatePost_PublishFansOutToFollowers(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")
	e.mustUser(t, "user-b", "Bob")
	e.mustUser(t, "user-c", "Carol")
	tag := e.mustTag(t, "go")

	require.NoError(t, e.engagement.Follow(ctx, "user-b", "user-a"))
	require.NoError(t, e.engagement.Follow(ctx, "user-c", "user-a"))

	p := e.mustPost(t, "user-a", []string{tag.ID}, domain.PostStatusPublished)

	var recipients []string
	for _, userID := range []string{"user-a", "user-b", "user-c"} {
		ns, err := e.notifications.ListForUser(ctx, userID)
		require.NoError(t, err)
		for _, n := range ns {
			if n.Type == domain.NotificationTypePost {
				recipients = append(recipients, n.RecipientID)
				assert.Equal(t, "user-a", n.SenderID)
				assert.Equal(t, p.ID, n.EntityID)
			}
		}
	}
	// Exactly two notifications, never one to the author.
	assert.ElementsMatch(t, []string{"user-b", "user-c"}, recipients)
}

// recordingEmitter captures events the store broadcasts.
type recordingEmitter struct {
	events []sse.Event
}

func (r *recordingEmitter) Emit(event any) {
	if e, ok := event.(sse.Event); ok {
		r.events = append(r.events, e)
	}
}

func (r *recordingEmitter) publishedCount() int {
	n := 0
	for _, e := range r.events {
		if e.Type == sse.EventPostPublished {
			n++
		}
	}
	return n
}

func TestUpdatePost_FirstPublishEmitsPublishedEvent(t *testing.T) {
	rec := &recordingEmitter{}
	st, err := store.New(t.TempDir(), nil, rec)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifications := NewNotificationService(st, logger)
	posts := NewPostService(st, notifications, logger)
	tags := NewTagService(st, logger)

	ctx := context.Background()
	u := &domain.User{Email: "alice@example.com", Name: "Alice", Role: domain.RoleMember}
	u.ID = "user-a"
	u.InitTimestamps()
	require.NoError(t, st.CreateUser(ctx, u))

	tag, err := tags.CreateTag(ctx, "go", "")
	require.NoError(t, err)

	p, err := posts.CreatePost(ctx, "user-a", CreatePostInput{
		Title:   "Quiet Draft",
		Content: "content",
		TagIDs:  []string{tag.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, rec.publishedCount())

	caller := Caller{ID: "user-a"}
	published := domain.PostStatusPublished
	_, err = posts.UpdatePost(ctx, p.ID, caller, UpdatePostInput{Status: &published})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.publishedCount())

	// PublishedAt is set exactly once; archiving and republishing is not a
	// first publish and stays silent.
	archived := domain.PostStatusArchived
	_, err = posts.UpdatePost(ctx, p.ID, caller, UpdatePostInput{Status: &archived})
	require.NoError(t, err)
	_, err = posts.UpdatePost(ctx, p.ID, caller, UpdatePostInput{Status: &published})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.publishedCount())
}
