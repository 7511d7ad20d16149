package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
	apperrors "github.com/vedantlahane/myblog-sub000/internal/errors"
)

func TestCreateComment_NotifiesPostAuthor(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")
	e.mustUser(t, "user-b", "Bob")
	tag := e.mustTag(t, "go")
	p := e.mustPost(t, "user-a", []string{tag.ID}, domain.PostStatusPublished)

	c, err := e.comments.CreateComment(ctx, "user-b", CreateCommentInput{
		PostID: p.ID, Content: "nice post",
	})
	require.NoError(t, err)
	assert.False(t, c.IsReply())

	ns, err := e.notifications.ListForUser(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, ns, 1)
	assert.Equal(t, domain.NotificationTypeComment, ns[0].Type)
	assert.Equal(t, c.ID, ns[0].EntityID)
}

func TestCreateComment_SelfCommentDoesNotNotify(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")
	tag := e.mustTag(t, "go")
	p := e.mustPost(t, "user-a", []string{tag.ID}, domain.PostStatusPublished)

	_, err := e.comments.CreateComment(ctx, "user-a", CreateCommentInput{
		PostID: p.ID, Content: "first!",
	})
	require.NoError(t, err)

	ns, err := e.notifications.ListForUser(ctx, "user-a")
	require.NoError(t, err)
	assert.Empty(t, ns)
}

func TestCreateComment_ReplyNotifiesParentAndPostAuthorsOnce(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice") // Post author
	e.mustUser(t, "user-b", "Bob")   // Parent comment author
	e.mustUser(t, "user-c", "Carol") // Replier
	tag := e.mustTag(t, "go")
	p := e.mustPost(t, "user-a", []string{tag.ID}, domain.PostStatusPublished)

	parent, err := e.comments.CreateComment(ctx, "user-b", CreateCommentInput{
		PostID: p.ID, Content: "a comment",
	})
	require.NoError(t, err)

	reply, err := e.comments.CreateComment(ctx, "user-c", CreateCommentInput{
		PostID: p.ID, ParentID: parent.ID, Content: "a reply",
	})
	require.NoError(t, err)
	assert.True(t, reply.IsReply())

	for _, userID := range []string{"user-a", "user-b"} {
		ns, err := e.notifications.ListForUser(ctx, userID)
		require.NoError(t, err)
		replyNotifications := 0
		for _, n := range ns {
			if n.EntityID == reply.ID {
				replyNotifications++
				assert.Equal(t, "user-c", n.SenderID)
			}
		}
		assert.Equal(t, 1, replyNotifications, "recipient %s", userID)
	}
}

func TestCreateComment_ReplyByPostAuthorNotifiesParentOnly(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")
	e.mustUser(t, "user-b", "Bob")
	tag := e.mustTag(t, "go")
	p := e.mustPost(t, "user-a", []string{tag.ID}, domain.PostStatusPublished)

	parent, err := e.comments.CreateComment(ctx, "user-b", CreateCommentInput{
		PostID: p.ID, Content: "question?",
	})
	require.NoError(t, err)

	reply, err := e.comments.CreateComment(ctx, "user-a", CreateCommentInput{
		PostID: p.ID, ParentID: parent.ID, Content: "answer",
	})
	require.NoError(t, err)

	// Bob gets exactly one notification for the reply; Alice, as sender,
	// gets none even though she is also the post author.
	ns, err := e.notifications.ListForUser(ctx, "user-b")
	require.NoError(t, err)
	found := 0
	for _, n := range ns {
		if n.EntityID == reply.ID {
			found++
		}
	}
	assert.Equal(t, 1, found)

	ns, err = e.notifications.ListForUser(ctx, "user-a")
	require.NoError(t, err)
	for _, n := range ns {
		assert.NotEqual(t, reply.ID, n.EntityID)
	}
}

func TestCreateComment_ParentMustBelongToSamePost(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")
	tag := e.mustTag(t, "go")
	p1 := e.mustPost(t, "user-a", []string{tag.ID}, domain.PostStatusPublished)
	p2 := e.mustPost(t, "user-a", []string{tag.ID}, domain.PostStatusPublished)

	parent, err := e.comments.CreateComment(ctx, "user-a", CreateCommentInput{
		PostID: p1.ID, Content: "on p1",
	})
	require.NoError(t, err)

	_, err = e.comments.CreateComment(ctx, "user-a", CreateCommentInput{
		PostID: p2.ID, ParentID: parent.ID, Content: "cross-post reply",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDeleteComment_SoftDeleteKeepsThread(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")
	e.mustUser(t, "user-b", "Bob")
	tag := e.mustTag(t, "go")
	p := e.mustPost(t, "user-a", []string{tag.ID}, domain.PostStatusPublished)

	parent, err := e.comments.CreateComment(ctx, "user-b", CreateCommentInput{
		PostID: p.ID, Content: "to be deleted",
	})
	require.NoError(t, err)
	reply, err := e.comments.CreateComment(ctx, "user-a", CreateCommentInput{
		PostID: p.ID, ParentID: parent.ID, Content: "child",
	})
	require.NoError(t, err)

	// Not the author, not an admin.
	err = e.comments.DeleteComment(ctx, parent.ID, Caller{ID: "user-c"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, e.comments.DeleteComment(ctx, parent.ID, Caller{ID: "user-b"}))

	got, err := e.comments.GetComment(ctx, parent.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
	assert.Equal(t, domain.DeletedCommentPlaceholder, got.Content)

	// Deleting again is a no-op.
	require.NoError(t, e.comments.DeleteComment(ctx, parent.ID, Caller{ID: "user-b"}))

	// The reply still resolves its parent.
	replies, err := e.comments.ListReplies(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, reply.ID, replies[0].ID)
}

func TestLikeComment_IdempotencyAndNotification(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")
	e.mustUser(t, "user-b", "Bob")
	tag := e.mustTag(t, "go")
	p := e.mustPost(t, "user-a", []string{tag.ID}, domain.PostStatusPublished)

	c, err := e.comments.CreateComment(ctx, "user-a", CreateCommentInput{
		PostID: p.ID, Content: "like me",
	})
	require.NoError(t, err)

	count, err := e.comments.LikeComment(ctx, c.ID, "user-b")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = e.comments.LikeComment(ctx, c.ID, "user-b")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyLiked)

	ns, err := e.notifications.ListForUser(ctx, "user-a")
	require.NoError(t, err)
	likes := 0
	for _, n := range ns {
		if n.Type == domain.NotificationTypeLike {
			likes++
		}
	}
	assert.Equal(t, 1, likes)

	count, err = e.comments.UnlikeComment(ctx, c.ID, "user-b")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Forgiving for non-likers.
	count, err = e.comments.UnlikeComment(ctx, c.ID, "user-b")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestListComments_OldestFirst(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")
	tag := e.mustTag(t, "go")
	p := e.mustPost(t, "user-a", []string{tag.ID}, domain.PostStatusPublished)

	var ids []string
	for _, content := range []string{"one", "two", "three"} {
		c, err := e.comments.CreateComment(ctx, "user-a", CreateCommentInput{
			PostID: p.ID, Content: content,
		})
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	list, err := e.comments.ListComments(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, c := range list {
		assert.Equal(t, ids[i], c.ID)
	}
}
