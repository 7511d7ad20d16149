package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
	apperrors "github.com/vedantlahane/myblog-sub000/internal/errors"
	"github.com/vedantlahane/myblog-sub000/internal/store"
)

func TestSaveDraft_VersionsAreMonotonicPerLineage(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")

	d1, err := e.drafts.SaveDraft(ctx, "user-a", SaveDraftInput{Title: "v1", Content: "first"})
	require.NoError(t, err)
	assert.Equal(t, 1, d1.Version)

	// Saving over the same draft document never renumbers it.
	d1again, err := e.drafts.SaveDraft(ctx, "user-a", SaveDraftInput{
		DraftID: d1.ID, Title: "v1 edited", Content: "first, edited",
	})
	require.NoError(t, err)
	assert.Equal(t, d1.ID, d1again.ID)
	assert.Equal(t, 1, d1again.Version)
	assert.Equal(t, "v1 edited", d1again.Title)

	d2, err := e.drafts.SaveDraft(ctx, "user-a", SaveDraftInput{Title: "v2", Content: "second"})
	require.NoError(t, err)
	assert.Equal(t, 2, d2.Version)
}

func TestSaveDraft_PostAndAuthorLineagesAreIndependent(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")
	tag := e.mustTag(t, "go")
	p := e.mustPost(t, "user-a", []string{tag.ID}, domain.PostStatusPublished)

	loose, err := e.drafts.SaveDraft(ctx, "user-a", SaveDraftInput{Title: "loose", Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, 1, loose.Version)

	bound, err := e.drafts.SaveDraft(ctx, "user-a", SaveDraftInput{
		PostID: p.ID, Title: "revision", Content: "y",
	})
	require.NoError(t, err)
	// The post-bound lineage starts at 1 regardless of the author lineage.
	assert.Equal(t, 1, bound.Version)
}

func TestSaveDraft_OwnershipAndLineageRules(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")
	e.mustUser(t, "user-b", "Bob")
	tag := e.mustTag(t, "go")
	p := e.mustPost(t, "user-a", []string{tag.ID}, domain.PostStatusPublished)

	// Drafting a revision of someone else's post is forbidden.
	_, err := e.drafts.SaveDraft(ctx, "user-b", SaveDraftInput{PostID: p.ID, Title: "nope"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	d, err := e.drafts.SaveDraft(ctx, "user-a", SaveDraftInput{Title: "mine"})
	require.NoError(t, err)

	// Saving someone else's draft is forbidden.
	_, err = e.drafts.SaveDraft(ctx, "user-b", SaveDraftInput{DraftID: d.ID, Title: "stolen"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// A draft cannot move between lineages.
	_, err = e.drafts.SaveDraft(ctx, "user-a", SaveDraftInput{DraftID: d.ID, PostID: p.ID, Title: "moved"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestPublishDraft_CreatesNewPostAndDeletesDraft(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")
	tag := e.mustTag(t, "go")

	d, err := e.drafts.SaveDraft(ctx, "user-a", SaveDraftInput{
		Title:   "Fresh Off the Draft",
		Content: "some content here",
		TagIDs:  []string{tag.ID},
	})
	require.NoError(t, err)

	p, err := e.drafts.PublishDraft(ctx, d.ID, Caller{ID: "user-a"})
	require.NoError(t, err)
	assert.Equal(t, domain.PostStatusPublished, p.Status)
	assert.NotNil(t, p.PublishedAt)
	assert.Equal(t, "user-a", p.AuthorID)
	assert.Equal(t, 1, e.tagCount(t, tag.ID))

	// Exactly one post exists and the draft is gone.
	posts, err := e.store.ListPostsByAuthor(ctx, "user-a")
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	_, err = e.store.GetDraft(ctx, d.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPublishDraft_UpdatesBoundPost(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")
	goTag := e.mustTag(t, "go")
	rustTag := e.mustTag(t, "rust")
	p := e.mustPost(t, "user-a", []string{goTag.ID}, domain.PostStatusPublished)

	d, err := e.drafts.SaveDraft(ctx, "user-a", SaveDraftInput{
		PostID:  p.ID,
		Title:   "Revised Title",
		Content: "revised content",
		TagIDs:  []string{rustTag.ID},
	})
	require.NoError(t, err)

	published, err := e.drafts.PublishDraft(ctx, d.ID, Caller{ID: "user-a"})
	require.NoError(t, err)

	// Same post, revised fields, tag ledger moved with the revision.
	assert.Equal(t, p.ID, published.ID)
	assert.Equal(t, "Revised Title", published.Title)
	assert.Equal(t, p.Slug, published.Slug)
	assert.Equal(t, 0, e.tagCount(t, goTag.ID))
	assert.Equal(t, 1, e.tagCount(t, rustTag.ID))

	posts, err := e.store.ListPostsByAuthor(ctx, "user-a")
	require.NoError(t, err)
	assert.Len(t, posts, 1, "publishing a revision must not create a second post")

	_, err = e.store.GetDraft(ctx, d.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPublishDraft_OnlyAuthorMayPublish(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")
	e.mustUser(t, "user-b", "Bob")

	d, err := e.drafts.SaveDraft(ctx, "user-a", SaveDraftInput{Title: "secret", Content: "x"})
	require.NoError(t, err)

	_, err = e.drafts.PublishDraft(ctx, d.ID, Caller{ID: "user-b"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Even admins do not publish on someone's behalf.
	_, err = e.drafts.PublishDraft(ctx, d.ID, Caller{ID: "user-b", Admin: true})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestListVersionsForPost_NewestVersionFirst(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustUser(t, "user-a", "Alice")
	tag := e.mustTag(t, "go")
	p := e.mustPost(t, "user-a", []string{tag.ID}, domain.PostStatusPublished)

	for _, title := range []string{"r1", "r2", "r3"} {
		_, err := e.drafts.SaveDraft(ctx, "user-a", SaveDraftInput{PostID: p.ID, Title: title})
		require.NoError(t, err)
	}

	versions, err := e.drafts.ListVersionsForPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, 3, versions[0].Version)
	assert.Equal(t, 2, versions[1].Version)
	assert.Equal(t, 1, versions[2].Version)
}

func TestPublishDraft_DanglingDraftRetryMergesIntoSamePost(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	author := e.mustUser(t, "user-a", "Alice")
	tag := e.mustTag(t, "go")
	caller := Caller{ID: author.ID}

	d, err := e.drafts.SaveDraft(ctx, author.ID, SaveDraftInput{
		Title:   "Going Async",
		Content: "draft content",
		TagIDs:  []string{tag.ID},
	})
	require.NoError(t, err)

	post, err := e.drafts.PublishDraft(ctx, d.ID, caller)
	require.NoError(t, err)

	// Simulate the draft delete failing after the post write committed: the
	// draft document survives, bound to the post it just published.
	dangling := &domain.Draft{
		PostID:   post.ID,
		AuthorID: author.ID,
		Title:    d.Title,
		Content:  d.Content,
		TagIDs:   d.TagIDs,
		Version:  d.Version,
	}
	dangling.ID = d.ID
	dangling.InitTimestamps()
	require.NoError(t, e.store.CreateDraft(ctx, dangling))

	// Retrying goes down the update path: same post, same slug, no duplicate.
	again, err := e.drafts.PublishDraft(ctx, dangling.ID, caller)
	require.NoError(t, err)
	assert.Equal(t, post.ID, again.ID)
	assert.Equal(t, post.Slug, again.Slug)

	posts, err := e.posts.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	// The retry also cleared the draft, and the ledger saw no extra delta.
	_, err = e.store.GetDraft(ctx, dangling.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, 1, e.tagCount(t, tag.ID))
}
