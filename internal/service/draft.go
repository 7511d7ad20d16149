package service

import (
	"context"
	"log/slog"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
	apperrors "github.com/vedantlahane/myblog-sub000/internal/errors"
	"github.com/vedantlahane/myblog-sub000/internal/id"
	"github.com/vedantlahane/myblog-sub000/internal/store"
)

// DraftService versions work-in-progress revisions and publishes them.
//
// Version numbers increase monotonically within a lineage (the revised post,
// or the author for post-less drafts) and are assigned once when a draft
// document is created - saving over an existing draft never renumbers it.
// Publish is dual-path: a draft bound to a post updates that post, an
// unbound draft creates one; both routes go through PostService so the tag
// ledger sees identical semantics either way.
type DraftService struct {
	store  *store.Store
	posts  *PostService
	logger *slog.Logger
}

// NewDraftService creates a new draft service.
func NewDraftService(st *store.Store, posts *PostService, logger *slog.Logger) *DraftService {
	return &DraftService{
		store:  st,
		posts:  posts,
		logger: logger,
	}
}

// SaveDraftInput carries a draft save. An empty DraftID creates a new draft
// document (and claims the next version in its lineage); a non-empty one
// updates that document in place.
type SaveDraftInput struct {
	DraftID    string
	PostID     string
	Title      string
	Content    string
	Excerpt    string
	CoverImage string
	TagIDs     []string
	Changes    string
	AutoSave   bool
}

// SaveDraft creates or updates a draft for the given author.
//
// When the draft targets an existing post, the author must own that post.
// Auto-saves and explicit saves share the same version sequence.
func (s *DraftService) SaveDraft(ctx context.Context, authorID string, in SaveDraftInput) (*domain.Draft, error) {
	if in.PostID != "" {
		p, err := s.store.GetPost(ctx, in.PostID)
		if err != nil {
			return nil, err
		}
		if p.AuthorID != authorID {
			return nil, apperrors.Forbidden("cannot draft a revision of someone else's post")
		}
	}

	if in.DraftID != "" {
		return s.updateDraft(ctx, authorID, in)
	}
	return s.createDraft(ctx, authorID, in)
}

func (s *DraftService) createDraft(ctx context.Context, authorID string, in SaveDraftInput) (*domain.Draft, error) {
	draftID, err := id.Generate("draft")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to generate draft id")
	}

	lineage := domain.DraftLineageKey(in.PostID, authorID)
	version, err := s.store.NextDraftVersion(ctx, lineage)
	if err != nil {
		return nil, err
	}

	d := &domain.Draft{
		PostID:     in.PostID,
		AuthorID:   authorID,
		Title:      in.Title,
		Content:    in.Content,
		Excerpt:    in.Excerpt,
		CoverImage: in.CoverImage,
		TagIDs:     dedupe(in.TagIDs),
		Version:    version,
		Changes:    in.Changes,
		AutoSave:   in.AutoSave,
	}
	d.ID = draftID
	d.InitTimestamps()

	if err := s.store.CreateDraft(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("draft created",
		"draft_id", d.ID, "author_id", authorID, "lineage", lineage, "version", version)
	return d, nil
}

func (s *DraftService) updateDraft(ctx context.Context, authorID string, in SaveDraftInput) (*domain.Draft, error) {
	d, err := s.store.GetDraft(ctx, in.DraftID)
	if err != nil {
		return nil, err
	}
	if d.AuthorID != authorID {
		return nil, apperrors.Forbidden("cannot save someone else's draft")
	}
	if d.PostID != in.PostID {
		return nil, apperrors.Validation("a draft cannot move between lineages")
	}

	// Version is assigned at creation and never bumped by a save.
	d.Title = in.Title
	d.Content = in.Content
	d.Excerpt = in.Excerpt
	d.CoverImage = in.CoverImage
	d.TagIDs = dedupe(in.TagIDs)
	d.Changes = in.Changes
	d.AutoSave = in.AutoSave
	d.Touch()

	if err := s.store.UpdateDraft(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// PublishDraft turns a draft into a published post and deletes the draft.
//
// A draft bound to a post updates it with the draft's fields and forces
// status published; an unbound draft creates a new published post and is
// bound to it before the delete. The draft is deleted only after the post
// write succeeds, so a failed publish leaves it intact and retryable. If
// the post write succeeds but the draft delete fails the draft dangles -
// the caller sees success, and because the dangling draft is by then bound
// to the published post, a retry goes down the update path and merges into
// that post instead of minting a second one.
func (s *DraftService) PublishDraft(ctx context.Context, draftID string, caller Caller) (*domain.Post, error) {
	d, err := s.store.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if d.AuthorID != caller.ID {
		return nil, apperrors.Forbidden("only the draft's author can publish it")
	}

	published := domain.PostStatusPublished
	revision := d.PostID != ""
	var post *domain.Post
	if revision {
		post, err = s.posts.UpdatePost(ctx, d.PostID, caller, UpdatePostInput{
			Title:      &d.Title,
			Content:    &d.Content,
			Excerpt:    &d.Excerpt,
			CoverImage: &d.CoverImage,
			TagIDs:     d.TagIDs,
			Status:     &published,
		})
		if err != nil {
			return nil, err
		}
	} else {
		post, err = s.posts.CreatePost(ctx, d.AuthorID, CreatePostInput{
			Title:      d.Title,
			Content:    d.Content,
			Excerpt:    d.Excerpt,
			CoverImage: d.CoverImage,
			TagIDs:     d.TagIDs,
			Status:     published,
		})
		if err != nil {
			return nil, err
		}

		// Bind the draft to the post it just created. Should the delete
		// below fail, the dangling draft retries down the update path.
		d.PostID = post.ID
		d.Touch()
		if bindErr := s.store.UpdateDraft(ctx, d); bindErr != nil {
			s.logger.Warn("failed to bind draft to its published post",
				"draft_id", draftID, "post_id", post.ID, "error", bindErr)
		}
	}

	if err := s.store.DeleteDraft(ctx, draftID); err != nil {
		// The post write committed; a dangling draft is the accepted gap.
		s.logger.Warn("draft deletion failed after publish, draft dangles",
			"draft_id", draftID, "post_id", post.ID, "error", err)
	}

	s.logger.Info("draft published",
		"draft_id", draftID, "post_id", post.ID, "revised_existing", revision)
	return post, nil
}

// GetDraft returns a draft. Only its author may read it.
func (s *DraftService) GetDraft(ctx context.Context, draftID string, caller Caller) (*domain.Draft, error) {
	d, err := s.store.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if d.AuthorID != caller.ID && !caller.Admin {
		return nil, apperrors.Forbidden("cannot read someone else's draft")
	}
	return d, nil
}

// DeleteDraft discards a draft without publishing. Only its author may do so.
func (s *DraftService) DeleteDraft(ctx context.Context, draftID string, caller Caller) error {
	d, err := s.store.GetDraft(ctx, draftID)
	if err != nil {
		return err
	}
	if d.AuthorID != caller.ID && !caller.Admin {
		return apperrors.Forbidden("cannot delete someone else's draft")
	}
	return s.store.DeleteDraft(ctx, draftID)
}

// ListVersionsForPost returns the revision history of a post's draft
// lineage, newest version first.
func (s *DraftService) ListVersionsForPost(ctx context.Context, postID string) ([]*domain.Draft, error) {
	return s.store.ListDraftsByLineage(ctx, domain.DraftLineageKey(postID, ""))
}

// ListVersionsForAuthor returns an author's post-less draft lineage,
// newest version first.
func (s *DraftService) ListVersionsForAuthor(ctx context.Context, authorID string) ([]*domain.Draft, error) {
	return s.store.ListDraftsByLineage(ctx, domain.DraftLineageKey("", authorID))
}

// ListDrafts returns all of an author's drafts, newest first.
func (s *DraftService) ListDrafts(ctx context.Context, authorID string) ([]*domain.Draft, error) {
	return s.store.ListDraftsByAuthor(ctx, authorID)
}
