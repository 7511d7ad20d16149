package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
	apperrors "github.com/vedantlahane/myblog-sub000/internal/errors"
	"github.com/vedantlahane/myblog-sub000/internal/id"
	"github.com/vedantlahane/myblog-sub000/internal/store"
	"github.com/vedantlahane/myblog-sub000/internal/util"
)

// PostService owns the post lifecycle: creation, edits, status transitions,
// deletion, and the like set.
//
// Every tag-set mutation feeds the tag post-count ledger with a diff
// (add-set and remove-set), never a full decrement/increment pass, so a tag
// kept across an edit is never transiently decremented. Tag deltas and
// notifications run after the primary write commits and their failures are
// absorbed; see the package tests for the resulting drift semantics.
type PostService struct {
	store         *store.Store
	notifications *NotificationService
	logger        *slog.Logger
}

// NewPostService creates a new post service.
func NewPostService(st *store.Store, notifications *NotificationService, logger *slog.Logger) *PostService {
	return &PostService{
		store:         st,
		notifications: notifications,
		logger:        logger,
	}
}

// CreatePostInput carries the validated fields for a new post.
type CreatePostInput struct {
	Title      string
	Content    string
	Excerpt    string
	CoverImage string
	TagIDs     []string
	Status     domain.PostStatus // Empty defaults to draft
}

// UpdatePostInput carries a partial update. Nil pointers mean "unchanged";
// a nil TagIDs slice leaves the tag set untouched.
type UpdatePostInput struct {
	Title      *string
	Content    *string
	Excerpt    *string
	CoverImage *string
	TagIDs     []string
	Status     *domain.PostStatus
}

// CreatePost creates a post for the given author.
//
// The slug is derived from the title plus the creation timestamp, which makes
// it unique without a store-level check, and never changes afterwards - not
// even when the title is edited. A published post notifies all of the
// author's followers.
func (s *PostService) CreatePost(ctx context.Context, authorID string, in CreatePostInput) (*domain.Post, error) {
	if len(in.TagIDs) == 0 {
		return nil, apperrors.Validation("post must reference at least one tag")
	}

	status := in.Status
	if status == "" {
		status = domain.PostStatusDraft
	}
	if !domain.ValidStatus(status) {
		return nil, apperrors.Validationf("invalid post status: %s", status)
	}

	if err := s.verifyTagsExist(ctx, in.TagIDs); err != nil {
		return nil, err
	}

	postID, err := id.Generate("post")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to generate post id")
	}

	now := time.Now()
	p := &domain.Post{
		Title:      in.Title,
		Slug:       util.Slugify(in.Title) + "-" + strconv.FormatInt(now.Unix(), 10),
		Content:    in.Content,
		Excerpt:    in.Excerpt,
		AuthorID:   authorID,
		CoverImage: in.CoverImage,
		TagIDs:     dedupe(in.TagIDs),
		Status:     status,
		ReadTime:   domain.CalculateReadTime(in.Content),
	}
	p.ID = postID
	p.CreatedAt = now
	p.UpdatedAt = now
	if status == domain.PostStatusPublished {
		p.PublishedAt = &now
	}

	if err := s.store.CreatePost(ctx, p); err != nil {
		return nil, err
	}

	// Secondary effects: the post write has committed, failures here are
	// logged and absorbed (see the tag drift note in the service doc).
	s.applyTagDeltas(ctx, p.ID, p.TagIDs, nil)
	if p.IsPublished() {
		s.notifyFollowers(ctx, p)
	}

	s.logger.Info("post created",
		"post_id", p.ID, "author_id", authorID, "status", p.Status, "tags", len(p.TagIDs))
	return p, nil
}

// UpdatePost applies a partial update to a post.
//
// Only the author or an admin may edit. The tag ledger receives the diff
// between the old and new tag sets; tags present in both are untouched.
// The first transition into published sets PublishedAt exactly once and
// fans out to the author's followers; later transitions never overwrite it.
func (s *PostService) UpdatePost(ctx context.Context, postID string, caller Caller, in UpdatePostInput) (*domain.Post, error) {
	p, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !caller.CanModify(p.AuthorID) {
		return nil, apperrors.Forbidden("only the author or an admin can edit a post")
	}

	oldTags := p.TagIDs
	firstPublish := false

	if in.Title != nil {
		p.Title = *in.Title // Slug stays as minted at creation.
	}
	if in.Content != nil && *in.Content != p.Content {
		p.Content = *in.Content
		p.ReadTime = domain.CalculateReadTime(p.Content)
	}
	if in.Excerpt != nil {
		p.Excerpt = *in.Excerpt
	}
	if in.CoverImage != nil {
		p.CoverImage = *in.CoverImage
	}
	if in.TagIDs != nil {
		if len(in.TagIDs) == 0 {
			return nil, apperrors.Validation("post must reference at least one tag")
		}
		newTags := dedupe(in.TagIDs)
		if err := s.verifyTagsExist(ctx, newTags); err != nil {
			return nil, err
		}
		p.TagIDs = newTags
	}
	if in.Status != nil {
		if !domain.ValidStatus(*in.Status) {
			return nil, apperrors.Validationf("invalid post status: %s", *in.Status)
		}
		if *in.Status == domain.PostStatusPublished && p.PublishedAt == nil {
			now := time.Now()
			p.PublishedAt = &now
			firstPublish = true
		}
		p.Status = *in.Status
	}
	p.Touch()

	if firstPublish {
		err = s.store.PublishPost(ctx, p)
	} else {
		err = s.store.UpdatePost(ctx, p)
	}
	if err != nil {
		return nil, err
	}

	s.applyTagDeltas(ctx, p.ID, p.TagIDs, oldTags)
	if firstPublish {
		s.notifyFollowers(ctx, p)
	}

	s.logger.Info("post updated", "post_id", p.ID, "caller_id", caller.ID)
	return p, nil
}

// DeletePost removes a post and decrements the ledger for every tag it held.
func (s *PostService) DeletePost(ctx context.Context, postID string, caller Caller) error {
	p, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if !caller.CanModify(p.AuthorID) {
		return apperrors.Forbidden("only the author or an admin can delete a post")
	}

	if err := s.store.DeletePost(ctx, postID); err != nil {
		return err
	}

	// Compensating decrement for every tag the post referenced.
	s.applyTagDeltas(ctx, p.ID, nil, p.TagIDs)

	s.logger.Info("post deleted", "post_id", postID, "caller_id", caller.ID)
	return nil
}

// GetPost returns a post by ID.
func (s *PostService) GetPost(ctx context.Context, postID string) (*domain.Post, error) {
	return s.store.GetPost(ctx, postID)
}

// GetPostBySlug returns a post by its slug.
func (s *PostService) GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return s.store.GetPostBySlug(ctx, slug)
}

// ListPosts returns all posts, newest first.
func (s *PostService) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	return s.store.ListPosts(ctx)
}

// ListPostsByAuthor returns an author's posts, newest first.
func (s *PostService) ListPostsByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error) {
	return s.store.ListPostsByAuthor(ctx, authorID)
}

// ListPostsByTag returns posts referencing a tag, newest first.
func (s *PostService) ListPostsByTag(ctx context.Context, tagID string) ([]*domain.Post, error) {
	return s.store.ListPostsByTag(ctx, tagID)
}

// RecordView bumps a post's view counter.
func (s *PostService) RecordView(ctx context.Context, postID string) error {
	return s.store.IncrementViewCount(ctx, postID)
}

// LikePost adds the user to the post's like set and returns the new count.
//
// Liking an already-liked post is rejected with AlreadyLiked rather than
// silently ignored. A successful like by someone other than the author
// notifies the author.
func (s *PostService) LikePost(ctx context.Context, postID, userID string) (int, error) {
	count, err := s.store.AddPostLike(ctx, postID, userID)
	if err != nil {
		if apperrors.Is(err, store.ErrAlreadyExists) {
			return 0, apperrors.AlreadyLiked("post already liked")
		}
		return 0, err
	}

	p, err := s.store.GetPost(ctx, postID)
	if err == nil {
		s.notifications.Notify(ctx, NotifyInput{
			Type:       domain.NotificationTypeLike,
			SenderID:   userID,
			Recipients: []string{p.AuthorID},
			Message:    "Someone liked your post",
			EntityType: domain.EntityTypePost,
			EntityID:   postID,
		})
	}

	return count, nil
}

// UnlikePost removes the user from the post's like set and returns the new
// count. Unliking a post you never liked is a forgiving no-op.
func (s *PostService) UnlikePost(ctx context.Context, postID, userID string) (int, error) {
	return s.store.RemovePostLike(ctx, postID, userID)
}

// verifyTagsExist fails with NotFound on the first tag ID that does not
// resolve. Posts reference existing tags only; they never create tags.
func (s *PostService) verifyTagsExist(ctx context.Context, tagIDs []string) error {
	for _, tagID := range tagIDs {
		if _, err := s.store.GetTag(ctx, tagID); err != nil {
			if apperrors.Is(err, store.ErrNotFound) {
				return apperrors.NotFoundf("tag not found: %s", tagID)
			}
			return err
		}
	}
	return nil
}

// applyTagDeltas feeds the ledger the diff between two tag sets:
// +1 for tags only in newTags, -1 for tags only in oldTags. Tags in both
// sets are never touched, so they cannot be transiently decremented by
// concurrent edits. Failures leave the count adrift from true membership
// and are logged, not propagated - the primary write has already committed.
func (s *PostService) applyTagDeltas(ctx context.Context, postID string, newTags, oldTags []string) {
	oldSet := make(map[string]bool, len(oldTags))
	for _, t := range oldTags {
		oldSet[t] = true
	}
	newSet := make(map[string]bool, len(newTags))
	for _, t := range newTags {
		newSet[t] = true
	}

	for _, tagID := range newTags {
		if oldSet[tagID] {
			continue
		}
		if err := s.store.ApplyTagDelta(ctx, tagID, 1); err != nil {
			s.logger.Warn("tag count increment failed, count may drift",
				"tag_id", tagID, "post_id", postID, "error", err)
		}
	}
	for _, tagID := range oldTags {
		if newSet[tagID] {
			continue
		}
		if err := s.store.ApplyTagDelta(ctx, tagID, -1); err != nil {
			s.logger.Warn("tag count decrement failed, count may drift",
				"tag_id", tagID, "post_id", postID, "error", err)
		}
	}
}

// notifyFollowers fans a publish out to every follower of the author.
func (s *PostService) notifyFollowers(ctx context.Context, p *domain.Post) {
	author, err := s.store.GetUser(ctx, p.AuthorID)
	if err != nil {
		s.logger.Warn("failed to load author for publish fan-out",
			"post_id", p.ID, "author_id", p.AuthorID, "error", err)
		return
	}

	s.notifications.Notify(ctx, NotifyInput{
		Type:       domain.NotificationTypePost,
		SenderID:   p.AuthorID,
		Recipients: author.Followers,
		Message:    author.Name + " published a new post",
		EntityType: domain.EntityTypePost,
		EntityID:   p.ID,
	})
}

// dedupe returns the slice with duplicates removed, preserving order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
