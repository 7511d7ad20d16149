package service

import (
	"context"
	"log/slog"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
	apperrors "github.com/vedantlahane/myblog-sub000/internal/errors"
	"github.com/vedantlahane/myblog-sub000/internal/id"
	"github.com/vedantlahane/myblog-sub000/internal/store"
)

// CommentService owns comments and their like sets.
//
// Comments are soft-deleted so reply threads keep valid parents. A reply
// notifies both the parent comment's author and the post's author in one
// deduplicated fan-out; commenting on your own post or replying to yourself
// never notifies you.
type CommentService struct {
	store         *store.Store
	notifications *NotificationService
	logger        *slog.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(st *store.Store, notifications *NotificationService, logger *slog.Logger) *CommentService {
	return &CommentService{
		store:         st,
		notifications: notifications,
		logger:        logger,
	}
}

// CreateCommentInput carries a validated new comment.
type CreateCommentInput struct {
	PostID   string
	ParentID string // Empty for a top-level comment
	Content  string
}

// CreateComment adds a comment to a post, optionally as a reply.
func (s *CommentService) CreateComment(ctx context.Context, authorID string, in CreateCommentInput) (*domain.Comment, error) {
	p, err := s.store.GetPost(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	recipients := []string{p.AuthorID}
	if in.ParentID != "" {
		parent, err := s.store.GetComment(ctx, in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, apperrors.Validation("parent comment belongs to a different post")
		}
		// Reply: parent author and post author are both notified; Notify
		// deduplicates when they are the same person.
		recipients = append([]string{parent.AuthorID}, recipients...)
	}

	commentID, err := id.Generate("comment")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to generate comment id")
	}

	c := &domain.Comment{
		PostID:   in.PostID,
		AuthorID: authorID,
		ParentID: in.ParentID,
		Content:  in.Content,
	}
	c.ID = commentID
	c.InitTimestamps()

	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, err
	}

	s.notifications.Notify(ctx, NotifyInput{
		Type:       domain.NotificationTypeComment,
		SenderID:   authorID,
		Recipients: recipients,
		Message:    "New comment on your content",
		EntityType: domain.EntityTypeComment,
		EntityID:   c.ID,
	})

	s.logger.Info("comment created",
		"comment_id", c.ID, "post_id", in.PostID, "author_id", authorID, "is_reply", c.IsReply())
	return c, nil
}

// GetComment returns a comment by ID.
func (s *CommentService) GetComment(ctx context.Context, commentID string) (*domain.Comment, error) {
	return s.store.GetComment(ctx, commentID)
}

// ListComments returns all comments on a post, oldest first.
func (s *CommentService) ListComments(ctx context.Context, postID string) ([]*domain.Comment, error) {
	return s.store.ListCommentsByPost(ctx, postID)
}

// ListReplies returns the direct replies to a comment, oldest first.
func (s *CommentService) ListReplies(ctx context.Context, commentID string) ([]*domain.Comment, error) {
	return s.store.ListRepliesByParent(ctx, commentID)
}

// DeleteComment soft-deletes a comment.
//
// The record is never removed: the deleted flag flips and the content is
// replaced with a placeholder, so replies keep a valid parent.
func (s *CommentService) DeleteComment(ctx context.Context, commentID string, caller Caller) error {
	c, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if !caller.CanModify(c.AuthorID) {
		return apperrors.Forbidden("only the author or an admin can delete a comment")
	}
	if c.IsDeleted {
		return nil
	}

	c.MarkDeleted()
	if err := s.store.UpdateComment(ctx, c); err != nil {
		return err
	}

	s.logger.Info("comment soft-deleted", "comment_id", commentID, "caller_id", caller.ID)
	return nil
}

// LikeComment adds the user to the comment's like set and returns the new
// count. Rejects duplicates with AlreadyLiked and notifies the comment's
// author on success.
func (s *CommentService) LikeComment(ctx context.Context, commentID, userID string) (int, error) {
	count, err := s.store.AddCommentLike(ctx, commentID, userID)
	if err != nil {
		if apperrors.Is(err, store.ErrAlreadyExists) {
			return 0, apperrors.AlreadyLiked("comment already liked")
		}
		return 0, err
	}

	c, err := s.store.GetComment(ctx, commentID)
	if err == nil {
		s.notifications.Notify(ctx, NotifyInput{
			Type:       domain.NotificationTypeLike,
			SenderID:   userID,
			Recipients: []string{c.AuthorID},
			Message:    "Someone liked your comment",
			EntityType: domain.EntityTypeComment,
			EntityID:   commentID,
		})
	}

	return count, nil
}

// UnlikeComment removes the user from the comment's like set. Forgiving.
func (s *CommentService) UnlikeComment(ctx context.Context, commentID, userID string) (int, error) {
	return s.store.RemoveCommentLike(ctx, commentID, userID)
}
