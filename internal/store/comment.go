package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
	"github.com/vedantlahane/myblog-sub000/internal/sse"
)

// CreateComment stores a new comment.
func (s *Store) CreateComment(ctx context.Context, c *domain.Comment) error {
	if err := s.Comments.Create(ctx, c.ID, c); err != nil {
		return err
	}
	s.emit(sse.Event{Type: sse.EventCommentCreated, Data: c})
	return nil
}

// GetComment retrieves a comment by ID.
func (s *Store) GetComment(ctx context.Context, commentID string) (*domain.Comment, error) {
	return s.Comments.Get(ctx, commentID)
}

// UpdateComment rewrites a comment document.
func (s *Store) UpdateComment(ctx context.Context, c *domain.Comment) error {
	return s.Comments.Update(ctx, c.ID, c)
}

// ListCommentsByPost returns all comments on a post, oldest first so threads
// can be reconstructed by grouping on ParentID in order.
func (s *Store) ListCommentsByPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	for c, err := range s.Comments.ListByIndex(ctx, "post", postID) {
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})

	return comments, nil
}

// ListRepliesByParent returns all direct replies to a comment, oldest first.
func (s *Store) ListRepliesByParent(ctx context.Context, parentID string) ([]*domain.Comment, error) {
	var replies []*domain.Comment
	for c, err := range s.Comments.ListByIndex(ctx, "parent", parentID) {
		if err != nil {
			return nil, err
		}
		replies = append(replies, c)
	}

	sort.Slice(replies, func(i, j int) bool {
		return replies[i].CreatedAt.Before(replies[j].CreatedAt)
	})

	return replies, nil
}

// AddCommentLike adds a user to a comment's like set and returns the new
// like count. Returns ErrAlreadyExists if the user already liked it.
func (s *Store) AddCommentLike(ctx context.Context, commentID, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var count int
	err := s.mutateComment(commentID, func(c *domain.Comment) error {
		if c.HasLiked(userID) {
			return ErrAlreadyExists
		}
		c.Likes = append(c.Likes, userID)
		c.Touch()
		count = len(c.Likes)
		return nil
	})
	return count, err
}

// RemoveCommentLike removes a user from a comment's like set and returns the
// new like count. Removing a non-member is a no-op that still succeeds.
func (s *Store) RemoveCommentLike(ctx context.Context, commentID, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var count int
	err := s.mutateComment(commentID, func(c *domain.Comment) error {
		likes := c.Likes[:0]
		for _, id := range c.Likes {
			if id != userID {
				likes = append(likes, id)
			}
		}
		if len(likes) != len(c.Likes) {
			c.Likes = likes
			c.Touch()
		}
		count = len(likes)
		return nil
	})
	return count, err
}

// mutateComment applies fn to a comment inside a single transaction.
// Only safe for fields that are not covered by a secondary index.
func (s *Store) mutateComment(commentID string, fn func(*domain.Comment) error) error {
	key := []byte(prefixComment + commentID)

	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var c domain.Comment
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &c)
		}); err != nil {
			return err
		}

		if err := fn(&c); err != nil {
			return err
		}

		data, err := json.Marshal(&c)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}
