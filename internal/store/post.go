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

// CreatePost stores a new post.
func (s *Store) CreatePost(ctx context.Context, p *domain.Post) error {
	if err := s.Posts.Create(ctx, p.ID, p); err != nil {
		return err
	}
	if p.IsPublished() {
		s.emit(sse.Event{Type: sse.EventPostPublished, Data: p})
	}
	return nil
}

// GetPost retrieves a post by ID.
func (s *Store) GetPost(ctx context.Context, postID string) (*domain.Post, error) {
	return s.Posts.Get(ctx, postID)
}

// GetPostBySlug retrieves a post by its slug.
func (s *Store) GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return s.Posts.GetByIndex(ctx, "slug", slug)
}

// UpdatePost rewrites a post document, maintaining its secondary indexes.
func (s *Store) UpdatePost(ctx context.Context, p *domain.Post) error {
	return s.Posts.Update(ctx, p.ID, p)
}

// PublishPost rewrites a post document like UpdatePost and emits the
// published event. Callers use it for the first transition into published;
// plain edits go through UpdatePost, which stays silent.
func (s *Store) PublishPost(ctx context.Context, p *domain.Post) error {
	if err := s.Posts.Update(ctx, p.ID, p); err != nil {
		return err
	}
	s.emit(sse.Event{Type: sse.EventPostPublished, Data: p})
	return nil
}

// DeletePost removes a post. Idempotent.
func (s *Store) DeletePost(ctx context.Context, postID string) error {
	if err := s.Posts.Delete(ctx, postID); err != nil {
		return err
	}
	s.emit(sse.Event{Type: sse.EventPostDeleted, Data: map[string]string{"id": postID}})
	return nil
}

// ListPosts returns all posts ordered by creation time (newest first).
func (s *Store) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	var posts []*domain.Post
	for p, err := range s.Posts.List(ctx) {
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	sortPostsNewestFirst(posts)
	return posts, nil
}

// ListPostsByAuthor returns all posts by one author, newest first.
func (s *Store) ListPostsByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error) {
	return s.listPostsByIndex(ctx, "author", authorID)
}

// ListPostsByTag returns all posts referencing one tag, newest first.
func (s *Store) ListPostsByTag(ctx context.Context, tagID string) ([]*domain.Post, error) {
	return s.listPostsByIndex(ctx, "tag", tagID)
}

func (s *Store) listPostsByIndex(ctx context.Context, index, value string) ([]*domain.Post, error) {
	var posts []*domain.Post
	for p, err := range s.Posts.ListByIndex(ctx, index, value) {
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	sortPostsNewestFirst(posts)
	return posts, nil
}

func sortPostsNewestFirst(posts []*domain.Post) {
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

// AddPostLike adds a user to a post's like set and returns the new like count.
//
// The read-modify-write runs in a single transaction. Returns ErrAlreadyExists
// if the user already liked the post. Likes are not indexed, so writing the
// document directly bypasses no index maintenance.
func (s *Store) AddPostLike(ctx context.Context, postID, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var count int
	err := s.mutatePost(postID, func(p *domain.Post) error {
		if p.HasLiked(userID) {
			return ErrAlreadyExists
		}
		p.Likes = append(p.Likes, userID)
		p.Touch()
		count = len(p.Likes)
		return nil
	})
	return count, err
}

// RemovePostLike removes a user from a post's like set and returns the new
// like count. Removing a non-member is a no-op that still succeeds.
func (s *Store) RemovePostLike(ctx context.Context, postID, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var count int
	err := s.mutatePost(postID, func(p *domain.Post) error {
		likes := p.Likes[:0]
		for _, id := range p.Likes {
			if id != userID {
				likes = append(likes, id)
			}
		}
		if len(likes) != len(p.Likes) {
			p.Likes = likes
			p.Touch()
		}
		count = len(likes)
		return nil
	})
	return count, err
}

// IncrementViewCount bumps a post's view counter by one.
func (s *Store) IncrementViewCount(ctx context.Context, postID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.mutatePost(postID, func(p *domain.Post) error {
		p.ViewCount++
		return nil
	})
}

// mutatePost applies fn to a post inside a single transaction.
// Only safe for fields that are not covered by a secondary index.
func (s *Store) mutatePost(postID string, fn func(*domain.Post) error) error {
	key := []byte(prefixPost + postID)

	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var p domain.Post
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		}); err != nil {
			return err
		}

		if err := fn(&p); err != nil {
			return err
		}

		data, err := json.Marshal(&p)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}
