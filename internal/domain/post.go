package domain

import (
	"slices"
	"strings"
	"time"
)

// PostStatus represents where a post sits in its publication lifecycle.
type PostStatus string

const (
	// PostStatusDraft is an unpublished post, visible only to its author.
	PostStatusDraft PostStatus = "draft"
	// PostStatusPublished is a live post, visible to everyone.
	PostStatusPublished PostStatus = "published"
	// PostStatusArchived is a retired post, hidden from listings but not deleted.
	PostStatusArchived PostStatus = "archived"
)

// wordsPerMinute is the reading speed used for read-time estimates.
const wordsPerMinute = 200

// Post represents a blog post.
// Slug is derived once from title + creation timestamp and never changes,
// which guarantees uniqueness without a store-level constraint.
type Post struct {
	Record
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	Content    string     `json:"content"`
	Excerpt    string     `json:"excerpt,omitempty"`
	AuthorID   string     `json:"author_id"` // Immutable after creation
	CoverImage string     `json:"cover_image,omitempty"`
	TagIDs     []string   `json:"tag_ids"` // Non-empty: a post with zero tags is invalid
	Status     PostStatus `json:"status"`
	Likes      []string   `json:"likes,omitempty"` // User IDs, set semantics
	ViewCount  int64      `json:"view_count"`
	ReadTime   int        `json:"read_time"` // Minutes, recomputed when content changes
	// PublishedAt is set exactly once, the first time Status becomes published.
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// IsPublished returns true if the post is live.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// HasLiked returns true if the given user has liked this post.
func (p *Post) HasLiked(userID string) bool {
	return slices.Contains(p.Likes, userID)
}

// HasTag returns true if the post's tag set contains the given tag ID.
func (p *Post) HasTag(tagID string) bool {
	return slices.Contains(p.TagIDs, tagID)
}

// CalculateReadTime estimates reading time in minutes for the given content,
// assuming 200 words per minute. Always at least 1 for non-empty content.
func CalculateReadTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// ValidStatus reports whether s is one of the known post statuses.
func ValidStatus(s PostStatus) bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}
