package domain

import "slices"

// DeletedCommentPlaceholder replaces the content of soft-deleted comments.
const DeletedCommentPlaceholder = "[deleted]"

// Comment represents a comment on a post, optionally replying to another comment.
//
// Comments are soft-deleted: the record stays so child replies keep a valid
// parent, with content replaced by a placeholder.
type Comment struct {
	Record
	PostID    string   `json:"post_id"`
	AuthorID  string   `json:"author_id"`
	ParentID  string   `json:"parent_id,omitempty"` // Empty means top-level
	Content   string   `json:"content"`
	Likes     []string `json:"likes,omitempty"` // User IDs, set semantics
	IsDeleted bool     `json:"is_deleted"`
}

// IsReply returns true if this comment replies to another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != ""
}

// HasLiked returns true if the given user has liked this comment.
func (c *Comment) HasLiked(userID string) bool {
	return slices.Contains(c.Likes, userID)
}

// MarkDeleted soft-deletes the comment, replacing its content with the
// placeholder so replies retain a valid parent.
func (c *Comment) MarkDeleted() {
	c.IsDeleted = true
	c.Content = DeletedCommentPlaceholder
	c.Touch()
}
