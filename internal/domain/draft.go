package domain

// Draft represents a saved work-in-progress revision of a post.
//
// A draft belongs to a lineage: the post it revises when PostID is set,
// otherwise the author's line of not-yet-published drafts. Version numbers
// increase monotonically within a lineage and are assigned once at creation —
// saving over an existing draft never changes its version.
type Draft struct {
	Record
	PostID     string   `json:"post_id,omitempty"` // Empty means "not yet published"
	AuthorID   string   `json:"author_id"`         // Immutable after creation
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Excerpt    string   `json:"excerpt,omitempty"`
	CoverImage string   `json:"cover_image,omitempty"`
	TagIDs     []string `json:"tag_ids,omitempty"`
	Version    int      `json:"version"`
	Changes    string   `json:"changes,omitempty"` // Free-text changelog note
	// AutoSave distinguishes periodic background saves from explicit saves.
	// Both share the same version sequence.
	AutoSave bool `json:"auto_save"`
}

// LineageKey returns the index value identifying this draft's version lineage:
// the revised post when one exists, otherwise the author.
func (d *Draft) LineageKey() string {
	return DraftLineageKey(d.PostID, d.AuthorID)
}

// DraftLineageKey builds the lineage key for a (post, author) pair.
func DraftLineageKey(postID, authorID string) string {
	if postID != "" {
		return "post:" + postID
	}
	return "author:" + authorID
}
