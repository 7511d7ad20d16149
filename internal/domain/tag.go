package domain

// Tag represents a global tag for categorizing posts.
// Tags are shared across all users — no ownership model.
// Name is unique case-insensitively; Slug is derived from it.
type Tag struct {
	Record
	Name        string `json:"name"`
	Slug        string `json:"slug"` // Canonical form: lowercase, hyphenated
	Description string `json:"description,omitempty"`
	// PostCount is a denormalized count of posts referencing this tag.
	// Maintained by delta application on post mutations, never recomputed by scan.
	PostCount int `json:"post_count"`
}
