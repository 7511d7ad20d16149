package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateReadTime(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected int
	}{
		{"empty", "", 0},
		{"single word", "hello", 1},
		{"under one minute", strings.Repeat("word ", 199), 1},
		{"exactly one minute", strings.Repeat("word ", 200), 1},
		{"just over one minute", strings.Repeat("word ", 201), 2},
		{"five minutes", strings.Repeat("word ", 1000), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateReadTime(tt.content))
		})
	}
}

func TestPost_HasLiked(t *testing.T) {
	p := &Post{Likes: []string{"user-a", "user-b"}}

	assert.True(t, p.HasLiked("user-a"))
	assert.False(t, p.HasLiked("user-c"))
}

func TestDraft_LineageKey(t *testing.T) {
	withPost := &Draft{PostID: "post-1", AuthorID: "user-1"}
	assert.Equal(t, "post:post-1", withPost.LineageKey())

	withoutPost := &Draft{AuthorID: "user-1"}
	assert.Equal(t, "author:user-1", withoutPost.LineageKey())
}

func TestComment_MarkDeleted(t *testing.T) {
	c := &Comment{Content: "original text"}
	c.MarkDeleted()

	assert.True(t, c.IsDeleted)
	assert.Equal(t, DeletedCommentPlaceholder, c.Content)
}

func TestUser_IsFollowing(t *testing.T) {
	u := &User{Following: []string{"user-b"}, Followers: []string{"user-c"}}

	assert.True(t, u.IsFollowing("user-b"))
	assert.False(t, u.IsFollowing("user-c"))
	assert.True(t, u.HasFollower("user-c"))
}
