package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
)

func newTag(id, name, slug string) *domain.Tag {
	t := &domain.Tag{Name: name, Slug: slug}
	t.ID = id
	t.InitTimestamps()
	return t
}

func TestCreateTag_NameUniqueCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateTag(ctx, newTag("tag-1", "Go", "go")))

	err := s.CreateTag(ctx, newTag("tag-2", "go", "golang"))
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestGetTagByName_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateTag(ctx, newTag("tag-1", "Slow Burn", "slow-burn")))

	got, err := s.GetTagByName(ctx, "slow burn")
	require.NoError(t, err)
	assert.Equal(t, "tag-1", got.ID)
}

func TestApplyTagDelta(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateTag(ctx, newTag("tag-1", "go", "go")))

	require.NoError(t, s.ApplyTagDelta(ctx, "tag-1", 1))
	require.NoError(t, s.ApplyTagDelta(ctx, "tag-1", 1))
	require.NoError(t, s.ApplyTagDelta(ctx, "tag-1", -1))

	got, err := s.GetTag(ctx, "tag-1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.PostCount)
}

func TestApplyTagDelta_ClampsAtZero(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateTag(ctx, newTag("tag-1", "go", "go")))

	require.NoError(t, s.ApplyTagDelta(ctx, "tag-1", -1))

	got, err := s.GetTag(ctx, "tag-1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.PostCount)
}

func TestApplyTagDelta_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.ApplyTagDelta(context.Background(), "tag-missing", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListTags_OrderedByPostCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateTag(ctx, newTag("tag-1", "go", "go")))
	require.NoError(t, s.CreateTag(ctx, newTag("tag-2", "rust", "rust")))
	require.NoError(t, s.ApplyTagDelta(ctx, "tag-2", 1))

	tags, err := s.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "tag-2", tags[0].ID)
	assert.Equal(t, "tag-1", tags[1].ID)
}
