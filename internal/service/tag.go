package service

import (
	"context"
	"log/slog"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
	apperrors "github.com/vedantlahane/myblog-sub000/internal/errors"
	"github.com/vedantlahane/myblog-sub000/internal/id"
	"github.com/vedantlahane/myblog-sub000/internal/store"
	"github.com/vedantlahane/myblog-sub000/internal/util"
)

// TagService orchestrates global tag operations.
// Tags are community-wide - no ownership model. Post counts on tags are
// mutated only through the delta path driven by post mutations.
type TagService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(st *store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:  st,
		logger: logger,
	}
}

// CreateTag creates a new tag. The name must be unique case-insensitively;
// the slug is derived from the normalized name.
func (s *TagService) CreateTag(ctx context.Context, name, description string) (*domain.Tag, error) {
	slug := util.NormalizeTagSlug(name)
	if slug == "" {
		return nil, apperrors.Validation("tag name is empty after normalization")
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to generate tag id")
	}

	t := &domain.Tag{
		Name:        name,
		Slug:        slug,
		Description: description,
	}
	t.ID = tagID
	t.InitTimestamps()

	if err := s.store.CreateTag(ctx, t); err != nil {
		if apperrors.Is(err, store.ErrAlreadyExists) {
			return nil, apperrors.AlreadyExists("tag already exists: " + slug)
		}
		return nil, err
	}

	s.logger.Info("tag created", "tag_id", t.ID, "slug", t.Slug)
	return t, nil
}

// GetTag returns a tag by ID.
func (s *TagService) GetTag(ctx context.Context, tagID string) (*domain.Tag, error) {
	return s.store.GetTag(ctx, tagID)
}

// GetTagBySlug returns a tag by its canonical slug.
func (s *TagService) GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	return s.store.GetTagBySlug(ctx, slug)
}

// ListTags returns all tags ordered by popularity.
func (s *TagService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx)
}

// UpdateTag updates a tag's description. Name and slug are immutable:
// posts reference tags by ID and slugs are linked externally.
func (s *TagService) UpdateTag(ctx context.Context, tagID, description string) (*domain.Tag, error) {
	t, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return nil, err
	}

	t.Description = description
	t.Touch()
	if err := s.store.UpdateTag(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTag removes a tag. Admin-only; refused while any post still
// references the tag.
func (s *TagService) DeleteTag(ctx context.Context, tagID string, caller Caller) error {
	if !caller.Admin {
		return apperrors.Forbidden("only admins can delete tags")
	}

	t, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return err
	}
	if t.PostCount > 0 {
		return apperrors.Validation("tag is still referenced by posts")
	}

	// The count can drift low after secondary-effect failures, so verify
	// against the actual membership index before removing.
	posts, err := s.store.ListPostsByTag(ctx, tagID)
	if err != nil {
		return err
	}
	if len(posts) > 0 {
		return apperrors.Validation("tag is still referenced by posts")
	}

	if err := s.store.DeleteTag(ctx, tagID); err != nil {
		return err
	}

	s.logger.Info("tag deleted", "tag_id", tagID, "caller_id", caller.ID)
	return nil
}
