package store

import (
	"context"
	"sort"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
)

// CreateDraft stores a new draft.
func (s *Store) CreateDraft(ctx context.Context, d *domain.Draft) error {
	return s.Drafts.Create(ctx, d.ID, d)
}

// GetDraft retrieves a draft by ID.
func (s *Store) GetDraft(ctx context.Context, draftID string) (*domain.Draft, error) {
	return s.Drafts.Get(ctx, draftID)
}

// UpdateDraft rewrites a draft document.
func (s *Store) UpdateDraft(ctx context.Context, d *domain.Draft) error {
	return s.Drafts.Update(ctx, d.ID, d)
}

// DeleteDraft removes a draft. Idempotent.
func (s *Store) DeleteDraft(ctx context.Context, draftID string) error {
	return s.Drafts.Delete(ctx, draftID)
}

// ListDraftsByLineage returns all drafts in a version lineage, ordered by
// version descending (newest revision first).
func (s *Store) ListDraftsByLineage(ctx context.Context, lineageKey string) ([]*domain.Draft, error) {
	var drafts []*domain.Draft
	for d, err := range s.Drafts.ListByIndex(ctx, "lineage", lineageKey) {
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}

	sort.Slice(drafts, func(i, j int) bool {
		return drafts[i].Version > drafts[j].Version
	})

	return drafts, nil
}

// ListDraftsByAuthor returns all drafts by one author, newest first.
func (s *Store) ListDraftsByAuthor(ctx context.Context, authorID string) ([]*domain.Draft, error) {
	var drafts []*domain.Draft
	for d, err := range s.Drafts.ListByIndex(ctx, "author", authorID) {
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}

	sort.Slice(drafts, func(i, j int) bool {
		return drafts[i].CreatedAt.After(drafts[j].CreatedAt)
	})

	return drafts, nil
}

// NextDraftVersion returns the version number the next draft created in the
// given lineage should carry: one more than the current maximum, starting at 1.
func (s *Store) NextDraftVersion(ctx context.Context, lineageKey string) (int, error) {
	maxVersion := 0
	for d, err := range s.Drafts.ListByIndex(ctx, "lineage", lineageKey) {
		if err != nil {
			return 0, err
		}
		if d.Version > maxVersion {
			maxVersion = d.Version
		}
	}
	return maxVersion + 1, nil
}
