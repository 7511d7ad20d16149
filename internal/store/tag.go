package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
)

// CreateTag creates a new global tag.
// Returns ErrAlreadyExists if a tag with the same name (case-insensitive) exists.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	return s.Tags.Create(ctx, t.ID, t)
}

// GetTag retrieves a tag by ID.
func (s *Store) GetTag(ctx context.Context, tagID string) (*domain.Tag, error) {
	return s.Tags.Get(ctx, tagID)
}

// GetTagByName retrieves a tag by name, case-insensitively.
func (s *Store) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	return s.Tags.GetByIndex(ctx, "name", name)
}

// GetTagBySlug retrieves a tag by its canonical slug.
func (s *Store) GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	return s.Tags.GetByIndex(ctx, "slug", slug)
}

// ListTags returns all tags ordered by post count (descending).
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	var tags []*domain.Tag
	for t, err := range s.Tags.List(ctx) {
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}

	// Sort by post count descending, then by slug for stability.
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].PostCount != tags[j].PostCount {
			return tags[i].PostCount > tags[j].PostCount
		}
		return tags[i].Slug < tags[j].Slug
	})

	return tags, nil
}

// UpdateTag updates a tag's mutable fields.
func (s *Store) UpdateTag(ctx context.Context, t *domain.Tag) error {
	return s.Tags.Update(ctx, t.ID, t)
}

// DeleteTag hard-deletes a tag. Callers must ensure no post still references it.
func (s *Store) DeleteTag(ctx context.Context, tagID string) error {
	return s.Tags.Delete(ctx, tagID)
}

// ApplyTagDelta atomically adjusts a tag's post count by the given delta.
//
// The read-modify-write runs inside a single Badger transaction, so there is
// no race between concurrent deltas to the same tag. The count is clamped at
// zero as a safety guard against over-decrement. PostCount is not part of any
// secondary index, so writing the document directly is safe.
//
// Returns ErrNotFound if the tag does not exist. Callers are trusted to have
// computed the correct delta; no validation against actual post membership
// is performed here.
func (s *Store) ApplyTagDelta(ctx context.Context, tagID string, delta int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(prefixTag + tagID)

	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var t domain.Tag
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &t)
		}); err != nil {
			return err
		}

		t.PostCount += delta
		if t.PostCount < 0 {
			t.PostCount = 0 // Safety guard.
		}
		t.Touch()

		data, err := json.Marshal(t)
		if err != nil {
			return err
		}

		return txn.Set(key, data)
	})
}
