package store

import (
	"context"
	"encoding/json/v2"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
)

// CreateUser stores a new user account.
// Returns ErrAlreadyExists if the email is already taken (case-insensitive).
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	return s.Users.Create(ctx, u.ID, u)
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.Users.Get(ctx, userID)
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.Users.GetByIndex(ctx, "email", email)
}

// UpdateUser rewrites a user document.
func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	return s.Users.Update(ctx, u.ID, u)
}

// GetUserByRefreshHash retrieves the user holding an active refresh session.
func (s *Store) GetUserByRefreshHash(ctx context.Context, tokenHash string) (*domain.User, error) {
	return s.Users.GetByIndex(ctx, "refresh", tokenHash)
}

// AddFollowing adds targetID to the user's following set.
// Returns ErrAlreadyExists if the user already follows the target.
func (s *Store) AddFollowing(ctx context.Context, userID, targetID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.mutateUser(userID, func(u *domain.User) error {
		if u.IsFollowing(targetID) {
			return ErrAlreadyExists
		}
		u.Following = append(u.Following, targetID)
		u.Touch()
		return nil
	})
}

// AddFollower adds followerID to the user's followers set.
// Adding an existing follower is a no-op: this is the second half of a
// follow operation and must not fail when retried after a partial failure.
func (s *Store) AddFollower(ctx context.Context, userID, followerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.mutateUser(userID, func(u *domain.User) error {
		if u.HasFollower(followerID) {
			return nil
		}
		u.Followers = append(u.Followers, followerID)
		u.Touch()
		return nil
	})
}

// RemoveFollowing removes targetID from the user's following set.
// Removing a non-member is a no-op.
func (s *Store) RemoveFollowing(ctx context.Context, userID, targetID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.mutateUser(userID, func(u *domain.User) error {
		u.Following = removeMember(u.Following, targetID)
		u.Touch()
		return nil
	})
}

// RemoveFollower removes followerID from the user's followers set.
// Removing a non-member is a no-op.
func (s *Store) RemoveFollower(ctx context.Context, userID, followerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.mutateUser(userID, func(u *domain.User) error {
		u.Followers = removeMember(u.Followers, followerID)
		u.Touch()
		return nil
	})
}

func removeMember(set []string, member string) []string {
	out := set[:0]
	for _, id := range set {
		if id != member {
			out = append(out, id)
		}
	}
	return out
}

// mutateUser applies fn to a user inside a single transaction.
// Only safe for fields that are not covered by a secondary index
// (the email index in particular must not change here).
func (s *Store) mutateUser(userID string, fn func(*domain.User) error) error {
	key := []byte(prefixUser + userID)

	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var u domain.User
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &u)
		}); err != nil {
			return err
		}

		if err := fn(&u); err != nil {
			return err
		}

		data, err := json.Marshal(&u)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}
