package service

import (
	"context"
	"log/slog"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
	apperrors "github.com/vedantlahane/myblog-sub000/internal/errors"
	"github.com/vedantlahane/myblog-sub000/internal/store"
)

// EngagementService owns the follow relationship between users.
//
// Follow is a paired write across two user documents: the actor's following
// set and the target's followers set. There is no cross-document
// transaction, so a failure between the halves breaks the symmetry
// invariant until a corrective pass - that gap is surfaced as an error,
// never hidden.
type EngagementService struct {
	store         *store.Store
	notifications *NotificationService
	logger        *slog.Logger
}

// NewEngagementService creates a new engagement service.
func NewEngagementService(st *store.Store, notifications *NotificationService, logger *slog.Logger) *EngagementService {
	return &EngagementService{
		store:         st,
		notifications: notifications,
		logger:        logger,
	}
}

// Follow makes actorID follow targetID.
//
// Rejects self-follows and duplicate follows. On success the target is
// notified once.
func (s *EngagementService) Follow(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return apperrors.SelfFollow("cannot follow yourself")
	}

	actor, err := s.store.GetUser(ctx, actorID)
	if err != nil {
		return err
	}
	if _, err := s.store.GetUser(ctx, targetID); err != nil {
		return err
	}

	// First half: actor's following set. Duplicates are rejected here so
	// the operation never double-applies.
	if err := s.store.AddFollowing(ctx, actorID, targetID); err != nil {
		if apperrors.Is(err, store.ErrAlreadyExists) {
			return apperrors.AlreadyFollowing("already following this user")
		}
		return err
	}

	// Second half: target's followers set. A failure here leaves the two
	// documents asymmetric; report it rather than pretending success.
	if err := s.store.AddFollower(ctx, targetID, actorID); err != nil {
		s.logger.Error("follow symmetry broken: follower half failed",
			"actor_id", actorID, "target_id", targetID, "error", err)
		return apperrors.Wrap(err, apperrors.CodeInternal, "follow partially applied")
	}

	s.notifications.Notify(ctx, NotifyInput{
		Type:       domain.NotificationTypeFollow,
		SenderID:   actorID,
		Recipients: []string{targetID},
		Message:    actor.Name + " started following you",
		EntityType: domain.EntityTypeUser,
		EntityID:   actorID,
	})

	s.logger.Info("user followed", "actor_id", actorID, "target_id", targetID)
	return nil
}

// Unfollow makes actorID stop following targetID.
// Unfollowing someone you never followed is a forgiving no-op.
func (s *EngagementService) Unfollow(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return apperrors.SelfFollow("cannot unfollow yourself")
	}

	if err := s.store.RemoveFollowing(ctx, actorID, targetID); err != nil {
		return err
	}
	if err := s.store.RemoveFollower(ctx, targetID, actorID); err != nil {
		s.logger.Error("unfollow symmetry broken: follower half failed",
			"actor_id", actorID, "target_id", targetID, "error", err)
		return apperrors.Wrap(err, apperrors.CodeInternal, "unfollow partially applied")
	}

	s.logger.Info("user unfollowed", "actor_id", actorID, "target_id", targetID)
	return nil
}

// Followers returns the users following userID.
func (s *EngagementService) Followers(ctx context.Context, userID string) ([]*domain.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.loadUsers(ctx, u.Followers), nil
}

// Following returns the users userID follows.
func (s *EngagementService) Following(ctx context.Context, userID string) ([]*domain.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.loadUsers(ctx, u.Following), nil
}

// loadUsers resolves user IDs, skipping any that no longer exist.
func (s *EngagementService) loadUsers(ctx context.Context, ids []string) []*domain.User {
	users := make([]*domain.User, 0, len(ids))
	for _, userID := range ids {
		u, err := s.store.GetUser(ctx, userID)
		if err != nil {
			s.logger.Warn("skipping unresolvable user reference", "user_id", userID, "error", err)
			continue
		}
		u.PasswordHash = ""
		users = append(users, u)
	}
	return users
}
