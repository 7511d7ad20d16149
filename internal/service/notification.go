package service

import (
	"context"
	"log/slog"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
	apperrors "github.com/vedantlahane/myblog-sub000/internal/errors"
	"github.com/vedantlahane/myblog-sub000/internal/id"
	"github.com/vedantlahane/myblog-sub000/internal/store"
)

// NotificationService creates and queries in-app notifications.
//
// Notify is always invoked after the triggering write has committed; its
// failures are absorbed and logged, never propagated to the primary
// operation.
type NotificationService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(st *store.Store, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		store:  st,
		logger: logger,
	}
}

// NotifyInput describes one fan-out trigger.
type NotifyInput struct {
	Type       domain.NotificationType
	SenderID   string
	Recipients []string
	Message    string
	EntityType domain.EntityType
	EntityID   string
}

// Notify creates at most one notification per recipient.
//
// The recipient set is deduplicated and the sender is always excluded, so
// acting on your own content never notifies you. Individual creation
// failures are logged and skipped - the triggering mutation has already
// committed and is not rolled back.
func (s *NotificationService) Notify(ctx context.Context, in NotifyInput) {
	seen := make(map[string]bool, len(in.Recipients))

	for _, recipientID := range in.Recipients {
		if recipientID == "" || recipientID == in.SenderID || seen[recipientID] {
			continue
		}
		seen[recipientID] = true

		notificationID, err := id.Generate("notif")
		if err != nil {
			s.logger.Warn("failed to generate notification id",
				"recipient_id", recipientID, "type", in.Type, "error", err)
			continue
		}

		n := &domain.Notification{
			RecipientID: recipientID,
			SenderID:    in.SenderID,
			Type:        in.Type,
			Message:     in.Message,
			EntityType:  in.EntityType,
			EntityID:    in.EntityID,
		}
		n.ID = notificationID
		n.InitTimestamps()

		if err := s.store.CreateNotification(ctx, n); err != nil {
			s.logger.Warn("failed to create notification",
				"recipient_id", recipientID, "type", in.Type, "error", err)
		}
	}
}

// ListForUser returns a user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	return s.store.ListNotificationsByRecipient(ctx, userID)
}

// UnreadCount returns how many unread notifications a user has.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	notifications, err := s.store.ListNotificationsByRecipient(ctx, userID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range notifications {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

// MarkRead marks one notification as read. The caller must be its recipient.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	n, err := s.store.GetNotification(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.RecipientID != userID {
		return apperrors.Forbidden("notification belongs to another user")
	}
	return s.store.MarkNotificationRead(ctx, notificationID)
}

// MarkAllRead marks every notification for a user as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.store.MarkAllNotificationsRead(ctx, userID)
}
