package store

import (
	"context"
	"sort"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
	"github.com/vedantlahane/myblog-sub000/internal/sse"
)

// CreateNotification stores a notification and pushes it to the recipient's
// SSE stream.
func (s *Store) CreateNotification(ctx context.Context, n *domain.Notification) error {
	if err := s.Notifications.Create(ctx, n.ID, n); err != nil {
		return err
	}
	s.emit(sse.Event{Type: sse.EventNotificationCreated, UserID: n.RecipientID, Data: n})
	return nil
}

// GetNotification retrieves a notification by ID.
func (s *Store) GetNotification(ctx context.Context, notificationID string) (*domain.Notification, error) {
	return s.Notifications.Get(ctx, notificationID)
}

// ListNotificationsByRecipient returns all notifications for one user,
// newest first.
func (s *Store) ListNotificationsByRecipient(ctx context.Context, userID string) ([]*domain.Notification, error) {
	var notifications []*domain.Notification
	for n, err := range s.Notifications.ListByIndex(ctx, "recipient", userID) {
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})

	return notifications, nil
}

// MarkNotificationRead flips a notification's read flag.
func (s *Store) MarkNotificationRead(ctx context.Context, notificationID string) error {
	n, err := s.Notifications.Get(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.IsRead {
		return nil
	}
	n.IsRead = true
	n.Touch()
	return s.Notifications.Update(ctx, n.ID, n)
}

// MarkAllNotificationsRead marks every unread notification for a user as read.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	notifications, err := s.ListNotificationsByRecipient(ctx, userID)
	if err != nil {
		return err
	}
	for _, n := range notifications {
		if n.IsRead {
			continue
		}
		n.IsRead = true
		n.Touch()
		if err := s.Notifications.Update(ctx, n.ID, n); err != nil {
			return err
		}
	}
	return nil
}

// DeleteNotification removes a notification. Idempotent.
func (s *Store) DeleteNotification(ctx context.Context, notificationID string) error {
	return s.Notifications.Delete(ctx, notificationID)
}
