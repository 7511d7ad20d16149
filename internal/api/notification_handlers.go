package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
)

func (s *Server) registerNotificationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listNotifications",
		Method:      http.MethodGet,
		Path:        "/api/v1/notifications",
		Summary:     "List notifications",
		Description: "Returns the caller's notifications, newest first",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListNotifications)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUnreadCount",
		Method:      http.MethodGet,
		Path:        "/api/v1/notifications/unread",
		Summary:     "Get unread count",
		Description: "Returns how many unread notifications the caller has",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetUnreadCount)

	huma.Register(s.api, huma.Operation{
		OperationID: "markNotificationRead",
		Method:      http.MethodPost,
		Path:        "/api/v1/notifications/{id}/read",
		Summary:     "Mark notification read",
		Description: "Marks one notification as read. The caller must be its recipient.",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMarkNotificationRead)

	huma.Register(s.api, huma.Operation{
		OperationID: "markAllNotificationsRead",
		Method:      http.MethodPost,
		Path:        "/api/v1/notifications/read-all",
		Summary:     "Mark all notifications read",
		Description: "Marks every notification for the caller as read",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMarkAllNotificationsRead)
}

// === DTOs ===

// NotificationResponse contains notification data in API responses.
type NotificationResponse struct {
	ID         string    `json:"id" doc:"Notification ID"`
	SenderID   string    `json:"sender_id" doc:"User whose action triggered this"`
	Type       string    `json:"type" doc:"like, comment, follow, mention, or post"`
	Message    string    `json:"message" doc:"Notification text"`
	EntityType string    `json:"entity_type" doc:"Kind of entity referenced"`
	EntityID   string    `json:"entity_id" doc:"Referenced entity ID"`
	IsRead     bool      `json:"is_read" doc:"Whether the notification was read"`
	CreatedAt  time.Time `json:"created_at" doc:"Creation time"`
}

func toNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		SenderID:   n.SenderID,
		Type:       string(n.Type),
		Message:    n.Message,
		EntityType: string(n.EntityType),
		EntityID:   n.EntityID,
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt,
	}
}

// AuthorizedInput carries only the caller's credentials.
type AuthorizedInput struct {
	Authorization string `header:"Authorization"`
}

// ListNotificationsResponse contains a list of notifications.
type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications" doc:"List of notifications"`
}

// ListNotificationsOutput wraps the list notifications response for Huma.
type ListNotificationsOutput struct {
	Body ListNotificationsResponse
}

// UnreadCountResponse reports the unread notification count.
type UnreadCountResponse struct {
	Count int `json:"count" doc:"Number of unread notifications"`
}

// UnreadCountOutput wraps the unread count response for Huma.
type UnreadCountOutput struct {
	Body UnreadCountResponse
}

// NotificationActionInput contains parameters for acting on one notification.
type NotificationActionInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Notification ID"`
}

// === Handlers ===

func (s *Server) handleListNotifications(ctx context.Context, input *AuthorizedInput) (*ListNotificationsOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	notifications, err := s.services.Notification.ListForUser(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		resp[i] = toNotificationResponse(n)
	}

	return &ListNotificationsOutput{Body: ListNotificationsResponse{Notifications: resp}}, nil
}

func (s *Server) handleGetUnreadCount(ctx context.Context, input *AuthorizedInput) (*UnreadCountOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	count, err := s.services.Notification.UnreadCount(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	return &UnreadCountOutput{Body: UnreadCountResponse{Count: count}}, nil
}

func (s *Server) handleMarkNotificationRead(ctx context.Context, input *NotificationActionInput) (*MessageOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Notification.MarkRead(ctx, input.ID, caller.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Marked read"}}, nil
}

func (s *Server) handleMarkAllNotificationsRead(ctx context.Context, input *AuthorizedInput) (*MessageOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Notification.MarkAllRead(ctx, caller.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "All marked read"}}, nil
}
