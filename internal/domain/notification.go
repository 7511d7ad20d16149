package domain

// NotificationType classifies what triggered a notification.
type NotificationType string

const (
	NotificationTypeLike    NotificationType = "like"
	NotificationTypeComment NotificationType = "comment"
	NotificationTypeFollow  NotificationType = "follow"
	NotificationTypeMention NotificationType = "mention"
	NotificationTypePost    NotificationType = "post"
)

// EntityType identifies what kind of entity a notification points at.
type EntityType string

const (
	EntityTypePost    EntityType = "post"
	EntityTypeComment EntityType = "comment"
	EntityTypeUser    EntityType = "user"
)

// Notification represents an in-app notification delivered to one user.
// Created only as a side effect of another mutation; never created with
// recipient == sender.
type Notification struct {
	Record
	RecipientID string           `json:"recipient_id"`
	SenderID    string           `json:"sender_id,omitempty"`
	Type        NotificationType `json:"type"`
	Message     string           `json:"message"`
	EntityType  EntityType       `json:"entity_type"`
	EntityID    string           `json:"entity_id"`
	IsRead      bool             `json:"is_read"`
}
