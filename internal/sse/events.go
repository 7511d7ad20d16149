package sse

// EventType identifies the kind of event on the wire.
type EventType string

// Event types broadcast over the SSE stream.
const (
	EventHeartbeat           EventType = "heartbeat"
	EventNotificationCreated EventType = "notification.created"
	EventPostPublished       EventType = "post.published"
	EventPostDeleted         EventType = "post.deleted"
	EventCommentCreated      EventType = "comment.created"
)

// Event is a single server-sent event.
// UserID targets delivery to one connected user; empty means broadcast.
type Event struct {
	Type   EventType `json:"type"`
	UserID string    `json:"-"`
	Data   any       `json:"data,omitempty"`
}

// NewHeartbeatEvent builds the periodic keepalive event.
func NewHeartbeatEvent() Event {
	return Event{Type: EventHeartbeat}
}
