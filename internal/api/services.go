package api

import (
	"github.com/vedantlahane/myblog-sub000/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth         *service.AuthService
	Post         *service.PostService
	Draft        *service.DraftService
	Tag          *service.TagService
	Comment      *service.CommentService
	Engagement   *service.EngagementService
	Notification *service.NotificationService
}
