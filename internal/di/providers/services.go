package providers

import (
	"github.com/samber/do/v2"

	"github.com/vedantlahane/myblog-sub000/internal/auth"
	"github.com/vedantlahane/myblog-sub000/internal/logger"
	"github.com/vedantlahane/myblog-sub000/internal/service"
)

// ProvideNotificationService provides the notification service.
func ProvideNotificationService(i do.Injector) (*service.NotificationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNotificationService(storeHandle.Store, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvidePostService provides the post service.
func ProvidePostService(i do.Injector) (*service.PostService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	notifications := do.MustInvoke[*service.NotificationService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPostService(storeHandle.Store, notifications, log.Logger), nil
}

// ProvideDraftService provides the draft versioning service.
func ProvideDraftService(i do.Injector) (*service.DraftService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	posts := do.MustInvoke[*service.PostService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewDraftService(storeHandle.Store, posts, log.Logger), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, log.Logger), nil
}

// ProvideCommentService provides the comment service.
func ProvideCommentService(i do.Injector) (*service.CommentService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	notifications := do.MustInvoke[*service.NotificationService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCommentService(storeHandle.Store, notifications, log.Logger), nil
}

// ProvideEngagementService provides the like/follow engagement service.
func ProvideEngagementService(i do.Injector) (*service.EngagementService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	notifications := do.MustInvoke[*service.NotificationService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewEngagementService(storeHandle.Store, notifications, log.Logger), nil
}
