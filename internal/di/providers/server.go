package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/vedantlahane/myblog-sub000/internal/api"
	"github.com/vedantlahane/myblog-sub000/internal/auth"
	"github.com/vedantlahane/myblog-sub000/internal/config"
	"github.com/vedantlahane/myblog-sub000/internal/logger"
	"github.com/vedantlahane/myblog-sub000/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Auth:         do.MustInvoke[*service.AuthService](i),
		Post:         do.MustInvoke[*service.PostService](i),
		Draft:        do.MustInvoke[*service.DraftService](i),
		Tag:          do.MustInvoke[*service.TagService](i),
		Comment:      do.MustInvoke[*service.CommentService](i),
		Engagement:   do.MustInvoke[*service.EngagementService](i),
		Notification: do.MustInvoke[*service.NotificationService](i),
	}

	handler := api.NewServer(storeHandle.Store, services, tokens, sseHandle.Manager, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
