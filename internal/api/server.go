// Package api provides the HTTP API server and handlers for the myblog application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vedantlahane/myblog-sub000/internal/auth"
	"github.com/vedantlahane/myblog-sub000/internal/sse"
	"github.com/vedantlahane/myblog-sub000/internal/store"
	"github.com/vedantlahane/myblog-sub000/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       *store.Store
	services    *Services
	tokens      *auth.TokenService
	sseManager  *sse.Manager
	sseHandler  *sse.Handler
	validator   *validation.Validator
	router      *chi.Mux
	api         huma.API
	logger      *slog.Logger
	rateLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *store.Store, services *Services, tokens *auth.TokenService, sseManager *sse.Manager, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	humaConfig := huma.DefaultConfig("myblog API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}

	s := &Server{
		store:       st,
		services:    services,
		tokens:      tokens,
		sseManager:  sseManager,
		sseHandler:  sse.NewHandler(sseManager, logger),
		validator:   validation.New(),
		router:      router,
		logger:      logger,
		rateLimiter: NewRateLimiter(300, time.Minute, 100),
	}

	s.setupMiddleware()

	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerPostRoutes()
	s.registerDraftRoutes()
	s.registerTagRoutes()
	s.registerCommentRoutes()
	s.registerSocialRoutes()
	s.registerNotificationRoutes()

	// The SSE stream bypasses huma: it holds the connection open and writes
	// raw event frames.
	router.Get("/api/v1/events", s.handleEventStream)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(s.rateLimitMiddleware(s.rateLimiter))
}

// handleEventStream authenticates the client and hands the connection to the
// SSE handler. The token may arrive as a Bearer header or, for EventSource
// clients that cannot set headers, a query parameter.
func (s *Server) handleEventStream(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if token := r.URL.Query().Get("token"); token != "" {
			authHeader = "Bearer " + token
		}
	}

	caller, err := s.authenticateRequest(authHeader)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"UNAUTHORIZED","message":"Authentication required"}`))
		return
	}

	s.sseHandler.Serve(w, r, caller.ID)
}
