package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vedantlahane/myblog-sub000/internal/service"
)

// authenticateRequest validates the Authorization header and returns the
// caller identity used for ownership checks downstream.
func (s *Server) authenticateRequest(authHeader string) (service.Caller, error) {
	if authHeader == "" {
		return service.Caller{}, huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return service.Caller{}, huma.Error401Unauthorized("Invalid authorization header format")
	}

	claims, err := s.tokens.VerifyAccessToken(parts[1])
	if err != nil {
		return service.Caller{}, huma.Error401Unauthorized("Invalid or expired token")
	}

	return service.Caller{ID: claims.UserID, Admin: claims.IsAdmin()}, nil
}
