package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/register",
		Summary:     "Register new user",
		Description: "Creates a new user account and signs them in. The first account becomes the admin.",
		Tags:        []string{"Authentication"},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "User login",
		Description: "Authenticates a user and returns access and refresh tokens",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "refresh",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/refresh",
		Summary:     "Refresh tokens",
		Description: "Exchanges a refresh token for a new token pair",
		Tags:        []string{"Authentication"},
	}, s.handleRefresh)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/logout",
		Summary:     "Logout",
		Description: "Revokes the caller's refresh session",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLogout)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}",
		Summary:     "Get user",
		Description: "Returns a user's public profile",
		Tags:        []string{"Users"},
	}, s.handleGetUser)
}

// === DTOs ===

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254" doc:"User email address"`
	Password string `json:"password" validate:"required,min=8,max=1024" doc:"User password"`
	Name     string `json:"name" validate:"required,min=1,max=100" doc:"Display name"`
}

// RegisterInput wraps the register request for Huma.
type RegisterInput struct {
	Body RegisterRequest
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254" doc:"User email"`
	Password string `json:"password" validate:"required,max=1024" doc:"User password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body LoginRequest
}

// RefreshRequest is the request body for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required" doc:"Refresh token"`
}

// RefreshInput wraps the refresh request for Huma.
type RefreshInput struct {
	Body RefreshRequest
}

// LogoutInput carries the caller's credentials.
type LogoutInput struct {
	Authorization string `header:"Authorization"`
}

// UserResponse contains user data in API responses.
type UserResponse struct {
	ID             string    `json:"id" doc:"User ID"`
	Email          string    `json:"email,omitempty" doc:"Email address (own profile only)"`
	Name           string    `json:"name" doc:"Display name"`
	Bio            string    `json:"bio,omitempty" doc:"Profile bio"`
	AvatarURL      string    `json:"avatar_url,omitempty" doc:"Avatar image URL"`
	Role           string    `json:"role" doc:"User role"`
	FollowerCount  int       `json:"follower_count" doc:"Number of followers"`
	FollowingCount int       `json:"following_count" doc:"Number of users followed"`
	CreatedAt      time.Time `json:"created_at" doc:"Account creation time"`
}

// AuthResponse contains tokens and the signed-in user.
type AuthResponse struct {
	User         UserResponse `json:"user" doc:"Signed-in user"`
	AccessToken  string       `json:"access_token" doc:"PASETO access token"`
	RefreshToken string       `json:"refresh_token" doc:"Opaque refresh token"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// TokenPairResponse contains a refreshed token pair.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token" doc:"PASETO access token"`
	RefreshToken string `json:"refresh_token" doc:"Opaque refresh token"`
}

// TokenPairOutput wraps the token pair response for Huma.
type TokenPairOutput struct {
	Body TokenPairResponse
}

// UserOutput wraps a user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// GetUserInput contains parameters for fetching a user profile.
type GetUserInput struct {
	ID string `path:"id" doc:"User ID"`
}

// GetCurrentUserInput carries the caller's credentials.
type GetCurrentUserInput struct {
	Authorization string `header:"Authorization"`
}

func toUserResponse(u *domain.User, includeEmail bool) UserResponse {
	resp := UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Bio:            u.Bio,
		AvatarURL:      u.AvatarURL,
		Role:           string(u.Role),
		FollowerCount:  len(u.Followers),
		FollowingCount: len(u.Following),
		CreatedAt:      u.CreatedAt,
	}
	if includeEmail {
		resp.Email = u.Email
	}
	return resp
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*AuthOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	user, pair, err := s.services.Auth.Register(ctx, input.Body.Email, input.Body.Password, input.Body.Name)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{
		Body: AuthResponse{
			User:         toUserResponse(user, true),
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		},
	}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	user, pair, err := s.services.Auth.Login(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{
		Body: AuthResponse{
			User:         toUserResponse(user, true),
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		},
	}, nil
}

func (s *Server) handleRefresh(ctx context.Context, input *RefreshInput) (*TokenPairOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	pair, err := s.services.Auth.Refresh(ctx, input.Body.RefreshToken)
	if err != nil {
		return nil, err
	}

	return &TokenPairOutput{
		Body: TokenPairResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		},
	}, nil
}

func (s *Server) handleLogout(ctx context.Context, input *LogoutInput) (*MessageOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Auth.Logout(ctx, caller.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Logged out"}}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *GetCurrentUserInput) (*UserOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Auth.GetUser(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: toUserResponse(user, true)}, nil
}

func (s *Server) handleGetUser(ctx context.Context, input *GetUserInput) (*UserOutput, error) {
	user, err := s.services.Auth.GetUser(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: toUserResponse(user, false)}, nil
}
