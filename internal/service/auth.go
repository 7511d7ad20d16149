package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/vedantlahane/myblog-sub000/internal/auth"
	"github.com/vedantlahane/myblog-sub000/internal/domain"
	apperrors "github.com/vedantlahane/myblog-sub000/internal/errors"
	"github.com/vedantlahane/myblog-sub000/internal/id"
	"github.com/vedantlahane/myblog-sub000/internal/store"
)

// AuthService registers users and issues tokens. It exists so the content
// engine always receives an authenticated caller identity; the engine
// itself never inspects credentials.
type AuthService struct {
	store  *store.Store
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(st *store.Store, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:  st,
		tokens: tokens,
		logger: logger,
	}
}

// TokenPair is an access token plus the opaque refresh token that renews it.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Register creates a new user account and signs them in.
// The very first account becomes the admin.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*domain.User, *TokenPair, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, apperrors.Validation(err.Error())
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to generate user id")
	}

	role := domain.RoleMember
	if empty, err := s.noUsersYet(ctx); err == nil && empty {
		role = domain.RoleAdmin
	}

	u := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
	}
	u.ID = userID
	u.InitTimestamps()

	if err := s.store.CreateUser(ctx, u); err != nil {
		if apperrors.Is(err, store.ErrAlreadyExists) {
			return nil, nil, apperrors.AlreadyExists("an account with this email already exists")
		}
		return nil, nil, err
	}

	pair, err := s.startSession(ctx, u)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user registered", "user_id", u.ID, "role", u.Role)
	u.PasswordHash = ""
	return u, pair, nil
}

// Login verifies credentials and starts a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, nil, apperrors.InvalidCredentials("invalid email or password")
		}
		return nil, nil, err
	}

	ok, err := auth.VerifyPassword(u.PasswordHash, password)
	if err != nil || !ok {
		return nil, nil, apperrors.InvalidCredentials("invalid email or password")
	}

	u.LastLoginAt = time.Now()
	pair, err := s.startSession(ctx, u)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user logged in", "user_id", u.ID)
	u.PasswordHash = ""
	return u, pair, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair.
// The old refresh token is rotated out in the same write.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	u, err := s.store.GetUserByRefreshHash(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.Unauthorized("unknown refresh token")
		}
		return nil, err
	}
	if time.Now().After(u.RefreshTokenExpiresAt) {
		return nil, apperrors.TokenExpired("refresh token expired")
	}

	pair, err := s.startSession(ctx, u)
	if err != nil {
		return nil, err
	}

	s.logger.Info("session refreshed", "user_id", u.ID)
	return pair, nil
}

// Logout invalidates the user's refresh session.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	u.RefreshTokenHash = ""
	u.RefreshTokenExpiresAt = time.Time{}
	u.Touch()
	return s.store.UpdateUser(ctx, u)
}

// GetUser returns a user's public profile.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

// startSession mints a token pair and persists the rotated refresh hash.
func (s *AuthService) startSession(ctx context.Context, u *domain.User) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(u)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to generate access token")
	}
	refresh, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to generate refresh token")
	}

	u.RefreshTokenHash = auth.HashRefreshToken(refresh)
	u.RefreshTokenExpiresAt = time.Now().Add(s.tokens.RefreshTokenDuration())
	u.Touch()

	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// noUsersYet reports whether the store holds no user accounts.
func (s *AuthService) noUsersYet(ctx context.Context) (bool, error) {
	for _, err := range s.store.Users.List(ctx) {
		if err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}
