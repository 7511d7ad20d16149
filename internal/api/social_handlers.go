package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
)

func (s *Server) registerSocialRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "followUser",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/{id}/follow",
		Summary:     "Follow user",
		Description: "Makes the caller follow the target user. Self-follows and duplicates are rejected.",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFollowUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "unfollowUser",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/{id}/follow",
		Summary:     "Unfollow user",
		Description: "Makes the caller stop following the target user. Forgiving when not following.",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnfollowUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/followers",
		Summary:     "List followers",
		Description: "Returns the users following the given user",
		Tags:        []string{"Social"},
	}, s.handleListFollowers)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowing",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/following",
		Summary:     "List following",
		Description: "Returns the users the given user follows",
		Tags:        []string{"Social"},
	}, s.handleListFollowing)
}

// === DTOs ===

// FollowActionInput contains parameters for follow/unfollow.
type FollowActionInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Target user ID"`
}

// UserListInput contains parameters for follower/following listings.
type UserListInput struct {
	ID string `path:"id" doc:"User ID"`
}

// UserListResponse contains a list of users.
type UserListResponse struct {
	Users []UserResponse `json:"users" doc:"List of users"`
}

// UserListOutput wraps the user list response for Huma.
type UserListOutput struct {
	Body UserListResponse
}

func toUserListOutput(users []*domain.User) *UserListOutput {
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u, false)
	}
	return &UserListOutput{Body: UserListResponse{Users: resp}}
}

// === Handlers ===

func (s *Server) handleFollowUser(ctx context.Context, input *FollowActionInput) (*MessageOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Engagement.Follow(ctx, caller.ID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Following"}}, nil
}

func (s *Server) handleUnfollowUser(ctx context.Context, input *FollowActionInput) (*MessageOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Engagement.Unfollow(ctx, caller.ID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Unfollowed"}}, nil
}

func (s *Server) handleListFollowers(ctx context.Context, input *UserListInput) (*UserListOutput, error) {
	users, err := s.services.Engagement.Followers(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return toUserListOutput(users), nil
}

func (s *Server) handleListFollowing(ctx context.Context, input *UserListInput) (*UserListOutput, error) {
	users, err := s.services.Engagement.Following(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return toUserListOutput(users), nil
}
