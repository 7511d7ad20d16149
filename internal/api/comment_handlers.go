package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
	"github.com/vedantlahane/myblog-sub000/internal/service"
)

func (s *Server) registerCommentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listComments",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/{id}/comments",
		Summary:     "List comments",
		Description: "Returns all comments on a post, oldest first",
		Tags:        []string{"Comments"},
	}, s.handleListComments)

	huma.Register(s.api, huma.Operation{
		OperationID: "createComment",
		Method:      http.MethodPost,
		Path:        "/api/v1/posts/{id}/comments",
		Summary:     "Create comment",
		Description: "Adds a comment to a post, optionally as a reply to another comment",
		Tags:        []string{"Comments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "listReplies",
		Method:      http.MethodGet,
		Path:        "/api/v1/comments/{id}/replies",
		Summary:     "List replies",
		Description: "Returns the direct replies to a comment, oldest first",
		Tags:        []string{"Comments"},
	}, s.handleListReplies)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteComment",
		Method:      http.MethodDelete,
		Path:        "/api/v1/comments/{id}",
		Summary:     "Delete comment",
		Description: "Soft-deletes a comment, keeping reply threads intact",
		Tags:        []string{"Comments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "likeComment",
		Method:      http.MethodPost,
		Path:        "/api/v1/comments/{id}/like",
		Summary:     "Like comment",
		Description: "Adds the caller to the comment's like set. Liking twice is rejected.",
		Tags:        []string{"Comments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLikeComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "unlikeComment",
		Method:      http.MethodDelete,
		Path:        "/api/v1/comments/{id}/like",
		Summary:     "Unlike comment",
		Description: "Removes the caller from the comment's like set. Forgiving for non-likers.",
		Tags:        []string{"Comments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnlikeComment)
}

// === DTOs ===

// CommentResponse contains comment data in API responses.
type CommentResponse struct {
	ID        string    `json:"id" doc:"Comment ID"`
	PostID    string    `json:"post_id" doc:"Post this comment belongs to"`
	AuthorID  string    `json:"author_id" doc:"Author's user ID"`
	ParentID  string    `json:"parent_id,omitempty" doc:"Parent comment for replies"`
	Content   string    `json:"content" doc:"Comment text, placeholder when deleted"`
	LikeCount int       `json:"like_count" doc:"Number of likes"`
	IsDeleted bool      `json:"is_deleted" doc:"Whether this comment was deleted"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

func toCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		ParentID:  c.ParentID,
		Content:   c.Content,
		LikeCount: len(c.Likes),
		IsDeleted: c.IsDeleted,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCommentResponses(comments []*domain.Comment) []CommentResponse {
	resp := make([]CommentResponse, len(comments))
	for i, c := range comments {
		resp[i] = toCommentResponse(c)
	}
	return resp
}

// ListCommentsInput contains parameters for listing a post's comments.
type ListCommentsInput struct {
	ID string `path:"id" doc:"Post ID"`
}

// ListCommentsResponse contains a list of comments.
type ListCommentsResponse struct {
	Comments []CommentResponse `json:"comments" doc:"List of comments"`
}

// ListCommentsOutput wraps the list comments response for Huma.
type ListCommentsOutput struct {
	Body ListCommentsResponse
}

// CreateCommentRequest is the request body for creating a comment.
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=5000" doc:"Comment text"`
	ParentID string `json:"parent_id,omitempty" doc:"Parent comment ID for replies"`
}

// CreateCommentInput wraps the create comment request for Huma.
type CreateCommentInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Post ID"`
	Body          CreateCommentRequest
}

// CommentOutput wraps a comment response for Huma.
type CommentOutput struct {
	Body CommentResponse
}

// ListRepliesInput contains parameters for listing a comment's replies.
type ListRepliesInput struct {
	ID string `path:"id" doc:"Comment ID"`
}

// CommentActionInput contains parameters for comment delete/like/unlike.
type CommentActionInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Comment ID"`
}

// === Handlers ===

func (s *Server) handleListComments(ctx context.Context, input *ListCommentsInput) (*ListCommentsOutput, error) {
	comments, err := s.services.Comment.ListComments(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ListCommentsOutput{Body: ListCommentsResponse{Comments: toCommentResponses(comments)}}, nil
}

func (s *Server) handleCreateComment(ctx context.Context, input *CreateCommentInput) (*CommentOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	c, err := s.services.Comment.CreateComment(ctx, caller.ID, service.CreateCommentInput{
		PostID:   input.ID,
		ParentID: input.Body.ParentID,
		Content:  input.Body.Content,
	})
	if err != nil {
		return nil, err
	}

	return &CommentOutput{Body: toCommentResponse(c)}, nil
}

func (s *Server) handleListReplies(ctx context.Context, input *ListRepliesInput) (*ListCommentsOutput, error) {
	replies, err := s.services.Comment.ListReplies(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ListCommentsOutput{Body: ListCommentsResponse{Comments: toCommentResponses(replies)}}, nil
}

func (s *Server) handleDeleteComment(ctx context.Context, input *CommentActionInput) (*MessageOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Comment.DeleteComment(ctx, input.ID, caller); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Comment deleted"}}, nil
}

func (s *Server) handleLikeComment(ctx context.Context, input *CommentActionInput) (*LikeCountOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	count, err := s.services.Comment.LikeComment(ctx, input.ID, caller.ID)
	if err != nil {
		return nil, err
	}

	return &LikeCountOutput{Body: LikeCountResponse{Likes: count}}, nil
}

func (s *Server) handleUnlikeComment(ctx context.Context, input *CommentActionInput) (*LikeCountOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	count, err := s.services.Comment.UnlikeComment(ctx, input.ID, caller.ID)
	if err != nil {
		return nil, err
	}

	return &LikeCountOutput{Body: LikeCountResponse{Likes: count}}, nil
}
