package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
	"github.com/vedantlahane/myblog-sub000/internal/service"
)

func (s *Server) registerPostRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts",
		Summary:     "List posts",
		Description: "Returns posts, newest first. Filterable by author or tag.",
		Tags:        []string{"Posts"},
	}, s.handleListPosts)

	huma.Register(s.api, huma.Operation{
		OperationID: "createPost",
		Method:      http.MethodPost,
		Path:        "/api/v1/posts",
		Summary:     "Create post",
		Description: "Creates a new post for the authenticated user",
		Tags:        []string{"Posts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreatePost)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPost",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/{id}",
		Summary:     "Get post",
		Description: "Returns a post by ID and records a view",
		Tags:        []string{"Posts"},
	}, s.handleGetPost)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPostBySlug",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/slug/{slug}",
		Summary:     "Get post by slug",
		Description: "Returns a post by its URL slug and records a view",
		Tags:        []string{"Posts"},
	}, s.handleGetPostBySlug)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePost",
		Method:      http.MethodPatch,
		Path:        "/api/v1/posts/{id}",
		Summary:     "Update post",
		Description: "Updates a post. Only the author or an admin may edit.",
		Tags:        []string{"Posts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdatePost)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePost",
		Method:      http.MethodDelete,
		Path:        "/api/v1/posts/{id}",
		Summary:     "Delete post",
		Description: "Deletes a post. Only the author or an admin may delete.",
		Tags:        []string{"Posts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeletePost)

	huma.Register(s.api, huma.Operation{
		OperationID: "likePost",
		Method:      http.MethodPost,
		Path:        "/api/v1/posts/{id}/like",
		Summary:     "Like post",
		Description: "Adds the caller to the post's like set. Liking twice is rejected.",
		Tags:        []string{"Posts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLikePost)

	huma.Register(s.api, huma.Operation{
		OperationID: "unlikePost",
		Method:      http.MethodDelete,
		Path:        "/api/v1/posts/{id}/like",
		Summary:     "Unlike post",
		Description: "Removes the caller from the post's like set. Forgiving for non-likers.",
		Tags:        []string{"Posts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnlikePost)
}

// === DTOs ===

// PostResponse contains post data in API responses.
type PostResponse struct {
	ID          string     `json:"id" doc:"Post ID"`
	Title       string     `json:"title" doc:"Post title"`
	Slug        string     `json:"slug" doc:"URL slug, immutable after creation"`
	Content     string     `json:"content" doc:"Post body"`
	Excerpt     string     `json:"excerpt,omitempty" doc:"Short summary"`
	AuthorID    string     `json:"author_id" doc:"Author's user ID"`
	CoverImage  string     `json:"cover_image,omitempty" doc:"Cover image URL"`
	TagIDs      []string   `json:"tag_ids" doc:"Tags on this post"`
	Status      string     `json:"status" doc:"draft, published, or archived"`
	LikeCount   int        `json:"like_count" doc:"Number of likes"`
	ViewCount   int64      `json:"view_count" doc:"Number of views"`
	ReadTime    int        `json:"read_time" doc:"Estimated reading time in minutes"`
	PublishedAt *time.Time `json:"published_at,omitempty" doc:"First publication time"`
	CreatedAt   time.Time  `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time  `json:"updated_at" doc:"Last update time"`
}

func toPostResponse(p *domain.Post) PostResponse {
	return PostResponse{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Content:     p.Content,
		Excerpt:     p.Excerpt,
		AuthorID:    p.AuthorID,
		CoverImage:  p.CoverImage,
		TagIDs:      p.TagIDs,
		Status:      string(p.Status),
		LikeCount:   len(p.Likes),
		ViewCount:   p.ViewCount,
		ReadTime:    p.ReadTime,
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPostResponses(posts []*domain.Post) []PostResponse {
	resp := make([]PostResponse, len(posts))
	for i, p := range posts {
		resp[i] = toPostResponse(p)
	}
	return resp
}

// ListPostsInput contains optional filters for listing posts.
type ListPostsInput struct {
	AuthorID string `query:"author_id" doc:"Filter by author"`
	TagID    string `query:"tag_id" doc:"Filter by tag"`
}

// ListPostsResponse contains a list of posts.
type ListPostsResponse struct {
	Posts []PostResponse `json:"posts" doc:"List of posts"`
}

// ListPostsOutput wraps the list posts response for Huma.
type ListPostsOutput struct {
	Body ListPostsResponse
}

// CreatePostRequest is the request body for creating a post.
type CreatePostRequest struct {
	Title      string   `json:"title" validate:"required,min=1,max=200" doc:"Post title"`
	Content    string   `json:"content" validate:"required" doc:"Post body"`
	Excerpt    string   `json:"excerpt,omitempty" validate:"omitempty,max=500" doc:"Short summary"`
	CoverImage string   `json:"cover_image,omitempty" validate:"omitempty,url" doc:"Cover image URL"`
	TagIDs     []string `json:"tag_ids" validate:"required,min=1" doc:"Tags, at least one"`
	Status     string   `json:"status,omitempty" validate:"omitempty,oneof=draft published archived" doc:"Initial status, defaults to draft"`
}

// CreatePostInput wraps the create post request for Huma.
type CreatePostInput struct {
	Authorization string `header:"Authorization"`
	Body          CreatePostRequest
}

// PostOutput wraps a post response for Huma.
type PostOutput struct {
	Body PostResponse
}

// GetPostInput contains parameters for getting a post.
type GetPostInput struct {
	ID string `path:"id" doc:"Post ID"`
}

// GetPostBySlugInput contains parameters for getting a post by slug.
type GetPostBySlugInput struct {
	Slug string `path:"slug" doc:"Post slug"`
}

// UpdatePostRequest is the request body for updating a post.
// Omitted fields are left unchanged.
type UpdatePostRequest struct {
	Title      *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200" doc:"Post title"`
	Content    *string  `json:"content,omitempty" doc:"Post body"`
	Excerpt    *string  `json:"excerpt,omitempty" validate:"omitempty,max=500" doc:"Short summary"`
	CoverImage *string  `json:"cover_image,omitempty" doc:"Cover image URL"`
	TagIDs     []string `json:"tag_ids,omitempty" validate:"omitempty,min=1" doc:"Replacement tag set"`
	Status     *string  `json:"status,omitempty" validate:"omitempty,oneof=draft published archived" doc:"New status"`
}

// UpdatePostInput wraps the update post request for Huma.
type UpdatePostInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Post ID"`
	Body          UpdatePostRequest
}

// PostActionInput contains parameters for post like/unlike/delete actions.
type PostActionInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Post ID"`
}

// === Handlers ===

func (s *Server) handleListPosts(ctx context.Context, input *ListPostsInput) (*ListPostsOutput, error) {
	var (
		posts []*domain.Post
		err   error
	)
	switch {
	case input.AuthorID != "":
		posts, err = s.services.Post.ListPostsByAuthor(ctx, input.AuthorID)
	case input.TagID != "":
		posts, err = s.services.Post.ListPostsByTag(ctx, input.TagID)
	default:
		posts, err = s.services.Post.ListPosts(ctx)
	}
	if err != nil {
		return nil, err
	}

	return &ListPostsOutput{Body: ListPostsResponse{Posts: toPostResponses(posts)}}, nil
}

func (s *Server) handleCreatePost(ctx context.Context, input *CreatePostInput) (*PostOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	p, err := s.services.Post.CreatePost(ctx, caller.ID, service.CreatePostInput{
		Title:      input.Body.Title,
		Content:    input.Body.Content,
		Excerpt:    input.Body.Excerpt,
		CoverImage: input.Body.CoverImage,
		TagIDs:     input.Body.TagIDs,
		Status:     domain.PostStatus(input.Body.Status),
	})
	if err != nil {
		return nil, err
	}

	return &PostOutput{Body: toPostResponse(p)}, nil
}

func (s *Server) handleGetPost(ctx context.Context, input *GetPostInput) (*PostOutput, error) {
	p, err := s.services.Post.GetPost(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	// View recording is best-effort and never fails the read.
	if err := s.services.Post.RecordView(ctx, p.ID); err == nil {
		p.ViewCount++
	}

	return &PostOutput{Body: toPostResponse(p)}, nil
}

func (s *Server) handleGetPostBySlug(ctx context.Context, input *GetPostBySlugInput) (*PostOutput, error) {
	p, err := s.services.Post.GetPostBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}

	if err := s.services.Post.RecordView(ctx, p.ID); err == nil {
		p.ViewCount++
	}

	return &PostOutput{Body: toPostResponse(p)}, nil
}

func (s *Server) handleUpdatePost(ctx context.Context, input *UpdatePostInput) (*PostOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	var status *domain.PostStatus
	if input.Body.Status != nil {
		st := domain.PostStatus(*input.Body.Status)
		status = &st
	}

	p, err := s.services.Post.UpdatePost(ctx, input.ID, caller, service.UpdatePostInput{
		Title:      input.Body.Title,
		Content:    input.Body.Content,
		Excerpt:    input.Body.Excerpt,
		CoverImage: input.Body.CoverImage,
		TagIDs:     input.Body.TagIDs,
		Status:     status,
	})
	if err != nil {
		return nil, err
	}

	return &PostOutput{Body: toPostResponse(p)}, nil
}

func (s *Server) handleDeletePost(ctx context.Context, input *PostActionInput) (*MessageOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Post.DeletePost(ctx, input.ID, caller); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Post deleted"}}, nil
}

func (s *Server) handleLikePost(ctx context.Context, input *PostActionInput) (*LikeCountOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	count, err := s.services.Post.LikePost(ctx, input.ID, caller.ID)
	if err != nil {
		return nil, err
	}

	return &LikeCountOutput{Body: LikeCountResponse{Likes: count}}, nil
}

func (s *Server) handleUnlikePost(ctx context.Context, input *PostActionInput) (*LikeCountOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	count, err := s.services.Post.UnlikePost(ctx, input.ID, caller.ID)
	if err != nil {
		return nil, err
	}

	return &LikeCountOutput{Body: LikeCountResponse{Likes: count}}, nil
}
