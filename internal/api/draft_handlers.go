package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
	"github.com/vedantlahane/myblog-sub000/internal/service"
)

func (s *Server) registerDraftRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listDrafts",
		Method:      http.MethodGet,
		Path:        "/api/v1/drafts",
		Summary:     "List drafts",
		Description: "Returns the caller's drafts, newest first",
		Tags:        []string{"Drafts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListDrafts)

	huma.Register(s.api, huma.Operation{
		OperationID: "saveDraft",
		Method:      http.MethodPost,
		Path:        "/api/v1/drafts",
		Summary:     "Save draft",
		Description: "Creates a new draft version, or updates an existing draft in place when draft_id is set",
		Tags:        []string{"Drafts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSaveDraft)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDraft",
		Method:      http.MethodGet,
		Path:        "/api/v1/drafts/{id}",
		Summary:     "Get draft",
		Description: "Returns a draft. Only its author may read it.",
		Tags:        []string{"Drafts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetDraft)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteDraft",
		Method:      http.MethodDelete,
		Path:        "/api/v1/drafts/{id}",
		Summary:     "Delete draft",
		Description: "Discards a draft without publishing",
		Tags:        []string{"Drafts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteDraft)

	huma.Register(s.api, huma.Operation{
		OperationID: "publishDraft",
		Method:      http.MethodPost,
		Path:        "/api/v1/drafts/{id}/publish",
		Summary:     "Publish draft",
		Description: "Publishes a draft: updates its bound post, or creates a new published post. The draft is deleted on success.",
		Tags:        []string{"Drafts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handlePublishDraft)

	huma.Register(s.api, huma.Operation{
		OperationID: "listDraftVersions",
		Method:      http.MethodGet,
		Path:        "/api/v1/drafts/versions",
		Summary:     "List unbound draft versions",
		Description: "Returns the caller's post-less draft lineage, newest version first",
		Tags:        []string{"Drafts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListDraftVersions)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPostVersions",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/{id}/versions",
		Summary:     "List post versions",
		Description: "Returns the draft revision history of a post, newest version first",
		Tags:        []string{"Drafts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListPostVersions)
}

// === DTOs ===

// DraftResponse contains draft data in API responses.
type DraftResponse struct {
	ID         string    `json:"id" doc:"Draft ID"`
	PostID     string    `json:"post_id,omitempty" doc:"Post this draft revises, empty for new work"`
	AuthorID   string    `json:"author_id" doc:"Author's user ID"`
	Title      string    `json:"title" doc:"Draft title"`
	Content    string    `json:"content" doc:"Draft body"`
	Excerpt    string    `json:"excerpt,omitempty" doc:"Short summary"`
	CoverImage string    `json:"cover_image,omitempty" doc:"Cover image URL"`
	TagIDs     []string  `json:"tag_ids,omitempty" doc:"Tags on this draft"`
	Version    int       `json:"version" doc:"Version number within the lineage"`
	Changes    string    `json:"changes,omitempty" doc:"Change summary"`
	AutoSave   bool      `json:"auto_save" doc:"Whether this save was automatic"`
	CreatedAt  time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt  time.Time `json:"updated_at" doc:"Last save time"`
}

func toDraftResponse(d *domain.Draft) DraftResponse {
	return DraftResponse{
		ID:         d.ID,
		PostID:     d.PostID,
		AuthorID:   d.AuthorID,
		Title:      d.Title,
		Content:    d.Content,
		Excerpt:    d.Excerpt,
		CoverImage: d.CoverImage,
		TagIDs:     d.TagIDs,
		Version:    d.Version,
		Changes:    d.Changes,
		AutoSave:   d.AutoSave,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// ListDraftsInput carries the caller's credentials.
type ListDraftsInput struct {
	Authorization string `header:"Authorization"`
}

// ListDraftsResponse contains a list of drafts.
type ListDraftsResponse struct {
	Drafts []DraftResponse `json:"drafts" doc:"List of drafts"`
}

// ListDraftsOutput wraps the list drafts response for Huma.
type ListDraftsOutput struct {
	Body ListDraftsResponse
}

// SaveDraftRequest is the request body for saving a draft.
type SaveDraftRequest struct {
	DraftID    string   `json:"draft_id,omitempty" doc:"Existing draft to update in place; empty creates a new version"`
	PostID     string   `json:"post_id,omitempty" doc:"Post this draft revises; empty for new work"`
	Title      string   `json:"title" validate:"required,min=1,max=200" doc:"Draft title"`
	Content    string   `json:"content,omitempty" doc:"Draft body"`
	Excerpt    string   `json:"excerpt,omitempty" validate:"omitempty,max=500" doc:"Short summary"`
	CoverImage string   `json:"cover_image,omitempty" doc:"Cover image URL"`
	TagIDs     []string `json:"tag_ids,omitempty" doc:"Tags for the eventual post"`
	Changes    string   `json:"changes,omitempty" validate:"omitempty,max=500" doc:"Change summary"`
	AutoSave   bool     `json:"auto_save,omitempty" doc:"Whether this save is automatic"`
}

// SaveDraftInput wraps the save draft request for Huma.
type SaveDraftInput struct {
	Authorization string `header:"Authorization"`
	Body          SaveDraftRequest
}

// DraftOutput wraps a draft response for Huma.
type DraftOutput struct {
	Body DraftResponse
}

// DraftActionInput contains parameters for draft get/delete/publish.
type DraftActionInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Draft ID"`
}

// ListPostVersionsInput contains parameters for listing a post's versions.
type ListPostVersionsInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Post ID"`
}

// === Handlers ===

func (s *Server) handleListDrafts(ctx context.Context, input *ListDraftsInput) (*ListDraftsOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	drafts, err := s.services.Draft.ListDrafts(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]DraftResponse, len(drafts))
	for i, d := range drafts {
		resp[i] = toDraftResponse(d)
	}

	return &ListDraftsOutput{Body: ListDraftsResponse{Drafts: resp}}, nil
}

func (s *Server) handleSaveDraft(ctx context.Context, input *SaveDraftInput) (*DraftOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	d, err := s.services.Draft.SaveDraft(ctx, caller.ID, service.SaveDraftInput{
		DraftID:    input.Body.DraftID,
		PostID:     input.Body.PostID,
		Title:      input.Body.Title,
		Content:    input.Body.Content,
		Excerpt:    input.Body.Excerpt,
		CoverImage: input.Body.CoverImage,
		TagIDs:     input.Body.TagIDs,
		Changes:    input.Body.Changes,
		AutoSave:   input.Body.AutoSave,
	})
	if err != nil {
		return nil, err
	}

	return &DraftOutput{Body: toDraftResponse(d)}, nil
}

func (s *Server) handleGetDraft(ctx context.Context, input *DraftActionInput) (*DraftOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	d, err := s.services.Draft.GetDraft(ctx, input.ID, caller)
	if err != nil {
		return nil, err
	}

	return &DraftOutput{Body: toDraftResponse(d)}, nil
}

func (s *Server) handleDeleteDraft(ctx context.Context, input *DraftActionInput) (*MessageOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Draft.DeleteDraft(ctx, input.ID, caller); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Draft deleted"}}, nil
}

func (s *Server) handlePublishDraft(ctx context.Context, input *DraftActionInput) (*PostOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Draft.PublishDraft(ctx, input.ID, caller)
	if err != nil {
		return nil, err
	}

	return &PostOutput{Body: toPostResponse(p)}, nil
}

func (s *Server) handleListDraftVersions(ctx context.Context, input *ListDraftsInput) (*ListDraftsOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	drafts, err := s.services.Draft.ListVersionsForAuthor(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]DraftResponse, len(drafts))
	for i, d := range drafts {
		resp[i] = toDraftResponse(d)
	}

	return &ListDraftsOutput{Body: ListDraftsResponse{Drafts: resp}}, nil
}

func (s *Server) handleListPostVersions(ctx context.Context, input *ListPostVersionsInput) (*ListDraftsOutput, error) {
	caller, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	// Revision history is private to the post's author.
	p, err := s.services.Post.GetPost(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if !caller.CanModify(p.AuthorID) {
		return nil, huma.Error403Forbidden("Only the author can view revision history")
	}

	drafts, err := s.services.Draft.ListVersionsForPost(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]DraftResponse, len(drafts))
	for i, d := range drafts {
		resp[i] = toDraftResponse(d)
	}

	return &ListDraftsOutput{Body: ListDraftsResponse{Drafts: resp}}, nil
}
