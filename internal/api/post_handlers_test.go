package api

import (
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedantlahane/myblog-sub000/internal/auth"
	"github.com/vedantlahane/myblog-sub000/internal/service"
	"github.com/vedantlahane/myblog-sub000/internal/sse"
	"github.com/vedantlahane/myblog-sub000/internal/store"
)

type testServer struct {
	*Server
	api humatest.TestAPI
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.New(t.TempDir(), nil, store.NewNoopEmitter())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})

	key := make([]byte, 32)
	tokens, err := auth.NewTokenService(key, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	notifications := service.NewNotificationService(st, logger)
	posts := service.NewPostService(st, notifications, logger)

	services := &Services{
		Auth:         service.NewAuthService(st, tokens, logger),
		Post:         posts,
		Draft:        service.NewDraftService(st, posts, logger),
		Tag:          service.NewTagService(st, logger),
		Comment:      service.NewCommentService(st, notifications, logger),
		Engagement:   service.NewEngagementService(st, notifications, logger),
		Notification: notifications,
	}

	s := NewServer(st, services, tokens, sse.NewManager(logger), logger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
	}
}

// registerUser registers a user and returns a bearer header and the user ID.
func (ts *testServer) registerUser(t *testing.T, email, name string) (authHeader, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    email,
		"password": "CorrectHorse9!",
		"name":     name,
	})
	require.Equal(t, http.StatusOK, resp.Code, "register failed: %s", resp.Body.String())

	var body AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))

	return "Authorization: Bearer " + body.AccessToken, body.User.ID
}

func (ts *testServer) createTag(t *testing.T, authHeader, name string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/tags", authHeader, map[string]any{"name": name})
	require.Equal(t, http.StatusOK, resp.Code, "create tag failed: %s", resp.Body.String())

	var tag TagResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tag))
	return tag.ID
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	authHeader, userID := ts.registerUser(t, "author@example.com", "Author")
	tagID := ts.createTag(t, authHeader, "go")

	// Create a published post.
	resp := ts.api.Post("/api/v1/posts", authHeader, map[string]any{
		"title":   "Hello World",
		"content": "some words of content",
		"tag_ids": []string{tagID},
		"status":  "published",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var post PostResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &post))
	assert.Equal(t, userID, post.AuthorID)
	assert.Equal(t, "published", post.Status)
	assert.NotNil(t, post.PublishedAt)

	// The tag's post count reflects the new post.
	resp = ts.api.Get("/api/v1/tags/" + tagID)
	require.Equal(t, http.StatusOK, resp.Code)
	var tag TagResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tag))
	assert.Equal(t, 1, tag.PostCount)

	// Reading by slug records a view.
	resp = ts.api.Get("/api/v1/posts/slug/" + post.Slug)
	require.Equal(t, http.StatusOK, resp.Code)
	var got PostResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, post.ID, got.ID)
	assert.Equal(t, int64(1), got.ViewCount)

	// Delete compensates the tag ledger.
	resp = ts.api.Delete("/api/v1/posts/"+post.ID, authHeader)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/tags/" + tagID)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tag))
	assert.Equal(t, 0, tag.PostCount)
}

func TestCreatePost_RequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Post("/api/v1/posts", map[string]any{
		"title":   "No Auth",
		"content": "content",
		"tag_ids": []string{"tag-x"},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCreatePost_ValidationErrors(t *testing.T) {
	ts := newTestServer(t)
	authHeader, _ := ts.registerUser(t, "author@example.com", "Author")

	// Missing tags.
	resp := ts.api.Post("/api/v1/posts", authHeader, map[string]any{
		"title":   "Untitled",
		"content": "content",
		"tag_ids": []string{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &apiErr))
	assert.Equal(t, "VALIDATION", apiErr.Code)
}

func TestLikePost_ConflictOnSecondLike(t *testing.T) {
	ts := newTestServer(t)
	authorHeader, _ := ts.registerUser(t, "author@example.com", "Author")
	likerHeader, _ := ts.registerUser(t, "liker@example.com", "Liker")
	tagID := ts.createTag(t, authorHeader, "go")

	resp := ts.api.Post("/api/v1/posts", authorHeader, map[string]any{
		"title":   "Like Me",
		"content": "content",
		"tag_ids": []string{tagID},
		"status":  "published",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	var post PostResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &post))

	resp = ts.api.Post("/api/v1/posts/"+post.ID+"/like", likerHeader)
	require.Equal(t, http.StatusOK, resp.Code)
	var likes LikeCountResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &likes))
	assert.Equal(t, 1, likes.Likes)

	resp = ts.api.Post("/api/v1/posts/"+post.ID+"/like", likerHeader)
	assert.Equal(t, http.StatusConflict, resp.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &apiErr))
	assert.Equal(t, "ALREADY_LIKED", apiErr.Code)
}

func TestUpdatePost_ForbiddenForOtherUsers(t *testing.T) {
	ts := newTestServer(t)
	authorHeader, _ := ts.registerUser(t, "author@example.com", "Author")
	otherHeader, _ := ts.registerUser(t, "other@example.com", "Other")
	tagID := ts.createTag(t, authorHeader, "go")

	resp := ts.api.Post("/api/v1/posts", authorHeader, map[string]any{
		"title":   "Mine",
		"content": "content",
		"tag_ids": []string{tagID},
	})
	require.Equal(t, http.StatusOK, resp.Code)
	var post PostResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &post))

	resp = ts.api.Patch("/api/v1/posts/"+post.ID, otherHeader, map[string]any{
		"title": "Hijacked",
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestFollowEndpoints(t *testing.T) {
	ts := newTestServer(t)
	aliceHeader, aliceID := ts.registerUser(t, "alice@example.com", "Alice")
	_, bobID := ts.registerUser(t, "bob@example.com", "Bob")

	resp := ts.api.Post("/api/v1/users/"+bobID+"/follow", aliceHeader)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// Duplicate follow conflicts.
	resp = ts.api.Post("/api/v1/users/"+bobID+"/follow", aliceHeader)
	assert.Equal(t, http.StatusConflict, resp.Code)

	// Self-follow is a bad request.
	resp = ts.api.Post("/api/v1/users/"+aliceID+"/follow", aliceHeader)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Get("/api/v1/users/" + bobID + "/followers")
	require.Equal(t, http.StatusOK, resp.Code)
	var list UserListResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Users, 1)
	assert.Equal(t, aliceID, list.Users[0].ID)
}

func TestDraftPublishOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	authHeader, _ := ts.registerUser(t, "author@example.com", "Author")
	tagID := ts.createTag(t, authHeader, "go")

	resp := ts.api.Post("/api/v1/drafts", authHeader, map[string]any{
		"title":   "Work in Progress",
		"content": "draft content",
		"tag_ids": []string{tagID},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var draft DraftResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &draft))
	assert.Equal(t, 1, draft.Version)

	resp = ts.api.Post("/api/v1/drafts/"+draft.ID+"/publish", authHeader)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var post PostResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &post))
	assert.Equal(t, "published", post.Status)

	// The draft is gone after publish.
	resp = ts.api.Get("/api/v1/drafts/"+draft.ID, authHeader)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Contains(t, health.Components, "database")
}
