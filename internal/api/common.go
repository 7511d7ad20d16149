package api

// MessageResponse is a simple success message response.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps a message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// LikeCountResponse reports the like count after a like or unlike.
type LikeCountResponse struct {
	Likes int `json:"likes" doc:"Current like count"`
}

// LikeCountOutput wraps the like count response for Huma.
type LikeCountOutput struct {
	Body LikeCountResponse
}
