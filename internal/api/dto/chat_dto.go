package dto

import "github.com/oasis-hotel/portal/internal/concierge"

// ChatRequest payload for POST /api/concierge/messages.
type ChatRequest struct {
	Message string `json:"message" form:"message"`
}

// ChatView is the widget state.
type ChatView struct {
	Messages []concierge.Message `json:"messages"`
	Loading  bool                `json:"loading"`
}

// UploadResponse acknowledges a policy upload.
type UploadResponse struct {
	Status string `json:"status"`
	File   string `json:"file"`
}
