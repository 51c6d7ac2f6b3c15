package dto

import "time"

// ShowMessageRequest represents the request body for displaying a message.
type ShowMessageRequest struct {
	Severity string `json:"severity" binding:"required,oneof=info success warning error"`
	Text     string `json:"text" binding:"required"`
}

// ShowMessageResponse reports whether the message reached the user.
type ShowMessageResponse struct {
	Shown bool `json:"shown"`
}

// MessageResponse represents a presented message.
type MessageResponse struct {
	Severity string    `json:"severity"`
	Text     string    `json:"text"`
	ShownAt  time.Time `json:"shown_at"`
}

// MessageListResponse represents the recently presented messages.
type MessageListResponse struct {
	Messages []MessageResponse `json:"messages"`
}
