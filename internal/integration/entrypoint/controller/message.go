package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitness-tracker/companion/internal/domain/entity"
	"github.com/fitness-tracker/companion/internal/integration/effects"
	"github.com/fitness-tracker/companion/internal/integration/entrypoint/dto"
)

// Notifier displays a user-facing message through the deduper.
type Notifier interface {
	Show(ctx context.Context, severity entity.Severity, text string) bool
}

// RecentMessages lists messages that reached the user.
type RecentMessages interface {
	Recent() []effects.PresentedMessage
}

// MessageController handles message display endpoints.
type MessageController struct {
	notifier Notifier
	recent   RecentMessages
}

// NewMessageController creates a new message controller instance.
func NewMessageController(notifier Notifier, recent RecentMessages) *MessageController {
	return &MessageController{
		notifier: notifier,
		recent:   recent,
	}
}

// Show handles POST /messages requests.
func (c *MessageController) Show(ctx *gin.Context) {
	var req dto.ShowMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", err)
		return
	}

	shown := c.notifier.Show(ctx.Request.Context(), entity.Severity(req.Severity), req.Text)
	ctx.JSON(http.StatusOK, dto.ShowMessageResponse{Shown: shown})
}

// List handles GET /messages requests.
func (c *MessageController) List(ctx *gin.Context) {
	response := dto.MessageListResponse{Messages: []dto.MessageResponse{}}
	if c.recent != nil {
		for _, m := range c.recent.Recent() {
			response.Messages = append(response.Messages, dto.MessageResponse{
				Severity: string(m.Severity),
				Text:     m.Text,
				ShownAt:  m.ShownAt,
			})
		}
	}
	ctx.JSON(http.StatusOK, response)
}
