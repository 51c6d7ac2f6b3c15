package effects

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/domain/entity"
	domainerror "github.com/fitness-tracker/companion/internal/domain/error"
	"github.com/fitness-tracker/companion/internal/integration/email/templates"
)

const defaultSendTimeout = 10 * time.Second

// EmailConfig holds the celebration e-mail recipient and link settings.
type EmailConfig struct {
	RecipientEmail string
	RecipientName  string
	AppBaseURL     string
	SendTimeout    time.Duration
}

// EmailHandlers celebrates by sending an e-mail. Reset has no e-mail.
// Send failures are logged; a celebration is never retried since its
// ledger key is already recorded.
type EmailHandlers struct {
	sender   adapter.EmailSender
	renderer *templates.Renderer
	cfg      EmailConfig
	logger   *slog.Logger
}

// NewEmailHandlers creates e-mail effect handlers.
func NewEmailHandlers(sender adapter.EmailSender, renderer *templates.Renderer, cfg EmailConfig) *EmailHandlers {
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}
	return &EmailHandlers{
		sender:   sender,
		renderer: renderer,
		cfg:      cfg,
		logger:   slog.With("component", "celebration_email"),
	}
}

// OnGoalAchieved implements adapter.EffectHandlers.
func (h *EmailHandlers) OnGoalAchieved(ctx context.Context, goal entity.Goal) {
	data := templates.GoalAchievedData{
		UserName:     h.cfg.RecipientName,
		GoalTitle:    goal.Title,
		CurrentValue: goal.CurrentValue.String(),
		TargetValue:  goal.TargetValue.String(),
		Unit:         goal.Unit,
		GoalsURL:     h.link("goals"),
	}
	if data.GoalTitle == "" {
		data.GoalTitle = "your goal"
	}
	h.send(ctx, templates.GoalAchieved, data)
}

// OnHydrationGoalReached implements adapter.EffectHandlers.
func (h *EmailHandlers) OnHydrationGoalReached(ctx context.Context, record entity.WaterRecord) {
	h.send(ctx, templates.HydrationReached, templates.HydrationReachedData{
		UserName: h.cfg.RecipientName,
		Date:     record.Date,
		AmountMl: record.AmountMl,
		GoalMl:   record.GoalMl,
	})
}

// OnHydrationGoalReset implements adapter.EffectHandlers.
func (h *EmailHandlers) OnHydrationGoalReset(context.Context) {}

// OnScheduledWorkoutCompleted implements adapter.EffectHandlers.
func (h *EmailHandlers) OnScheduledWorkoutCompleted(ctx context.Context, _ string, workoutSessionID string) {
	data := templates.WorkoutCompletedData{UserName: h.cfg.RecipientName}
	if workoutSessionID != "" {
		data.SessionURL = h.link("workout-sessions/" + workoutSessionID)
	}
	h.send(ctx, templates.WorkoutCompleted, data)
}

func (h *EmailHandlers) send(ctx context.Context, templateName string, data interface{}) {
	msg, err := h.renderer.Render(templateName, data)
	if err != nil {
		h.logger.Error("Failed to render celebration email", "template", templateName, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.cfg.SendTimeout)
	defer cancel()

	receipt, err := h.sender.Send(ctx, adapter.CelebrationEmail{
		Recipient:     h.cfg.RecipientEmail,
		RecipientName: h.cfg.RecipientName,
		Subject:       msg.Subject,
		HTML:          msg.HTML,
		Text:          msg.Text,
		Celebration:   templateName,
	})
	if err != nil {
		var emailErr *domainerror.EmailError
		permanent := errors.As(err, &emailErr) && emailErr.Permanent()
		h.logger.Error("Failed to send celebration email",
			"template", templateName,
			"permanent", permanent,
			"error", err)
		return
	}

	h.logger.Info("Celebration email sent", "template", templateName, "message_id", receipt.MessageID)
}

func (h *EmailHandlers) link(path string) string {
	if h.cfg.AppBaseURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s", strings.TrimRight(h.cfg.AppBaseURL, "/"), path)
}

var _ adapter.EffectHandlers = (*EmailHandlers)(nil)
