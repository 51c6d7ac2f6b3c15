// Package effects provides the host-side effect handlers and message presenters.
package effects

import (
	"context"
	"log/slog"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/domain/entity"
)

// LogHandlers celebrates by writing structured log records.
type LogHandlers struct {
	logger *slog.Logger
}

// NewLogHandlers creates effect handlers that log each celebration.
func NewLogHandlers(logger *slog.Logger) *LogHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogHandlers{logger: logger.With("component", "celebration")}
}

// OnGoalAchieved implements adapter.EffectHandlers.
func (h *LogHandlers) OnGoalAchieved(ctx context.Context, goal entity.Goal) {
	h.logger.InfoContext(ctx, "Goal achieved",
		"goal_id", goal.ID,
		"title", goal.Title,
		"current_value", goal.CurrentValue.String(),
		"target_value", goal.TargetValue.String(),
		"unit", goal.Unit,
		"progress", goal.Progress().String(),
	)
}

// OnHydrationGoalReached implements adapter.EffectHandlers.
func (h *LogHandlers) OnHydrationGoalReached(ctx context.Context, record entity.WaterRecord) {
	h.logger.InfoContext(ctx, "Daily hydration goal reached",
		"date", record.Date,
		"amount_ml", record.AmountMl,
		"goal_ml", record.GoalMl,
	)
}

// OnHydrationGoalReset implements adapter.EffectHandlers.
func (h *LogHandlers) OnHydrationGoalReset(ctx context.Context) {
	h.logger.InfoContext(ctx, "Hydration goal re-armed")
}

// OnScheduledWorkoutCompleted implements adapter.EffectHandlers.
func (h *LogHandlers) OnScheduledWorkoutCompleted(ctx context.Context, id, workoutSessionID string) {
	h.logger.InfoContext(ctx, "Scheduled workout completed",
		"scheduled_workout_id", id,
		"workout_session_id", workoutSessionID,
	)
}

var _ adapter.EffectHandlers = (*LogHandlers)(nil)
