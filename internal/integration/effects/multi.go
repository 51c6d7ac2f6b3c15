package effects

import (
	"context"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/domain/entity"
)

// Multi fans every effect out to each handler in order.
type Multi []adapter.EffectHandlers

// NewMulti creates a fan-out over the non-nil handlers.
func NewMulti(handlers ...adapter.EffectHandlers) Multi {
	out := make(Multi, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

// OnGoalAchieved implements adapter.EffectHandlers.
func (m Multi) OnGoalAchieved(ctx context.Context, goal entity.Goal) {
	for _, h := range m {
		h.OnGoalAchieved(ctx, goal)
	}
}

// OnHydrationGoalReached implements adapter.EffectHandlers.
func (m Multi) OnHydrationGoalReached(ctx context.Context, record entity.WaterRecord) {
	for _, h := range m {
		h.OnHydrationGoalReached(ctx, record)
	}
}

// OnHydrationGoalReset implements adapter.EffectHandlers.
func (m Multi) OnHydrationGoalReset(ctx context.Context) {
	for _, h := range m {
		h.OnHydrationGoalReset(ctx)
	}
}

// OnScheduledWorkoutCompleted implements adapter.EffectHandlers.
func (m Multi) OnScheduledWorkoutCompleted(ctx context.Context, id, workoutSessionID string) {
	for _, h := range m {
		h.OnScheduledWorkoutCompleted(ctx, id, workoutSessionID)
	}
}

var _ adapter.EffectHandlers = Multi(nil)
