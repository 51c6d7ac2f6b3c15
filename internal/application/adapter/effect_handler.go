// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/fitness-tracker/companion/internal/domain/entity"
)

// EffectHandlers are the host-provided side effects. They only decide how to
// render a celebration; when to invoke them is decided by the dispatcher.
type EffectHandlers interface {
	// OnGoalAchieved is invoked at most once per goal id per transition to completed.
	OnGoalAchieved(ctx context.Context, goal entity.Goal)

	// OnHydrationGoalReached is invoked once per threshold crossing.
	OnHydrationGoalReached(ctx context.Context, record entity.WaterRecord)

	// OnHydrationGoalReset lets the host re-arm visual state after intake drops below the goal.
	OnHydrationGoalReset(ctx context.Context)

	// OnScheduledWorkoutCompleted is invoked once per scheduled workout completion.
	OnScheduledWorkoutCompleted(ctx context.Context, id, workoutSessionID string)
}

// MessagePresenter displays a user-facing message.
type MessagePresenter interface {
	Present(ctx context.Context, severity entity.Severity, text string)
}
