// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/fitness-tracker/companion/internal/domain/entity"
)

// FitnessAPI defines the remote operations the companion consumes.
// Implementations return *domainerror.FetchError for read failures and
// *domainerror.WorkoutError for rejected writes.
type FitnessAPI interface {
	// FetchGoals retrieves every goal of the authenticated account.
	FetchGoals(ctx context.Context) ([]entity.Goal, error)

	// FetchWaterIntake retrieves the cumulative intake for the given day (YYYY-MM-DD).
	FetchWaterIntake(ctx context.Context, date string) (entity.WaterRecord, error)

	// FetchScheduledWorkout retrieves a single scheduled workout.
	FetchScheduledWorkout(ctx context.Context, id string) (entity.ScheduledWorkout, error)

	// CreateWorkoutSession creates a session record and returns its id.
	CreateWorkoutSession(ctx context.Context, session entity.WorkoutSession) (string, error)

	// CompleteScheduledWorkout marks the scheduled workout completed and links the session.
	CompleteScheduledWorkout(ctx context.Context, id, workoutSessionID string) error
}
