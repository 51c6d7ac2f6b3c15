package polling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/domain/entity"
	domainerror "github.com/fitness-tracker/companion/internal/domain/error"
)

// WorkoutTracker is the local view of scheduled workouts kept by the lifecycle guard.
type WorkoutTracker interface {
	TrackedIDs() []string
	Observe(w entity.ScheduledWorkout) entity.ScheduledWorkout
	Untrack(id string)
}

// PollScheduledWorkoutsUseCase refetches every tracked scheduled workout.
type PollScheduledWorkoutsUseCase struct {
	api      adapter.FitnessAPI
	pipeline *Pipeline
	tracker  WorkoutTracker
	logger   *slog.Logger
}

// NewPollScheduledWorkoutsUseCase creates a new PollScheduledWorkoutsUseCase instance.
func NewPollScheduledWorkoutsUseCase(api adapter.FitnessAPI, pipeline *Pipeline, tracker WorkoutTracker) *PollScheduledWorkoutsUseCase {
	return &PollScheduledWorkoutsUseCase{
		api:      api,
		pipeline: pipeline,
		tracker:  tracker,
		logger:   slog.With("component", "poll_scheduled_workouts"),
	}
}

// Kind returns the entity kind this use case polls.
func (uc *PollScheduledWorkoutsUseCase) Kind() entity.EntityKind {
	return entity.KindScheduledWorkout
}

// Execute performs one poll over the tracked scheduled workouts. Workouts the
// server no longer knows are untracked; any other fetch failure aborts the
// poll so a partial collection is never recorded.
func (uc *PollScheduledWorkoutsUseCase) Execute(ctx context.Context) (*PollOutput, error) {
	seq := uc.pipeline.Begin(entity.KindScheduledWorkout)

	ids := uc.tracker.TrackedIDs()
	entities := make([]entity.Entity, 0, len(ids))

	for _, id := range ids {
		w, err := uc.api.FetchScheduledWorkout(ctx, id)
		if err != nil {
			if isNotFound(err) {
				uc.logger.Warn("Tracked scheduled workout no longer exists", "scheduled_workout_id", id)
				uc.tracker.Untrack(id)
				continue
			}
			return nil, fmt.Errorf("failed to fetch scheduled workout %s: %w", id, err)
		}
		entities = append(entities, uc.tracker.Observe(w))
	}

	return uc.pipeline.Apply(ctx, entity.KindScheduledWorkout, seq, entities)
}

func isNotFound(err error) bool {
	var fetchErr *domainerror.FetchError
	return errors.As(err, &fetchErr) && fetchErr.Code == domainerror.ErrCodeFetchNotFound
}
