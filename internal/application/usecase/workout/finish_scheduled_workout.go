package workout

import (
	"context"
	"log/slog"
	"time"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/domain/entity"
	domainerror "github.com/fitness-tracker/companion/internal/domain/error"
)

// Notifier displays a user-facing message and reports whether it was shown.
type Notifier interface {
	Show(ctx context.Context, severity entity.Severity, text string) bool
}

// FinishScheduledWorkoutInput represents the input for finishing a scheduled workout.
type FinishScheduledWorkoutInput struct {
	ScheduledWorkoutID string
	Name               string
	StartedAt          time.Time
	EndedAt            time.Time
	Notes              string
}

// FinishScheduledWorkoutOutput represents the output of finishing a scheduled workout.
type FinishScheduledWorkoutOutput struct {
	WorkoutSessionID string
	AlreadyCompleted bool
}

// FinishScheduledWorkoutUseCase creates the session record and completes the
// scheduled workout through the guard.
type FinishScheduledWorkoutUseCase struct {
	api      adapter.FitnessAPI
	guard    *Guard
	notifier Notifier
	logger   *slog.Logger
}

// NewFinishScheduledWorkoutUseCase creates a new FinishScheduledWorkoutUseCase instance.
func NewFinishScheduledWorkoutUseCase(api adapter.FitnessAPI, guard *Guard, notifier Notifier) *FinishScheduledWorkoutUseCase {
	return &FinishScheduledWorkoutUseCase{
		api:      api,
		guard:    guard,
		notifier: notifier,
		logger:   slog.With("component", "finish_scheduled_workout"),
	}
}

// Execute performs the finish flow.
func (uc *FinishScheduledWorkoutUseCase) Execute(ctx context.Context, input FinishScheduledWorkoutInput) (*FinishScheduledWorkoutOutput, error) {
	if input.ScheduledWorkoutID == "" {
		return nil, domainerror.NewWorkoutError(
			domainerror.ErrCodeMissingScheduledWorkoutID,
			"scheduled workout id is required",
			domainerror.ErrMissingScheduledWorkoutID,
		)
	}

	// A completed workout must not get a second session record.
	if existing, ok := uc.guard.Get(input.ScheduledWorkoutID); ok && existing.IsCompleted() {
		return &FinishScheduledWorkoutOutput{
			WorkoutSessionID: existing.SessionID(),
			AlreadyCompleted: true,
		}, nil
	}

	session := entity.WorkoutSession{
		ScheduledWorkoutID: input.ScheduledWorkoutID,
		Name:               input.Name,
		StartedAt:          input.StartedAt,
		EndedAt:            input.EndedAt,
		Notes:              input.Notes,
		IdempotencyKey:     entity.SessionIdempotencyKey(input.ScheduledWorkoutID),
	}

	sessionID, err := uc.api.CreateWorkoutSession(ctx, session)
	if err != nil {
		uc.logger.Warn("Failed to create workout session",
			"scheduled_workout_id", input.ScheduledWorkoutID,
			"error", err)
		uc.notifier.Show(ctx, entity.SeverityError, "Failed to save workout session")
		return nil, domainerror.NewWorkoutError(
			domainerror.ErrCodeSessionCreationFailed,
			"failed to create workout session",
			err,
		)
	}

	result, err := uc.guard.Complete(ctx, input.ScheduledWorkoutID, sessionID)
	if err != nil {
		uc.notifier.Show(ctx, entity.SeverityError, "Failed to complete scheduled workout")
		return nil, err
	}

	if result.AlreadyCompleted {
		if existing, ok := uc.guard.Get(input.ScheduledWorkoutID); ok {
			sessionID = existing.SessionID()
		}
	} else {
		uc.notifier.Show(ctx, entity.SeveritySuccess, "Workout completed")
	}

	return &FinishScheduledWorkoutOutput{
		WorkoutSessionID: sessionID,
		AlreadyCompleted: result.AlreadyCompleted,
	}, nil
}
