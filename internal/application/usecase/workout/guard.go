// Package workout enforces the scheduled workout state machine and idempotent completion.
package workout

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/domain/entity"
	domainerror "github.com/fitness-tracker/companion/internal/domain/error"
)

// TransitionPublisher receives the completion transitions the guard performs.
type TransitionPublisher interface {
	MaybeFire(ctx context.Context, ev entity.TransitionEvent) (bool, error)
}

// CompleteResult is the outcome of a completion request.
type CompleteResult struct {
	AlreadyCompleted bool
}

// Guard keeps the local view of scheduled workouts and short-circuits
// completion of workouts already known to be completed.
type Guard struct {
	mu       sync.Mutex
	workouts map[string]entity.ScheduledWorkout
	tracked  map[string]struct{}
	locks    map[string]*sync.Mutex

	api       adapter.FitnessAPI
	publisher TransitionPublisher
	clock     adapter.Clock
	logger    *slog.Logger
}

// NewGuard creates a new Guard. publisher may be nil.
func NewGuard(api adapter.FitnessAPI, publisher TransitionPublisher, clock adapter.Clock) *Guard {
	if clock == nil {
		clock = adapter.SystemClock()
	}
	return &Guard{
		workouts:  make(map[string]entity.ScheduledWorkout),
		tracked:   make(map[string]struct{}),
		locks:     make(map[string]*sync.Mutex),
		api:       api,
		publisher: publisher,
		clock:     clock,
		logger:    slog.With("component", "lifecycle_guard"),
	}
}

// Complete marks the scheduled workout completed and links the session.
// Calls for the same id are serialised; once completed, later calls return
// AlreadyCompleted without reaching the network. On failure the local state
// stays scheduled so the caller may retry.
func (g *Guard) Complete(ctx context.Context, scheduledWorkoutID, workoutSessionID string) (CompleteResult, error) {
	if scheduledWorkoutID == "" {
		return CompleteResult{}, domainerror.NewWorkoutError(
			domainerror.ErrCodeMissingScheduledWorkoutID,
			"scheduled workout id is required",
			domainerror.ErrMissingScheduledWorkoutID,
		)
	}
	if workoutSessionID == "" {
		return CompleteResult{}, domainerror.NewWorkoutError(
			domainerror.ErrCodeMissingWorkoutSessionID,
			"workout session id is required",
			domainerror.ErrMissingWorkoutSessionID,
		)
	}

	lock := g.lockFor(scheduledWorkoutID)
	lock.Lock()
	defer lock.Unlock()

	current, known := g.Get(scheduledWorkoutID)
	if !known {
		fetched, err := g.api.FetchScheduledWorkout(ctx, scheduledWorkoutID)
		if err != nil {
			return CompleteResult{}, g.wrapFetchError(scheduledWorkoutID, err)
		}
		current = g.Observe(fetched)
	}

	if current.IsCompleted() {
		g.logger.Debug("Scheduled workout already completed",
			"scheduled_workout_id", scheduledWorkoutID,
			"workout_session_id", current.SessionID())
		return CompleteResult{AlreadyCompleted: true}, nil
	}

	if err := g.api.CompleteScheduledWorkout(ctx, scheduledWorkoutID, workoutSessionID); err != nil {
		g.logger.Warn("Failed to complete scheduled workout",
			"scheduled_workout_id", scheduledWorkoutID,
			"error", err)
		return CompleteResult{}, wrapCompletionError(err)
	}

	previous := current.Status
	completed := current
	if err := completed.MarkCompleted(workoutSessionID); err != nil {
		return CompleteResult{}, domainerror.NewWorkoutError(domainerror.ErrCodeCompletionFailed, "failed to mark scheduled workout completed", err)
	}
	g.store(completed)

	g.logger.Info("Scheduled workout completed",
		"scheduled_workout_id", scheduledWorkoutID,
		"workout_session_id", workoutSessionID)

	g.publish(ctx, previous, completed)
	return CompleteResult{}, nil
}

func (g *Guard) publish(ctx context.Context, from entity.Status, w entity.ScheduledWorkout) {
	if g.publisher == nil {
		return
	}
	ev := entity.NewTransitionEvent(from, w, g.clock.Now())
	if _, err := g.publisher.MaybeFire(ctx, ev); err != nil {
		g.logger.Error("Failed to dispatch completion effect",
			"scheduled_workout_id", w.ID,
			"error", err)
	}
}

// Observe seeds or refreshes the local view from a fetched workout. A
// completed local view never regresses to scheduled. The stored value is returned.
func (g *Guard) Observe(w entity.ScheduledWorkout) entity.ScheduledWorkout {
	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.workouts[w.ID]; ok && existing.IsCompleted() && !w.IsCompleted() {
		return existing
	}
	g.workouts[w.ID] = w
	return w
}

func (g *Guard) store(w entity.ScheduledWorkout) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.workouts[w.ID] = w
	g.tracked[w.ID] = struct{}{}
}

// Get returns the local view of a scheduled workout.
func (g *Guard) Get(id string) (entity.ScheduledWorkout, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	w, ok := g.workouts[id]
	return w, ok
}

// IsCompleted reports whether the local view shows the workout completed.
func (g *Guard) IsCompleted(id string) bool {
	w, ok := g.Get(id)
	return ok && w.IsCompleted()
}

// Track adds a scheduled workout id to the set polled for changes.
func (g *Guard) Track(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tracked[id] = struct{}{}
}

// Untrack removes a scheduled workout id from the polled set.
func (g *Guard) Untrack(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.tracked, id)
}

// TrackedIDs returns the tracked ids in lexical order.
func (g *Guard) TrackedIDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ids := make([]string, 0, len(g.tracked))
	for id := range g.tracked {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (g *Guard) lockFor(id string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()

	lock, ok := g.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		g.locks[id] = lock
	}
	return lock
}

func (g *Guard) wrapFetchError(id string, err error) error {
	var fetchErr *domainerror.FetchError
	if errors.As(err, &fetchErr) && fetchErr.Code == domainerror.ErrCodeFetchNotFound {
		return domainerror.NewWorkoutError(domainerror.ErrCodeScheduledWorkoutNotFound,
			"scheduled workout not found: "+id, domainerror.ErrScheduledWorkoutNotFound)
	}
	return domainerror.NewWorkoutError(domainerror.ErrCodeCompletionFailed, "failed to load scheduled workout", err)
}

func wrapCompletionError(err error) error {
	var workoutErr *domainerror.WorkoutError
	if errors.As(err, &workoutErr) {
		return err
	}
	return domainerror.NewWorkoutError(domainerror.ErrCodeCompletionFailed, "failed to complete scheduled workout", err)
}
