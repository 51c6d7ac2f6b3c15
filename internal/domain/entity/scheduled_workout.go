package entity

import (
	"errors"
	"time"
)

// ScheduledWorkoutStatus represents the persisted state of a scheduled workout.
// There is no in-progress state: a running workout is a local timer only.
type ScheduledWorkoutStatus = Status

const (
	ScheduledWorkoutScheduled ScheduledWorkoutStatus = "scheduled"
	ScheduledWorkoutCompleted ScheduledWorkoutStatus = "completed"
)

var (
	errEmptySessionID   = errors.New("workout session id is required")
	errSessionIDChanged = errors.New("workout session id cannot be changed once set")
)

// ScheduledWorkout is a planned workout that may be linked to a session record.
// WorkoutSessionID is non-nil exactly when Status is completed.
type ScheduledWorkout struct {
	ID               string
	Name             string
	Status           ScheduledWorkoutStatus
	WorkoutSessionID *string
	ScheduledFor     time.Time
}

// EntityID implements Entity.
func (s ScheduledWorkout) EntityID() string { return s.ID }

// EntityKind implements Entity.
func (s ScheduledWorkout) EntityKind() EntityKind { return KindScheduledWorkout }

// EntityStatus implements Entity.
func (s ScheduledWorkout) EntityStatus() Status { return s.Status }

// IsCompleted returns true once the workout has reached its terminal state.
func (s ScheduledWorkout) IsCompleted() bool {
	return s.Status == ScheduledWorkoutCompleted
}

// MarkCompleted performs the scheduled -> completed transition and attaches
// the session id. Completing again with the same session id is a no-op.
func (s *ScheduledWorkout) MarkCompleted(sessionID string) error {
	if sessionID == "" {
		return errEmptySessionID
	}
	if s.IsCompleted() {
		if s.WorkoutSessionID != nil && *s.WorkoutSessionID != sessionID {
			return errSessionIDChanged
		}
		return nil
	}

	id := sessionID
	s.Status = ScheduledWorkoutCompleted
	s.WorkoutSessionID = &id
	return nil
}

// SessionID returns the linked session id or an empty string.
func (s ScheduledWorkout) SessionID() string {
	if s.WorkoutSessionID == nil {
		return ""
	}
	return *s.WorkoutSessionID
}
