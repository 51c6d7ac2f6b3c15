package dto

import "time"

// FinishWorkoutRequest represents the request body for finishing a scheduled workout.
type FinishWorkoutRequest struct {
	Name      string    `json:"name"`
	StartedAt time.Time `json:"started_at" binding:"required"`
	EndedAt   time.Time `json:"ended_at" binding:"required"`
	Notes     string    `json:"notes,omitempty"`
}

// FinishWorkoutResponse represents the response for finishing a scheduled workout.
type FinishWorkoutResponse struct {
	ScheduledWorkoutID string `json:"scheduled_workout_id"`
	WorkoutSessionID   string `json:"workout_session_id,omitempty"`
	AlreadyCompleted   bool   `json:"already_completed"`
}

// CompleteWorkoutRequest represents the request body for completing a
// scheduled workout with an existing session.
type CompleteWorkoutRequest struct {
	WorkoutSessionID string `json:"workout_session_id" binding:"required"`
}

// CompleteWorkoutResponse represents the response for completing a scheduled workout.
type CompleteWorkoutResponse struct {
	ScheduledWorkoutID string `json:"scheduled_workout_id"`
	AlreadyCompleted   bool   `json:"already_completed"`
}

// TrackWorkoutResponse represents the response for tracking a scheduled workout.
type TrackWorkoutResponse struct {
	ScheduledWorkoutID string   `json:"scheduled_workout_id"`
	Tracked            []string `json:"tracked"`
}
