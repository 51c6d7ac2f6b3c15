package entity

import (
	"time"

	"github.com/google/uuid"
)

// sessionKeyNamespace scopes the deterministic idempotency keys of session creation.
var sessionKeyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("fitness-companion/workout-sessions"))

// WorkoutSession is the payload sent to create a workout session record.
type WorkoutSession struct {
	ScheduledWorkoutID string
	Name               string
	StartedAt          time.Time
	EndedAt            time.Time
	Notes              string
	IdempotencyKey     string
}

// DurationSeconds returns the elapsed session time in whole seconds.
func (w WorkoutSession) DurationSeconds() int {
	if w.EndedAt.Before(w.StartedAt) {
		return 0
	}
	return int(w.EndedAt.Sub(w.StartedAt).Seconds())
}

// SessionIdempotencyKey derives a stable key from the scheduled workout id so
// a retried session creation maps to the same key server-side.
func SessionIdempotencyKey(scheduledWorkoutID string) string {
	return uuid.NewSHA1(sessionKeyNamespace, []byte(scheduledWorkoutID)).String()
}
