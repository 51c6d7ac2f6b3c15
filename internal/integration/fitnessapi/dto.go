package fitnessapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fitness-tracker/companion/internal/domain/entity"
)

// goalResponse is the wire shape of a goal.
type goalResponse struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Status       string          `json:"status"`
	CurrentValue decimal.Decimal `json:"currentValue"`
	TargetValue  decimal.Decimal `json:"targetValue"`
	Unit         string          `json:"unit"`
	StartDate    *string         `json:"startDate"`
	TargetDate   *string         `json:"targetDate"`
	UpdatedAt    *string         `json:"updatedAt"`
}

// ToEntity converts the response into a domain Goal.
func (r goalResponse) ToEntity() entity.Goal {
	g := entity.Goal{
		ID:           r.ID,
		Title:        r.Title,
		Status:       entity.Status(r.Status),
		CurrentValue: r.CurrentValue,
		TargetValue:  r.TargetValue,
		Unit:         r.Unit,
		StartDate:    parseTime(r.StartDate),
		TargetDate:   parseTime(r.TargetDate),
	}
	if t := parseTime(r.UpdatedAt); t != nil {
		g.UpdatedAt = *t
	}
	return g
}

// waterIntakeResponse is the wire shape of a day's water intake.
type waterIntakeResponse struct {
	Date     string `json:"date"`
	AmountMl int    `json:"amountMl"`
}

// scheduledWorkoutResponse is the wire shape of a scheduled workout.
type scheduledWorkoutResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Status           string  `json:"status"`
	WorkoutSessionID *string `json:"workoutSessionId"`
	ScheduledFor     *string `json:"scheduledFor"`
}

// consistent reports whether the status is known and a session id is present
// exactly when the workout is completed.
func (r scheduledWorkoutResponse) consistent() bool {
	hasSession := r.WorkoutSessionID != nil && *r.WorkoutSessionID != ""
	switch entity.Status(r.Status) {
	case entity.ScheduledWorkoutScheduled:
		return !hasSession
	case entity.ScheduledWorkoutCompleted:
		return hasSession
	}
	return false
}

// ToEntity converts the response into a domain ScheduledWorkout.
func (r scheduledWorkoutResponse) ToEntity() entity.ScheduledWorkout {
	w := entity.ScheduledWorkout{
		ID:     r.ID,
		Name:   r.Name,
		Status: entity.Status(r.Status),
	}
	if r.WorkoutSessionID != nil && *r.WorkoutSessionID != "" {
		id := *r.WorkoutSessionID
		w.WorkoutSessionID = &id
	}
	if t := parseTime(r.ScheduledFor); t != nil {
		w.ScheduledFor = *t
	}
	return w
}

// createWorkoutSessionRequest is the body of POST /api/workout-sessions.
type createWorkoutSessionRequest struct {
	ScheduledWorkoutID string    `json:"scheduledWorkoutId"`
	Name               string    `json:"name,omitempty"`
	StartedAt          time.Time `json:"startedAt"`
	EndedAt            time.Time `json:"endedAt"`
	DurationSeconds    int       `json:"durationSeconds"`
	Notes              string    `json:"notes,omitempty"`
}

func newCreateWorkoutSessionRequest(s entity.WorkoutSession) createWorkoutSessionRequest {
	return createWorkoutSessionRequest{
		ScheduledWorkoutID: s.ScheduledWorkoutID,
		Name:               s.Name,
		StartedAt:          s.StartedAt.UTC(),
		EndedAt:            s.EndedAt.UTC(),
		DurationSeconds:    s.DurationSeconds(),
		Notes:              s.Notes,
	}
}

// createWorkoutSessionResponse is the response of POST /api/workout-sessions.
type createWorkoutSessionResponse struct {
	ID string `json:"id"`
}

// completeScheduledWorkoutRequest is the body of PATCH /api/scheduled-workouts/:id/complete.
type completeScheduledWorkoutRequest struct {
	WorkoutSessionID string `json:"workoutSessionId"`
}

// errorResponse is the error body returned by the fitness API.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e errorResponse) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseTime(raw *string) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, *raw); err == nil {
			return &t
		}
	}
	return nil
}
