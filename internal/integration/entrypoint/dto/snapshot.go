package dto

import (
	"time"

	"github.com/fitness-tracker/companion/internal/application/usecase/polling"
	"github.com/fitness-tracker/companion/internal/domain/entity"
)

// GoalResponse represents a goal in API responses.
type GoalResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title,omitempty"`
	Status       string  `json:"status"`
	CurrentValue string  `json:"current_value"`
	TargetValue  string  `json:"target_value"`
	Unit         string  `json:"unit,omitempty"`
	Progress     string  `json:"progress"`
	StartDate    *string `json:"start_date,omitempty"`
	TargetDate   *string `json:"target_date,omitempty"`
}

// WaterRecordResponse represents a day of water intake in API responses.
type WaterRecordResponse struct {
	Date        string `json:"date"`
	Status      string `json:"status"`
	AmountMl    int    `json:"amount_ml"`
	GoalMl      int    `json:"goal_ml"`
	RemainingMl int    `json:"remaining_ml"`
}

// ScheduledWorkoutResponse represents a scheduled workout in API responses.
type ScheduledWorkoutResponse struct {
	ID               string     `json:"id"`
	Name             string     `json:"name,omitempty"`
	Status           string     `json:"status"`
	WorkoutSessionID *string    `json:"workout_session_id"`
	ScheduledFor     *time.Time `json:"scheduled_for,omitempty"`
}

// SnapshotResponse represents the last committed snapshot of one kind.
type SnapshotResponse struct {
	Kind       string        `json:"kind"`
	Sequence   uint64        `json:"sequence"`
	ObservedAt time.Time     `json:"observed_at"`
	Entities   []interface{} `json:"entities"`
}

// TransitionResponse represents a detected transition.
type TransitionResponse struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	EntityID   string    `json:"entity_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	ObservedAt time.Time `json:"observed_at"`
}

// RefreshResponse represents the outcome of an on-demand refetch.
type RefreshResponse struct {
	Kind        string               `json:"kind"`
	Sequence    uint64               `json:"sequence"`
	Applied     bool                 `json:"applied"`
	Stale       bool                 `json:"stale"`
	Fired       int                  `json:"fired"`
	Transitions []TransitionResponse `json:"transitions"`
}

// ToSnapshotResponse converts a snapshot to its response DTO.
func ToSnapshotResponse(s *entity.Snapshot) SnapshotResponse {
	entities := s.Entities()
	response := SnapshotResponse{
		Kind:       string(s.Kind()),
		Sequence:   s.Sequence(),
		ObservedAt: s.ObservedAt(),
		Entities:   make([]interface{}, 0, len(entities)),
	}
	for _, e := range entities {
		response.Entities = append(response.Entities, ToEntityResponse(e))
	}
	return response
}

// ToEntityResponse converts a domain entity to its response DTO.
func ToEntityResponse(e entity.Entity) interface{} {
	switch v := e.(type) {
	case entity.Goal:
		return ToGoalResponse(v)
	case entity.WaterRecord:
		return ToWaterRecordResponse(v)
	case entity.ScheduledWorkout:
		return ToScheduledWorkoutResponse(v)
	default:
		return map[string]string{"id": e.EntityID(), "status": string(e.EntityStatus())}
	}
}

// ToGoalResponse converts a domain Goal entity to a GoalResponse DTO.
func ToGoalResponse(g entity.Goal) GoalResponse {
	return GoalResponse{
		ID:           g.ID,
		Title:        g.Title,
		Status:       string(g.Status),
		CurrentValue: g.CurrentValue.String(),
		TargetValue:  g.TargetValue.String(),
		Unit:         g.Unit,
		Progress:     g.Progress().String(),
		StartDate:    formatDate(g.StartDate),
		TargetDate:   formatDate(g.TargetDate),
	}
}

// ToWaterRecordResponse converts a WaterRecord to its response DTO.
func ToWaterRecordResponse(w entity.WaterRecord) WaterRecordResponse {
	return WaterRecordResponse{
		Date:        w.Date,
		Status:      string(w.EntityStatus()),
		AmountMl:    w.AmountMl,
		GoalMl:      w.GoalMl,
		RemainingMl: w.RemainingMl(),
	}
}

// ToScheduledWorkoutResponse converts a ScheduledWorkout to its response DTO.
func ToScheduledWorkoutResponse(w entity.ScheduledWorkout) ScheduledWorkoutResponse {
	response := ScheduledWorkoutResponse{
		ID:               w.ID,
		Name:             w.Name,
		Status:           string(w.Status),
		WorkoutSessionID: w.WorkoutSessionID,
	}
	if !w.ScheduledFor.IsZero() {
		t := w.ScheduledFor
		response.ScheduledFor = &t
	}
	return response
}

// ToRefreshResponse converts a poll output to its response DTO.
func ToRefreshResponse(o *polling.PollOutput) RefreshResponse {
	response := RefreshResponse{
		Kind:        string(o.Kind),
		Sequence:    o.Sequence,
		Applied:     o.Applied,
		Stale:       o.Stale,
		Fired:       o.Fired,
		Transitions: make([]TransitionResponse, 0, len(o.Transitions)),
	}
	for _, ev := range o.Transitions {
		response.Transitions = append(response.Transitions, TransitionResponse{
			ID:         ev.ID.String(),
			Kind:       string(ev.Kind),
			EntityID:   ev.EntityID,
			From:       string(ev.From),
			To:         string(ev.To),
			ObservedAt: ev.ObservedAt,
		})
	}
	return response
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
