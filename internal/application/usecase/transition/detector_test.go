package transition

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fitness-tracker/companion/internal/domain/entity"
)

var observedAt = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func goalSnapshot(seq uint64, goals ...entity.Goal) *entity.Snapshot {
	entities := make([]entity.Entity, len(goals))
	for i, g := range goals {
		entities[i] = g
	}
	return entity.NewSnapshot(entity.KindGoal, seq, observedAt, entities)
}

func waterSnapshot(seq uint64, date string, amountMl int) *entity.Snapshot {
	return entity.NewSnapshot(entity.KindWater, seq, observedAt, []entity.Entity{
		entity.NewWaterRecord(date, amountMl, 0),
	})
}

func goal(id string, status entity.Status) entity.Goal {
	return entity.Goal{ID: id, Status: status, CurrentValue: decimal.NewFromInt(8), TargetValue: decimal.NewFromInt(10)}
}

func TestDetector_Detect_Monotonic(t *testing.T) {
	d := NewDetector(0)

	t.Run("no previous snapshot emits nothing", func(t *testing.T) {
		current := goalSnapshot(1, goal("g1", entity.GoalStatusCompleted))

		if events := d.Detect(entity.KindGoal, nil, current); len(events) != 0 {
			t.Errorf("expected no events, got %d", len(events))
		}
	})

	t.Run("entity first seen in current emits nothing regardless of status", func(t *testing.T) {
		previous := goalSnapshot(1, goal("g1", entity.GoalStatusActive))
		current := goalSnapshot(2,
			goal("g1", entity.GoalStatusActive),
			goal("g2", entity.GoalStatusCompleted),
			goal("g3", entity.GoalStatusAbandoned),
		)

		if events := d.Detect(entity.KindGoal, previous, current); len(events) != 0 {
			t.Errorf("expected no events, got %d", len(events))
		}
	})

	t.Run("active to completed emits exactly one event", func(t *testing.T) {
		previous := goalSnapshot(1, goal("g1", entity.GoalStatusActive))
		current := goalSnapshot(2, goal("g1", entity.GoalStatusCompleted))

		events := d.Detect(entity.KindGoal, previous, current)
		if len(events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(events))
		}

		e := events[0]
		if e.Kind != entity.KindGoal || e.EntityID != "g1" {
			t.Errorf("expected goal g1, got %s %s", e.Kind, e.EntityID)
		}
		if e.From != entity.GoalStatusActive || e.To != entity.GoalStatusCompleted {
			t.Errorf("expected active -> completed, got %s -> %s", e.From, e.To)
		}
		if _, ok := e.Entity.(entity.Goal); !ok {
			t.Errorf("expected goal payload, got %T", e.Entity)
		}
		if !e.ObservedAt.Equal(observedAt) {
			t.Errorf("expected observedAt %v, got %v", observedAt, e.ObservedAt)
		}
	})

	t.Run("re-detecting the same pair yields the same logical event", func(t *testing.T) {
		previous := goalSnapshot(1, goal("g1", entity.GoalStatusActive))
		current := goalSnapshot(2, goal("g1", entity.GoalStatusCompleted))

		first := d.Detect(entity.KindGoal, previous, current)
		second := d.Detect(entity.KindGoal, previous, current)

		if len(first) != 1 || len(second) != 1 {
			t.Fatalf("expected one event per call, got %d and %d", len(first), len(second))
		}
		if !first[0].SameTransition(second[0]) {
			t.Error("expected both calls to describe the same transition")
		}
	})

	t.Run("unchanged status emits nothing", func(t *testing.T) {
		previous := goalSnapshot(1, goal("g1", entity.GoalStatusCompleted))
		current := goalSnapshot(2, goal("g1", entity.GoalStatusCompleted))

		if events := d.Detect(entity.KindGoal, previous, current); len(events) != 0 {
			t.Errorf("expected no events, got %d", len(events))
		}
	})

	t.Run("multiple transitions keep current iteration order", func(t *testing.T) {
		previous := goalSnapshot(1,
			goal("g1", entity.GoalStatusActive),
			goal("g2", entity.GoalStatusActive),
			goal("g3", entity.GoalStatusActive),
		)
		current := goalSnapshot(2,
			goal("g3", entity.GoalStatusCompleted),
			goal("g1", entity.GoalStatusAbandoned),
			goal("g2", entity.GoalStatusCompleted),
		)

		events := d.Detect(entity.KindGoal, previous, current)
		want := []string{"g3", "g1", "g2"}
		if len(events) != len(want) {
			t.Fatalf("expected %d events, got %d", len(want), len(events))
		}
		for i, id := range want {
			if events[i].EntityID != id {
				t.Errorf("expected event %d for %s, got %s", i, id, events[i].EntityID)
			}
		}

		first, ok := First(events)
		if !ok || first.EntityID != "g3" {
			t.Errorf("expected First to pick g3, got %s", first.EntityID)
		}

		completed := Filter(events, entity.GoalStatusCompleted)
		if len(completed) != 2 {
			t.Errorf("expected 2 completed events, got %d", len(completed))
		}
	})

	t.Run("entity dropped from current emits nothing", func(t *testing.T) {
		previous := goalSnapshot(1, goal("g1", entity.GoalStatusActive))
		current := goalSnapshot(2)

		if events := d.Detect(entity.KindGoal, previous, current); len(events) != 0 {
			t.Errorf("expected no events, got %d", len(events))
		}
	})

	t.Run("scheduled workout completion is detected", func(t *testing.T) {
		sessionID := "s1"
		previous := entity.NewSnapshot(entity.KindScheduledWorkout, 1, observedAt, []entity.Entity{
			entity.ScheduledWorkout{ID: "w1", Status: entity.ScheduledWorkoutScheduled},
		})
		current := entity.NewSnapshot(entity.KindScheduledWorkout, 2, observedAt, []entity.Entity{
			entity.ScheduledWorkout{ID: "w1", Status: entity.ScheduledWorkoutCompleted, WorkoutSessionID: &sessionID},
		})

		events := d.Detect(entity.KindScheduledWorkout, previous, current)
		if len(events) != 1 || events[0].To != entity.ScheduledWorkoutCompleted {
			t.Fatalf("expected one completion event, got %v", events)
		}
	})
}

func TestDetector_Detect_Threshold(t *testing.T) {
	d := NewDetector(2000)
	const today = "2026-10-16"

	tests := []struct {
		name       string
		prev, cur  int
		wantRise   int
		wantResets int
	}{
		{name: "crossing upward emits a rising edge", prev: 0, cur: 2500, wantRise: 1},
		{name: "landing exactly on the goal counts as reached", prev: 1999, cur: 2000, wantRise: 1},
		{name: "dropping below the goal is a silent reset", prev: 2500, cur: 1000, wantResets: 1},
		{name: "staying above the goal is a no-op", prev: 2100, cur: 2600},
		{name: "staying below the goal is a no-op", prev: 100, cur: 900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			previous := waterSnapshot(1, today, tt.prev)
			current := waterSnapshot(2, today, tt.cur)

			rises := d.Detect(entity.KindWater, previous, current)
			resets := d.DetectResets(entity.KindWater, previous, current)

			if len(rises) != tt.wantRise {
				t.Errorf("expected %d rising edges, got %d", tt.wantRise, len(rises))
			}
			if len(resets) != tt.wantResets {
				t.Errorf("expected %d resets, got %d", tt.wantResets, len(resets))
			}
			for _, e := range rises {
				if e.To != entity.HydrationReached {
					t.Errorf("expected rising edge to reached, got %s", e.To)
				}
			}
		})
	}

	t.Run("a new day is a first observation", func(t *testing.T) {
		previous := waterSnapshot(1, "2026-10-15", 500)
		current := waterSnapshot(2, today, 2500)

		if events := d.Detect(entity.KindWater, previous, current); len(events) != 0 {
			t.Errorf("expected no events across days, got %d", len(events))
		}
	})

	t.Run("detector goal overrides the record goal", func(t *testing.T) {
		custom := NewDetector(3000)
		previous := waterSnapshot(1, today, 0)
		current := waterSnapshot(2, today, 2500)

		if events := custom.Detect(entity.KindWater, previous, current); len(events) != 0 {
			t.Errorf("expected no crossing below a 3000 ml goal, got %d", len(events))
		}
	})

	t.Run("resets are never reported for monotonic kinds", func(t *testing.T) {
		previous := goalSnapshot(1, goal("g1", entity.GoalStatusActive))
		current := goalSnapshot(2, goal("g1", entity.GoalStatusCompleted))

		if events := d.DetectResets(entity.KindGoal, previous, current); len(events) != 0 {
			t.Errorf("expected no resets for goals, got %d", len(events))
		}
	})
}

func TestNewDetector_DailyWaterGoalMl(t *testing.T) {
	tests := []struct {
		name     string
		goalMl   int
		expected int
	}{
		{"configured goal", 2500, 2500},
		{"zero falls back", 0, entity.DefaultDailyWaterGoalMl},
		{"negative falls back", -10, entity.DefaultDailyWaterGoalMl},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewDetector(tt.goalMl).DailyWaterGoalMl(); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}
