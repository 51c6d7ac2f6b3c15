package templates

import (
	"strings"
	"testing"
)

func TestRenderer_Render(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		template string
		data     interface{}
		want     string
		subject  string
	}{
		{
			name:     "goal achieved",
			template: GoalAchieved,
			data:     GoalAchievedData{GoalTitle: "Run 10k", CurrentValue: "10", TargetValue: "10", Unit: "km"},
			want:     "Run 10k",
			subject:  "You reached your goal: Run 10k",
		},
		{
			name:     "hydration reached",
			template: HydrationReached,
			data:     HydrationReachedData{Date: "2026-10-16", AmountMl: 2500, GoalMl: 2000},
			want:     "2500 ml",
			subject:  "Daily hydration goal reached (2500 ml)",
		},
		{
			name:     "workout completed",
			template: WorkoutCompleted,
			data:     WorkoutCompletedData{WorkoutName: "Leg day"},
			want:     "Leg day",
			subject:  "Workout completed: Leg day",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := r.Render(tt.template, tt.data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if msg.Subject != tt.subject {
				t.Errorf("expected subject %q, got %q", tt.subject, msg.Subject)
			}
			if !strings.Contains(msg.HTML, tt.want) {
				t.Errorf("expected HTML to contain %q", tt.want)
			}
			if !strings.Contains(msg.Text, tt.want) {
				t.Errorf("expected text to contain %q", tt.want)
			}
		})
	}

	t.Run("workout without name", func(t *testing.T) {
		msg, err := r.Render(WorkoutCompleted, WorkoutCompletedData{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if msg.Subject != "Workout completed" {
			t.Errorf("expected plain subject, got %q", msg.Subject)
		}
	})

	t.Run("unknown template fails", func(t *testing.T) {
		if _, err := r.Render("missing", nil); err == nil {
			t.Error("expected error, got nil")
		}
	})
}
