package snapshot

import (
	"testing"
	"time"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/domain/entity"
)

func fixedClock() adapter.Clock {
	at := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	return adapter.ClockFunc(func() time.Time { return at })
}

func goals(statuses ...string) []entity.Entity {
	out := make([]entity.Entity, 0, len(statuses))
	for i, s := range statuses {
		out = append(out, entity.Goal{ID: string(rune('a' + i)), Status: entity.Status(s)})
	}
	return out
}

func TestStore_Record(t *testing.T) {
	t.Run("first record has no previous snapshot", func(t *testing.T) {
		store := NewStore(fixedClock())

		rec := store.Record(entity.KindGoal, goals("active"))

		if rec.HasPrevious() {
			t.Error("expected no previous snapshot on first record")
		}
		if rec.Current == nil || rec.Current.Len() != 1 {
			t.Fatalf("expected current snapshot with 1 entity, got %v", rec.Current)
		}
	})

	t.Run("second record returns the first as previous", func(t *testing.T) {
		store := NewStore(fixedClock())

		first := store.Record(entity.KindGoal, goals("active"))
		second := store.Record(entity.KindGoal, goals("completed"))

		if second.Previous != first.Current {
			t.Error("expected previous to be the snapshot stored by the first call")
		}
		e, ok := second.Current.Get("a")
		if !ok {
			t.Fatal("expected entity a in current snapshot")
		}
		if e.EntityStatus() != entity.GoalStatusCompleted {
			t.Errorf("expected status completed, got %s", e.EntityStatus())
		}
	})

	t.Run("kinds are stored independently", func(t *testing.T) {
		store := NewStore(fixedClock())

		store.Record(entity.KindGoal, goals("active"))
		rec := store.Record(entity.KindWater, []entity.Entity{entity.NewWaterRecord("2026-10-16", 500, 0)})

		if rec.HasPrevious() {
			t.Error("expected water kind to have no previous snapshot")
		}
		if store.Current(entity.KindGoal) == nil {
			t.Error("expected goal snapshot to remain stored")
		}
	})

	t.Run("snapshot is not affected by later mutation of the input slice", func(t *testing.T) {
		store := NewStore(fixedClock())
		input := goals("active")

		rec := store.Record(entity.KindGoal, input)
		input[0] = entity.Goal{ID: "a", Status: entity.GoalStatusAbandoned}

		e, _ := rec.Current.Get("a")
		if e.EntityStatus() != entity.GoalStatusActive {
			t.Errorf("expected stored status active, got %s", e.EntityStatus())
		}
	})
}

func TestStore_RecordSequenced(t *testing.T) {
	t.Run("out of order resolution is discarded", func(t *testing.T) {
		store := NewStore(fixedClock())

		slow := store.NextSequence(entity.KindGoal)
		fast := store.NextSequence(entity.KindGoal)

		if _, ok := store.RecordSequenced(entity.KindGoal, fast, goals("completed")); !ok {
			t.Fatal("expected newer fetch to be applied")
		}

		rec, ok := store.RecordSequenced(entity.KindGoal, slow, goals("active"))
		if ok {
			t.Fatal("expected stale fetch to be discarded")
		}
		if rec.Current.Sequence() != fast {
			t.Errorf("expected current sequence %d, got %d", fast, rec.Current.Sequence())
		}

		e, _ := store.Current(entity.KindGoal).Get("a")
		if e.EntityStatus() != entity.GoalStatusCompleted {
			t.Errorf("expected newer snapshot to remain, got status %s", e.EntityStatus())
		}
	})

	t.Run("in order resolutions are all applied", func(t *testing.T) {
		store := NewStore(fixedClock())

		for i, status := range []string{"active", "active", "completed"} {
			seq := store.NextSequence(entity.KindGoal)
			rec, ok := store.RecordSequenced(entity.KindGoal, seq, goals(status))
			if !ok {
				t.Fatalf("expected fetch %d to be applied", i)
			}
			if i == 0 && rec.HasPrevious() {
				t.Error("expected no previous snapshot for the first fetch")
			}
			if i > 0 && !rec.HasPrevious() {
				t.Errorf("expected previous snapshot for fetch %d", i)
			}
		}
	})

	t.Run("duplicate sequence is discarded", func(t *testing.T) {
		store := NewStore(fixedClock())
		seq := store.NextSequence(entity.KindGoal)

		store.RecordSequenced(entity.KindGoal, seq, goals("active"))
		if _, ok := store.RecordSequenced(entity.KindGoal, seq, goals("completed")); ok {
			t.Error("expected the same sequence to be applied only once")
		}
	})
}

func TestStore_Reset(t *testing.T) {
	store := NewStore(fixedClock())
	store.Record(entity.KindGoal, goals("active"))

	store.Reset(entity.KindGoal)

	if store.Current(entity.KindGoal) != nil {
		t.Error("expected no current snapshot after reset")
	}
	if _, ok := store.LastAppliedAt(entity.KindGoal); ok {
		t.Error("expected LastAppliedAt to report nothing after reset")
	}
}
