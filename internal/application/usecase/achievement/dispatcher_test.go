package achievement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/application/usecase/snapshot"
	"github.com/fitness-tracker/companion/internal/application/usecase/transition"
	"github.com/fitness-tracker/companion/internal/domain/entity"
)

// fakeLedger is an in-memory IdempotencyLedger for tests.
type fakeLedger struct {
	mu          sync.Mutex
	entries     map[string]entity.IdempotencyEntry
	generations map[string]int64
	err         error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		entries:     make(map[string]entity.IdempotencyEntry),
		generations: make(map[string]int64),
	}
}

func (l *fakeLedger) Insert(_ context.Context, entry entity.IdempotencyEntry) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, l.err
	}
	if _, ok := l.entries[entry.EffectKey]; ok {
		return false, nil
	}
	l.entries[entry.EffectKey] = entry
	return true, nil
}

func (l *fakeLedger) Exists(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, l.err
	}
	_, ok := l.entries[key]
	return ok, nil
}

func (l *fakeLedger) Generation(_ context.Context, scope string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return 0, l.err
	}
	return l.generations[scope], nil
}

func (l *fakeLedger) AdvanceGeneration(_ context.Context, scope string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return 0, l.err
	}
	l.generations[scope]++
	return l.generations[scope], nil
}

// recordingHandlers counts effect invocations.
type recordingHandlers struct {
	mu                sync.Mutex
	goals             []entity.Goal
	hydrationReached  int
	hydrationReset    int
	workoutsCompleted map[string]string
}

func newRecordingHandlers() *recordingHandlers {
	return &recordingHandlers{workoutsCompleted: make(map[string]string)}
}

func (h *recordingHandlers) OnGoalAchieved(_ context.Context, goal entity.Goal) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.goals = append(h.goals, goal)
}

func (h *recordingHandlers) OnHydrationGoalReached(_ context.Context, _ entity.WaterRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hydrationReached++
}

func (h *recordingHandlers) OnHydrationGoalReset(_ context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hydrationReset++
}

func (h *recordingHandlers) OnScheduledWorkoutCompleted(_ context.Context, id, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.workoutsCompleted[id] = sessionID
}

var _ adapter.IdempotencyLedger = (*fakeLedger)(nil)
var _ adapter.EffectHandlers = (*recordingHandlers)(nil)

func testClock() adapter.Clock {
	return adapter.ClockFunc(func() time.Time {
		return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	})
}

func goalEvent(id string, from, to entity.Status) entity.TransitionEvent {
	g := entity.Goal{ID: id, Status: to, CurrentValue: decimal.NewFromInt(10), TargetValue: decimal.NewFromInt(10)}
	return entity.NewTransitionEvent(from, g, time.Now())
}

func TestDispatcher_MaybeFire(t *testing.T) {
	ctx := context.Background()

	t.Run("fires once per effect key", func(t *testing.T) {
		ledger := newFakeLedger()
		handlers := newRecordingHandlers()
		d := NewDispatcher(ledger, handlers, testClock())

		ev := goalEvent("g1", entity.GoalStatusActive, entity.GoalStatusCompleted)

		fired, err := d.MaybeFire(ctx, ev)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !fired {
			t.Error("expected first call to fire")
		}

		fired, err = d.MaybeFire(ctx, goalEvent("g1", entity.GoalStatusActive, entity.GoalStatusCompleted))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fired {
			t.Error("expected second call not to fire")
		}

		if len(handlers.goals) != 1 {
			t.Errorf("expected 1 OnGoalAchieved call, got %d", len(handlers.goals))
		}
		if handlers.goals[0].ID != "g1" {
			t.Errorf("expected goal g1, got %s", handlers.goals[0].ID)
		}
		if _, ok := ledger.entries["goal|g1|completed"]; !ok {
			t.Error("expected ledger entry goal|g1|completed")
		}
	})

	t.Run("unmapped transition records nothing", func(t *testing.T) {
		ledger := newFakeLedger()
		handlers := newRecordingHandlers()
		d := NewDispatcher(ledger, handlers, testClock())

		fired, err := d.MaybeFire(ctx, goalEvent("g1", entity.GoalStatusActive, entity.GoalStatusAbandoned))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fired {
			t.Error("expected abandoned goal not to fire")
		}
		if len(ledger.entries) != 0 {
			t.Errorf("expected empty ledger, got %d entries", len(ledger.entries))
		}
	})

	t.Run("scheduled workout completion passes the session id", func(t *testing.T) {
		handlers := newRecordingHandlers()
		d := NewDispatcher(newFakeLedger(), handlers, testClock())

		sessionID := "s1"
		w := entity.ScheduledWorkout{ID: "w1", Status: entity.ScheduledWorkoutCompleted, WorkoutSessionID: &sessionID}
		ev := entity.NewTransitionEvent(entity.ScheduledWorkoutScheduled, w, time.Now())

		if fired, _ := d.MaybeFire(ctx, ev); !fired {
			t.Fatal("expected completion to fire")
		}
		if got := handlers.workoutsCompleted["w1"]; got != "s1" {
			t.Errorf("expected session id s1, got %q", got)
		}
	})

	t.Run("ledger failure is returned and nothing fires", func(t *testing.T) {
		ledger := newFakeLedger()
		ledger.err = errors.New("connection refused")
		handlers := newRecordingHandlers()
		d := NewDispatcher(ledger, handlers, testClock())

		fired, err := d.MaybeFire(ctx, goalEvent("g1", entity.GoalStatusActive, entity.GoalStatusCompleted))
		if err == nil {
			t.Error("expected error, got nil")
		}
		if fired {
			t.Error("expected no fire on ledger failure")
		}
		if len(handlers.goals) != 0 {
			t.Errorf("expected no handler calls, got %d", len(handlers.goals))
		}
	})

	t.Run("a restarted dispatcher sharing the ledger does not fire again", func(t *testing.T) {
		ledger := newFakeLedger()
		handlers := newRecordingHandlers()

		first := NewDispatcher(ledger, handlers, testClock())
		if fired, _ := first.MaybeFire(ctx, goalEvent("g1", entity.GoalStatusActive, entity.GoalStatusCompleted)); !fired {
			t.Fatal("expected first dispatcher to fire")
		}

		second := NewDispatcher(ledger, handlers, testClock())
		if fired, _ := second.MaybeFire(ctx, goalEvent("g1", entity.GoalStatusActive, entity.GoalStatusCompleted)); fired {
			t.Error("expected restarted dispatcher not to fire")
		}
	})

	t.Run("concurrent duplicates fire once", func(t *testing.T) {
		handlers := newRecordingHandlers()
		d := NewDispatcher(newFakeLedger(), handlers, testClock())

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = d.MaybeFire(ctx, goalEvent("g1", entity.GoalStatusActive, entity.GoalStatusCompleted))
			}()
		}
		wg.Wait()

		if len(handlers.goals) != 1 {
			t.Errorf("expected 1 OnGoalAchieved call, got %d", len(handlers.goals))
		}
	})
}

// waterPoller drives the store, detector and dispatcher the way a poll does.
type waterPoller struct {
	store      *snapshot.Store
	detector   *transition.Detector
	dispatcher *Dispatcher
}

func (p *waterPoller) poll(t *testing.T, amountMl int) bool {
	t.Helper()
	ctx := context.Background()

	rec := p.store.Record(entity.KindWater, []entity.Entity{
		entity.NewWaterRecord("2026-10-16", amountMl, 0),
	})

	for _, reset := range p.detector.DetectResets(entity.KindWater, rec.Previous, rec.Current) {
		if err := p.dispatcher.ObserveReset(ctx, reset); err != nil {
			t.Fatalf("unexpected reset error: %v", err)
		}
	}

	fired := false
	for _, ev := range p.detector.Detect(entity.KindWater, rec.Previous, rec.Current) {
		ok, err := p.dispatcher.MaybeFire(ctx, ev)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		fired = fired || ok
	}
	return fired
}

func TestDispatcher_WaterRearm(t *testing.T) {
	handlers := newRecordingHandlers()
	ledger := newFakeLedger()
	p := &waterPoller{
		store:      snapshot.NewStore(testClock()),
		detector:   transition.NewDetector(2000),
		dispatcher: NewDispatcher(ledger, handlers, testClock()),
	}

	steps := []struct {
		amountMl  int
		wantFired bool
		wantTotal int
	}{
		{amountMl: 0, wantFired: false, wantTotal: 0},
		{amountMl: 2500, wantFired: true, wantTotal: 1},
		{amountMl: 1000, wantFired: false, wantTotal: 1},
		{amountMl: 2100, wantFired: true, wantTotal: 2},
		{amountMl: 2600, wantFired: false, wantTotal: 2},
	}

	for i, step := range steps {
		fired := p.poll(t, step.amountMl)
		if fired != step.wantFired {
			t.Errorf("step %d (%d ml): expected fired=%v, got %v", i, step.amountMl, step.wantFired, fired)
		}
		if handlers.hydrationReached != step.wantTotal {
			t.Errorf("step %d (%d ml): expected %d celebrations, got %d", i, step.amountMl, step.wantTotal, handlers.hydrationReached)
		}
	}

	if handlers.hydrationReset != 1 {
		t.Errorf("expected 1 reset hook call, got %d", handlers.hydrationReset)
	}
	if got := ledger.generations["water|2026-10-16"]; got != 1 {
		t.Errorf("expected generation 1, got %d", got)
	}
	for _, key := range []string{"water|2026-10-16|threshold-crossing|0", "water|2026-10-16|threshold-crossing|1"} {
		if _, ok := ledger.entries[key]; !ok {
			t.Errorf("expected ledger entry %s", key)
		}
	}
}

func TestDispatcher_ObserveReset(t *testing.T) {
	ctx := context.Background()
	reset := entity.NewTransitionEvent(entity.HydrationReached, entity.NewWaterRecord("2026-10-16", 500, 0), time.Now())

	t.Run("reset before any crossing keeps the generation", func(t *testing.T) {
		ledger := newFakeLedger()
		handlers := newRecordingHandlers()
		d := NewDispatcher(ledger, handlers, testClock())

		if err := d.ObserveReset(ctx, reset); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := ledger.generations["water|2026-10-16"]; got != 0 {
			t.Errorf("expected generation 0, got %d", got)
		}
		if handlers.hydrationReset != 1 {
			t.Errorf("expected reset hook once, got %d", handlers.hydrationReset)
		}
	})

	t.Run("repeated resets advance only once per crossing", func(t *testing.T) {
		ledger := newFakeLedger()
		d := NewDispatcher(ledger, newRecordingHandlers(), testClock())

		crossing := entity.NewTransitionEvent(entity.HydrationNotReached, entity.NewWaterRecord("2026-10-16", 2500, 0), time.Now())
		if fired, _ := d.MaybeFire(ctx, crossing); !fired {
			t.Fatal("expected crossing to fire")
		}

		for i := 0; i < 3; i++ {
			if err := d.ObserveReset(ctx, reset); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if got := ledger.generations["water|2026-10-16"]; got != 1 {
			t.Errorf("expected generation 1, got %d", got)
		}
	})

	t.Run("monotonic kinds are ignored", func(t *testing.T) {
		handlers := newRecordingHandlers()
		d := NewDispatcher(newFakeLedger(), handlers, testClock())

		if err := d.ObserveReset(ctx, goalEvent("g1", entity.GoalStatusCompleted, entity.GoalStatusAbandoned)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if handlers.hydrationReset != 0 {
			t.Errorf("expected no reset hook call, got %d", handlers.hydrationReset)
		}
	})
}

func TestDispatcher_GoalEndToEnd(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewStore(testClock())
	detector := transition.NewDetector(0)
	handlers := newRecordingHandlers()
	d := NewDispatcher(newFakeLedger(), handlers, testClock())

	g1 := entity.Goal{
		ID:           "g1",
		Status:       entity.GoalStatusActive,
		CurrentValue: decimal.NewFromInt(8),
		TargetValue:  decimal.NewFromInt(10),
	}

	poll := func(g entity.Goal) int {
		rec := store.Record(entity.KindGoal, []entity.Entity{g})
		count := 0
		for _, ev := range detector.Detect(entity.KindGoal, rec.Previous, rec.Current) {
			fired, err := d.MaybeFire(ctx, ev)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if fired {
				count++
			}
		}
		return count
	}

	if n := poll(g1); n != 0 {
		t.Errorf("expected no fire on first observation, got %d", n)
	}

	g1.Status = entity.GoalStatusCompleted
	g1.CurrentValue = decimal.NewFromInt(10)
	if n := poll(g1); n != 1 {
		t.Errorf("expected exactly one fire on completion, got %d", n)
	}

	for i := 0; i < 10; i++ {
		if n := poll(g1); n != 0 {
			t.Errorf("poll %d: expected no fire, got %d", i, n)
		}
	}

	if len(handlers.goals) != 1 {
		t.Fatalf("expected 1 OnGoalAchieved call, got %d", len(handlers.goals))
	}
	if !handlers.goals[0].Progress().Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected progress 100, got %s", handlers.goals[0].Progress())
	}
}

func TestEffectKey(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "goal", got: EffectKey(entity.KindGoal, "g1", entity.GoalStatusCompleted), want: "goal|g1|completed"},
		{name: "workout", got: EffectKey(entity.KindScheduledWorkout, "w1", entity.ScheduledWorkoutCompleted), want: "scheduled_workout|w1|completed"},
		{name: "water", got: ThresholdEffectKey(entity.KindWater, "2026-10-16", 3), want: "water|2026-10-16|threshold-crossing|3"},
		{name: "scope", got: GenerationScope(entity.KindWater, "2026-10-16"), want: "water|2026-10-16"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, tt.got)
			}
		})
	}
}
