package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/fitness-tracker/companion/internal/domain/entity"
	"github.com/fitness-tracker/companion/internal/integration/persistence"
)

type nopHandlers struct {
	goals int
}

func (h *nopHandlers) OnGoalAchieved(context.Context, entity.Goal)                 { h.goals++ }
func (h *nopHandlers) OnHydrationGoalReached(context.Context, entity.WaterRecord)  {}
func (h *nopHandlers) OnHydrationGoalReset(context.Context)                        {}
func (h *nopHandlers) OnScheduledWorkoutCompleted(context.Context, string, string) {}

type staticNotifier bool

func (n staticNotifier) Show(context.Context, entity.Severity, string) bool { return bool(n) }

func TestInstrumentEffects(t *testing.T) {
	next := &nopHandlers{}
	handlers := InstrumentEffects(next)
	before := testutil.ToFloat64(effectsFiredTotal.WithLabelValues(EffectGoalAchieved))

	handlers.OnGoalAchieved(context.Background(), entity.Goal{ID: "g1"})

	if next.goals != 1 {
		t.Errorf("expected delegate to be called once, got %d", next.goals)
	}
	if got := testutil.ToFloat64(effectsFiredTotal.WithLabelValues(EffectGoalAchieved)) - before; got != 1 {
		t.Errorf("expected counter to grow by 1, got %v", got)
	}
}

func TestInstrumentLedger(t *testing.T) {
	ctx := context.Background()
	ledger := InstrumentLedger(persistence.NewMemoryLedger())
	entry := entity.IdempotencyEntry{EffectKey: "goal|g1|completed"}
	before := testutil.ToFloat64(duplicateEffectsTotal)

	if ok, err := ledger.Insert(ctx, entry); err != nil || !ok {
		t.Fatalf("expected first insert to succeed, got %v, %v", ok, err)
	}
	if ok, err := ledger.Insert(ctx, entry); err != nil || ok {
		t.Fatalf("expected duplicate insert to return false, got %v, %v", ok, err)
	}

	if got := testutil.ToFloat64(duplicateEffectsTotal) - before; got != 1 {
		t.Errorf("expected one suppressed duplicate, got %v", got)
	}
}

func TestInstrumentNotifier(t *testing.T) {
	before := testutil.ToFloat64(messagesSuppressedTotal.WithLabelValues("error"))

	if !InstrumentNotifier(staticNotifier(true)).Show(context.Background(), entity.SeverityError, "x") {
		t.Error("expected shown message to pass through")
	}
	if InstrumentNotifier(staticNotifier(false)).Show(context.Background(), entity.SeverityError, "x") {
		t.Error("expected suppressed message to pass through as false")
	}

	if got := testutil.ToFloat64(messagesSuppressedTotal.WithLabelValues("error")) - before; got != 1 {
		t.Errorf("expected one suppressed message, got %v", got)
	}
}

func TestObservePoll(t *testing.T) {
	kind := string(entity.KindWater)
	stale := testutil.ToFloat64(staleSnapshotsTotal.WithLabelValues(kind))
	failures := testutil.ToFloat64(fetchFailuresTotal.WithLabelValues(kind))

	ObservePoll(kind, true, nil)
	ObservePoll(kind, false, errors.New("boom"))

	if got := testutil.ToFloat64(staleSnapshotsTotal.WithLabelValues(kind)) - stale; got != 1 {
		t.Errorf("expected one stale snapshot, got %v", got)
	}
	if got := testutil.ToFloat64(fetchFailuresTotal.WithLabelValues(kind)) - failures; got != 1 {
		t.Errorf("expected one fetch failure, got %v", got)
	}
}
