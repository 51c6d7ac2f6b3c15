package metrics

import (
	"context"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/domain/entity"
)

// Effect label values.
const (
	EffectGoalAchieved     = "goal_achieved"
	EffectHydrationReached = "hydration_reached"
	EffectHydrationReset   = "hydration_reset"
	EffectWorkoutCompleted = "workout_completed"
)

type instrumentedHandlers struct {
	next adapter.EffectHandlers
}

// InstrumentEffects counts every effect handler invocation before delegating.
func InstrumentEffects(next adapter.EffectHandlers) adapter.EffectHandlers {
	return &instrumentedHandlers{next: next}
}

func (h *instrumentedHandlers) OnGoalAchieved(ctx context.Context, goal entity.Goal) {
	effectsFiredTotal.WithLabelValues(EffectGoalAchieved).Inc()
	h.next.OnGoalAchieved(ctx, goal)
}

func (h *instrumentedHandlers) OnHydrationGoalReached(ctx context.Context, record entity.WaterRecord) {
	effectsFiredTotal.WithLabelValues(EffectHydrationReached).Inc()
	h.next.OnHydrationGoalReached(ctx, record)
}

func (h *instrumentedHandlers) OnHydrationGoalReset(ctx context.Context) {
	effectsFiredTotal.WithLabelValues(EffectHydrationReset).Inc()
	h.next.OnHydrationGoalReset(ctx)
}

func (h *instrumentedHandlers) OnScheduledWorkoutCompleted(ctx context.Context, id, workoutSessionID string) {
	effectsFiredTotal.WithLabelValues(EffectWorkoutCompleted).Inc()
	h.next.OnScheduledWorkoutCompleted(ctx, id, workoutSessionID)
}

type instrumentedLedger struct {
	next adapter.IdempotencyLedger
}

// InstrumentLedger counts suppressed duplicates and backend failures.
func InstrumentLedger(next adapter.IdempotencyLedger) adapter.IdempotencyLedger {
	return &instrumentedLedger{next: next}
}

func (l *instrumentedLedger) Insert(ctx context.Context, entry entity.IdempotencyEntry) (bool, error) {
	inserted, err := l.next.Insert(ctx, entry)
	if err != nil {
		ledgerErrorsTotal.WithLabelValues("insert").Inc()
		return false, err
	}
	if !inserted {
		duplicateEffectsTotal.Inc()
	}
	return inserted, nil
}

func (l *instrumentedLedger) Exists(ctx context.Context, effectKey string) (bool, error) {
	ok, err := l.next.Exists(ctx, effectKey)
	if err != nil {
		ledgerErrorsTotal.WithLabelValues("exists").Inc()
	}
	return ok, err
}

func (l *instrumentedLedger) Generation(ctx context.Context, scope string) (int64, error) {
	gen, err := l.next.Generation(ctx, scope)
	if err != nil {
		ledgerErrorsTotal.WithLabelValues("generation").Inc()
	}
	return gen, err
}

func (l *instrumentedLedger) AdvanceGeneration(ctx context.Context, scope string) (int64, error) {
	gen, err := l.next.AdvanceGeneration(ctx, scope)
	if err != nil {
		ledgerErrorsTotal.WithLabelValues("advance_generation").Inc()
	}
	return gen, err
}

// Notifier matches message.Service.
type Notifier interface {
	Show(ctx context.Context, severity entity.Severity, text string) bool
}

type instrumentedNotifier struct {
	next Notifier
}

// InstrumentNotifier counts messages the deduper suppressed.
func InstrumentNotifier(next Notifier) Notifier {
	return &instrumentedNotifier{next: next}
}

func (n *instrumentedNotifier) Show(ctx context.Context, severity entity.Severity, text string) bool {
	shown := n.next.Show(ctx, severity, text)
	if !shown {
		messagesSuppressedTotal.WithLabelValues(string(severity)).Inc()
	}
	return shown
}
