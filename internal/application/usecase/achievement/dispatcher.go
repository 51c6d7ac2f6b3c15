// Package achievement decides whether a transition fires its side effect,
// guaranteeing each effect key fires at most once.
package achievement

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/domain/entity"
)

// Dispatcher consumes transition events and invokes the effect handlers
// through the idempotency ledger.
type Dispatcher struct {
	// mu serialises key computation with ledger writes so a reset cannot
	// interleave between reading a generation and inserting its key.
	mu       sync.Mutex
	ledger   adapter.IdempotencyLedger
	handlers adapter.EffectHandlers
	clock    adapter.Clock
	logger   *slog.Logger
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(ledger adapter.IdempotencyLedger, handlers adapter.EffectHandlers, clock adapter.Clock) *Dispatcher {
	if clock == nil {
		clock = adapter.SystemClock()
	}
	return &Dispatcher{
		ledger:   ledger,
		handlers: handlers,
		clock:    clock,
		logger:   slog.With("component", "achievement_dispatcher"),
	}
}

// MaybeFire invokes the handler mapped to ev unless its effect key has already
// fired. It returns true only when a handler was invoked. Events with no
// mapped effect return false and leave the ledger untouched.
func (d *Dispatcher) MaybeFire(ctx context.Context, ev entity.TransitionEvent) (bool, error) {
	if !hasEffect(ev) {
		return false, nil
	}

	key, inserted, err := d.claim(ctx, ev)
	if err != nil {
		return false, err
	}
	if !inserted {
		d.logger.Debug("Effect already fired", "effect_key", key)
		return false, nil
	}

	d.invoke(ctx, ev)
	d.logger.Info("Effect fired",
		"effect_key", key,
		"kind", ev.Kind,
		"entity_id", ev.EntityID,
		"event_id", ev.ID.String())
	return true, nil
}

func (d *Dispatcher) claim(ctx context.Context, ev entity.TransitionEvent) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := EffectKey(ev.Kind, ev.EntityID, ev.To)
	if ev.Kind.IsReArmable() {
		generation, err := d.ledger.Generation(ctx, GenerationScope(ev.Kind, ev.EntityID))
		if err != nil {
			return "", false, fmt.Errorf("failed to read generation: %w", err)
		}
		key = ThresholdEffectKey(ev.Kind, ev.EntityID, generation)
	}

	inserted, err := d.ledger.Insert(ctx, entity.IdempotencyEntry{
		EffectKey: key,
		FiredAt:   d.clock.Now(),
	})
	if err != nil {
		return key, false, fmt.Errorf("failed to record effect %s: %w", key, err)
	}
	return key, inserted, nil
}

// ObserveReset handles a reached -> not_reached edge of a re-armable entity.
// If the current generation has fired, the generation advances so the next
// crossing gets a fresh key. The reset hook is invoked either way.
func (d *Dispatcher) ObserveReset(ctx context.Context, ev entity.TransitionEvent) error {
	if !ev.Kind.IsReArmable() {
		return nil
	}

	if err := d.rearm(ctx, ev); err != nil {
		return err
	}

	d.handlers.OnHydrationGoalReset(ctx)
	return nil
}

func (d *Dispatcher) rearm(ctx context.Context, ev entity.TransitionEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	scope := GenerationScope(ev.Kind, ev.EntityID)
	generation, err := d.ledger.Generation(ctx, scope)
	if err != nil {
		return fmt.Errorf("failed to read generation: %w", err)
	}

	fired, err := d.ledger.Exists(ctx, ThresholdEffectKey(ev.Kind, ev.EntityID, generation))
	if err != nil {
		return fmt.Errorf("failed to check effect: %w", err)
	}
	if !fired {
		d.logger.Debug("Reset before any crossing, generation kept", "scope", scope, "generation", generation)
		return nil
	}

	next, err := d.ledger.AdvanceGeneration(ctx, scope)
	if err != nil {
		return fmt.Errorf("failed to advance generation: %w", err)
	}
	d.logger.Debug("Re-armed threshold effect", "scope", scope, "generation", next)
	return nil
}

func (d *Dispatcher) invoke(ctx context.Context, ev entity.TransitionEvent) {
	switch ev.Kind {
	case entity.KindGoal:
		goal, _ := ev.Entity.(entity.Goal)
		if goal.ID == "" {
			goal.ID = ev.EntityID
			goal.Status = ev.To
		}
		d.handlers.OnGoalAchieved(ctx, goal)
	case entity.KindWater:
		record, _ := ev.Entity.(entity.WaterRecord)
		if record.Date == "" {
			record = entity.NewWaterRecord(ev.EntityID, 0, 0)
		}
		d.handlers.OnHydrationGoalReached(ctx, record)
	case entity.KindScheduledWorkout:
		workout, _ := ev.Entity.(entity.ScheduledWorkout)
		d.handlers.OnScheduledWorkoutCompleted(ctx, ev.EntityID, workout.SessionID())
	}
}
